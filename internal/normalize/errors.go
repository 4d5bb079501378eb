package normalize

import "fmt"

// excerptLen caps how much raw text is carried in error diagnostics.
const excerptLen = 200

// SchemaError reports a structural failure: the model's output cannot be
// coerced into the resume schema at all.
type SchemaError struct {
	Reason  string
	Excerpt string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", e.Reason)
}

// MalformedJSONError reports output that looked like JSON but did not parse.
// It is a schema validation failure, kept distinct because a single repair
// attempt with a stricter prompt is worthwhile for this case only.
type MalformedJSONError struct {
	Offset  int64 // byte offset of the first parse error
	Excerpt string
	Err     error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON at offset %d: %v", e.Offset, e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

func excerpt(s string) string {
	if len(s) <= excerptLen {
		return s
	}
	return s[:excerptLen] + "..."
}
