package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// wireRecord is the lenient decoding target. Top-level fields stay raw so
// each can be coerced individually with its own field name in diagnostics.
type wireRecord struct {
	PersonalInfo      json.RawMessage `json:"personal_info"`
	Addresses         json.RawMessage `json:"addresses"`
	AcademicEducation json.RawMessage `json:"academic_education"`
	Employment        json.RawMessage `json:"employment"`
	Skills            json.RawMessage `json:"skills"`
}

type wirePersonal struct {
	Name        flexString `json:"name"`
	DateOfBirth flexString `json:"date_of_birth"`
	Gender      flexString `json:"gender"`
	Email       flexString `json:"email"`
	Phone       flexString `json:"phone"`
}

type wireAddress struct {
	Type     flexString `json:"type"`
	Address  flexString `json:"address"`
	PostName flexString `json:"post_name"`
	PostCode flexString `json:"post_code"`
}

type wireEducation struct {
	Levels      flexString `json:"levels"`
	Subject     flexString `json:"subject"`
	Board       flexString `json:"board"`
	Institute   flexString `json:"institute"`
	PassingYear flexString `json:"passing_year"`
	Result      flexString `json:"result"`
}

type wireEmployment struct {
	CompanyName      flexString `json:"company_name"`
	CompanyType      flexString `json:"company_type"`
	Position         flexString `json:"position"`
	JoiningDate      flexString `json:"joining_date"`
	LeavingDate      flexString `json:"leaving_date"`
	CurrentlyWorking flexBool   `json:"currently_working"`
	Responsibility   flexString `json:"responsibility"`
}

// flexString is a leaf string that tolerates the scalar shapes models
// actually emit: numbers and booleans become their literal text, null becomes
// empty, and placeholder tokens like "N/A" are scrubbed to empty.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*s = ""
		return nil
	}
	switch b[0] {
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(scrubPlaceholder(v))
	case 'n':
		*s = ""
	case '{', '[':
		// A nested shape where a string belongs carries nothing salvageable.
		*s = ""
	default:
		*s = flexString(string(b))
	}
	return nil
}

// flexBool tolerates booleans spelled as strings or numbers.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*f = false
		return nil
	}
	switch b[0] {
	case 't':
		*f = true
	case '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			*f = true
		default:
			*f = false
		}
	default:
		*f = string(b) == "1"
	}
	return nil
}

// scrubPlaceholder maps the placeholder tokens models substitute for missing
// data onto the documented empty default.
func scrubPlaceholder(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "n/a", "na", "null", "none", "-":
		return ""
	}
	return strings.TrimSpace(v)
}

// decodeList coerces a raw value into a list of T. A single object where a
// list was expected becomes a one-element list; null and absence become
// empty. A scalar fails: that shape means the model abandoned the schema.
func decodeList[T any](raw json.RawMessage, field string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case 'n':
		return nil, nil
	case '[':
		var v []T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, &SchemaError{
				Reason:  fmt.Sprintf("field %q has elements that do not fit the schema: %v", field, err),
				Excerpt: excerpt(string(raw)),
			}
		}
		return v, nil
	case '{':
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, &SchemaError{
				Reason:  fmt.Sprintf("field %q does not fit the schema: %v", field, err),
				Excerpt: excerpt(string(raw)),
			}
		}
		return []T{v}, nil
	default:
		return nil, &SchemaError{
			Reason:  fmt.Sprintf("field %q must be a list, got a scalar", field),
			Excerpt: excerpt(string(raw)),
		}
	}
}

// decodeSkills accepts a list of strings or a single bare string.
func decodeSkills(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case 'n':
		return nil, nil
	case '"':
		var v flexString
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, &SchemaError{Reason: fmt.Sprintf("field %q does not parse: %v", "skills", err)}
		}
		if v == "" {
			return nil, nil
		}
		return []string{string(v)}, nil
	case '[':
		var v []flexString
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, &SchemaError{
				Reason:  fmt.Sprintf("field %q has elements that do not fit the schema: %v", "skills", err),
				Excerpt: excerpt(string(raw)),
			}
		}
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, string(s))
		}
		return out, nil
	default:
		return nil, &SchemaError{
			Reason:  "field \"skills\" must be a list, got a scalar",
			Excerpt: excerpt(string(raw)),
		}
	}
}
