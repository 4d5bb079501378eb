package normalize

// ExtractJSON locates the outermost balanced {...} span in raw model output,
// skipping any surrounding prose or markdown code fences. The scan counts
// brackets while tracking string literals and escapes, so braces inside
// extracted values do not confuse it.
//
// The returned balanced flag is false when no closing brace matches: the span
// then runs from the candidate opening brace to the end of the text, so a
// truncated completion still reaches the parser and fails there with a
// position instead of being dropped here.
func ExtractJSON(raw string) (span string, balanced bool) {
	start := -1
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		if end, ok := matchBrace(raw, i); ok {
			return raw[i : end+1], true
		}
		if start < 0 {
			start = i
		}
	}
	if start < 0 {
		return "", false
	}
	return raw[start:], false
}

// matchBrace returns the index of the brace closing the object opened at
// raw[open], or false if the text ends first.
func matchBrace(raw string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
