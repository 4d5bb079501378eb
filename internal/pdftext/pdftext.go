// Package pdftext extracts plain text from PDF resumes.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// UnreadableError reports a PDF that cannot be read at all: corrupt,
// encrypted, or not a PDF.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("unreadable document %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }

// Extract returns the plain text content of the PDF at path. Image-only PDFs
// yield an empty string rather than an error; the caller decides whether
// that is fatal.
func Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &UnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	rs, err := r.GetPlainText()
	if err != nil {
		return "", &UnreadableError{Path: path, Err: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", &UnreadableError{Path: path, Err: err}
	}

	return CleanText(buf.String()), nil
}

var (
	spaceRuns = regexp.MustCompile(`[ \t]+`)
)

// CleanText collapses the whitespace noise typical of PDF text extraction:
// runs of spaces and tabs become one space, lines are trimmed, and blank
// runs are capped at a single line so paragraph breaks survive.
func CleanText(text string) string {
	text = spaceRuns.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	prevBlank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !prevBlank {
				out = append(out, "")
			}
			prevBlank = true
			continue
		}
		out = append(out, line)
		prevBlank = false
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
