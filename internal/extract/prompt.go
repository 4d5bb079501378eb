// Package extract orchestrates prompt construction, provider dispatch and
// response normalization for resume extraction.
package extract

import (
	"errors"
	"strings"

	"github.com/cvlens/cvlens/internal/model"
)

// ErrEmptyDocument is returned when the document text is empty after
// trimming. Image-only PDFs commonly produce this.
var ErrEmptyDocument = errors.New("document contains no extractable text")

const systemPrompt = `You are a resume parser. Extract structured information from resumes and return valid JSON only.`

// schemaSkeleton enumerates every field of the target record together with
// its expected type and enum vocabulary. Spelling out empty defaults is the
// main lever against invented placeholder values, so the normalizer can
// treat absence as benign.
const schemaSkeleton = `{
  "personal_info": {
    "name": "",
    "date_of_birth": "date as written in the document, or empty",
    "gender": "male|female|other",
    "email": "",
    "phone": ""
  },
  "addresses": [
    {
      "type": "present|permanent",
      "address": "full address line",
      "post_name": "",
      "post_code": ""
    }
  ],
  "academic_education": [
    {
      "levels": "%LEVELS%",
      "subject": "",
      "board": "",
      "institute": "",
      "passing_year": "",
      "result": ""
    }
  ],
  "employment": [
    {
      "company_name": "",
      "company_type": "",
      "position": "",
      "joining_date": "",
      "leaving_date": "",
      "currently_working": false,
      "responsibility": ""
    }
  ],
  "skills": ["skill one", "skill two"]
}`

// SystemPrompt returns the system message sent alongside every extraction
// request.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt constructs the extraction prompt for a resume document. It is
// deterministic: the same document text always produces the same prompt.
func BuildPrompt(documentText string) (string, error) {
	text := strings.TrimSpace(documentText)
	if text == "" {
		return "", ErrEmptyDocument
	}

	var b strings.Builder
	b.WriteString("Extract structured information from the following resume text.\n")
	b.WriteString("Return the result as a single JSON object matching this schema exactly:\n\n")
	b.WriteString(strings.Replace(schemaSkeleton, "%LEVELS%", strings.Join(model.EducationLevels, "|"), 1))
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Include every field shown above. Use an empty string, empty list or false when the document does not provide a value.\n")
	b.WriteString("- Never write placeholder text such as \"N/A\", \"null\" or \"none\".\n")
	b.WriteString("- Use arrays even when there is only one item.\n")
	b.WriteString("- Keep entries in the order they appear in the document.\n")
	b.WriteString("- Only include address types that appear in the resume.\n")
	b.WriteString("- Copy dates as written; do not reformat them.\n")
	b.WriteString("\nResume text:\n")
	b.WriteString(text)
	b.WriteString("\n\nReturn only the JSON object, no additional text or explanation.")

	return b.String(), nil
}

// BuildRepairPrompt is the stricter follow-up used after a malformed JSON
// response. Malformed output is often transient, so one repair attempt with
// an explicit valid-JSON directive is worthwhile.
func BuildRepairPrompt(documentText string) (string, error) {
	prompt, err := BuildPrompt(documentText)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Your previous response was not valid JSON and could not be parsed.\n")
	b.WriteString("Respond with exactly one syntactically valid JSON object and nothing else: ")
	b.WriteString("no markdown fences, no commentary, no trailing text.\n\n")
	b.WriteString(prompt)
	return b.String(), nil
}
