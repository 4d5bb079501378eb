package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/cvlens/cvlens/internal/model"
)

func sampleRecord() *model.ResumeRecord {
	return &model.ResumeRecord{
		PersonalInfo: model.PersonalInfo{Name: "Rahim Uddin", Email: "rahim@example.com"},
		Addresses: []model.Address{
			{Type: "present", Address: "Dhanmondi, Dhaka", PostCode: "1209"},
		},
		Skills: []string{"Go", "SQL"},
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewWriter_DefaultsToJSON(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, "")
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if _, ok := w.(*JSONWriter); !ok {
		t.Errorf("expected *JSONWriter, got %T", w)
	}
}

func TestJSONWriter_SingleObject(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.Write(sampleRecord()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Errorf("record must serialize as an object, got %q", out[:1])
	}

	var got model.ResumeRecord
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.PersonalInfo.Name != "Rahim Uddin" {
		t.Errorf("name = %q", got.PersonalInfo.Name)
	}
	if !strings.Contains(out, "\"post_code\": \"1209\"") {
		t.Errorf("expected snake_case keys, got:\n%s", out)
	}
}

func TestYAMLWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	if err := w.Write(sampleRecord()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got model.ResumeRecord
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if got.Addresses[0].PostCode != "1209" {
		t.Errorf("post_code = %q", got.Addresses[0].PostCode)
	}
	if !strings.Contains(buf.String(), "personal_info:") {
		t.Errorf("expected snake_case keys, got:\n%s", buf.String())
	}
}

func TestExtension(t *testing.T) {
	if got := Extension(FormatJSON); got != ".json" {
		t.Errorf("Extension(json) = %q", got)
	}
	if got := Extension(FormatYAML); got != ".yaml" {
		t.Errorf("Extension(yaml) = %q", got)
	}
}
