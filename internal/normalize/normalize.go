// Package normalize turns raw LLM completions into validated resume records.
//
// Validation is tiered: missing data coerces to documented defaults, enum
// drift passes through with a warning, and only structural breakage fails.
// Models are unreliable at exact schema conformance, so the package optimizes
// for salvage over rejection.
package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cvlens/cvlens/internal/model"
)

var validate = validator.New()

// Normalize extracts the JSON object from raw model output, coerces it into
// a ResumeRecord, and reports schema drift as warnings. It fails with
// *MalformedJSONError when the located span does not parse and with
// *SchemaError when the output shape cannot be coerced at all.
func Normalize(raw string) (*model.ResumeRecord, []model.Warning, error) {
	span, _ := ExtractJSON(raw)
	if span == "" {
		return nil, nil, &SchemaError{
			Reason:  "no JSON object found in model output",
			Excerpt: excerpt(raw),
		}
	}

	var wire wireRecord
	if err := json.Unmarshal([]byte(span), &wire); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, nil, &MalformedJSONError{Offset: syn.Offset, Excerpt: excerpt(span), Err: err}
		}
		var typ *json.UnmarshalTypeError
		if errors.As(err, &typ) && typ.Field == "" {
			return nil, nil, &SchemaError{
				Reason:  fmt.Sprintf("top-level value is %s, not an object", typ.Value),
				Excerpt: excerpt(span),
			}
		}
		return nil, nil, &MalformedJSONError{Excerpt: excerpt(span), Err: err}
	}

	var warnings []model.Warning
	rec := &model.ResumeRecord{}

	personal, w := decodePersonal(wire.PersonalInfo)
	warnings = append(warnings, w...)
	rec.PersonalInfo = personal

	addresses, err := decodeList[wireAddress](wire.Addresses, "addresses")
	if err != nil {
		return nil, nil, err
	}
	for i, a := range addresses {
		addr := model.Address{
			Type:     string(a.Type),
			Address:  string(a.Address),
			PostName: string(a.PostName),
			PostCode: string(a.PostCode),
		}
		addr.Type, warnings = checkEnum(addr.Type, model.KnownAddressType,
			fmt.Sprintf("addresses[%d].type", i), warnings)
		rec.Addresses = append(rec.Addresses, addr)
	}

	education, err := decodeList[wireEducation](wire.AcademicEducation, "academic_education")
	if err != nil {
		return nil, nil, err
	}
	for i, e := range education {
		edu := model.Education{
			Levels:      string(e.Levels),
			Subject:     string(e.Subject),
			Board:       string(e.Board),
			Institute:   string(e.Institute),
			PassingYear: string(e.PassingYear),
			Result:      string(e.Result),
		}
		edu.Levels, warnings = checkEnum(edu.Levels, model.KnownLevel,
			fmt.Sprintf("academic_education[%d].levels", i), warnings)
		rec.AcademicEducation = append(rec.AcademicEducation, edu)
	}

	employment, err := decodeList[wireEmployment](wire.Employment, "employment")
	if err != nil {
		return nil, nil, err
	}
	for i, e := range employment {
		emp := model.Employment{
			CompanyName:      string(e.CompanyName),
			CompanyType:      string(e.CompanyType),
			Position:         string(e.Position),
			JoiningDate:      string(e.JoiningDate),
			LeavingDate:      string(e.LeavingDate),
			CurrentlyWorking: bool(e.CurrentlyWorking),
			Responsibility:   string(e.Responsibility),
		}
		if emp.CurrentlyWorking && emp.LeavingDate != "" {
			warnings = append(warnings, model.Warning{
				Field:   fmt.Sprintf("employment[%d].leaving_date", i),
				Value:   emp.LeavingDate,
				Message: "cleared: currently_working is true",
			})
			emp.LeavingDate = ""
		}
		rec.Employment = append(rec.Employment, emp)
	}

	skills, err := decodeSkills(wire.Skills)
	if err != nil {
		return nil, nil, err
	}
	rec.Skills = dedupeSkills(skills)

	return rec, warnings, nil
}

// decodePersonal tolerates a missing, null or even scalar personal_info:
// anything that is not an object coerces to the empty default with a warning.
func decodePersonal(raw json.RawMessage) (model.PersonalInfo, []model.Warning) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == 'n' {
		return model.PersonalInfo{}, nil
	}
	if raw[0] != '{' {
		return model.PersonalInfo{}, []model.Warning{{
			Field:   "personal_info",
			Value:   excerpt(string(raw)),
			Message: "not an object, using empty defaults",
		}}
	}

	var p wirePersonal
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.PersonalInfo{}, []model.Warning{{
			Field:   "personal_info",
			Message: fmt.Sprintf("does not fit the schema: %v", err),
		}}
	}

	info := model.PersonalInfo{
		Name:        string(p.Name),
		DateOfBirth: string(p.DateOfBirth),
		Gender:      string(p.Gender),
		Email:       string(p.Email),
		Phone:       string(p.Phone),
	}

	var warnings []model.Warning
	info.Gender, warnings = checkEnum(info.Gender, model.KnownGender, "personal_info.gender", warnings)

	if info.Email != "" && validate.Var(info.Email, "email") != nil {
		warnings = append(warnings, model.Warning{
			Field:   "personal_info.email",
			Value:   info.Email,
			Message: "does not look like an email address",
		})
	}

	return info, warnings
}

// checkEnum canonicalizes case for recognized members; unrecognized non-empty
// values pass through verbatim with exactly one warning for the field.
func checkEnum(v string, known func(string) bool, field string, warnings []model.Warning) (string, []model.Warning) {
	if v == "" {
		return v, warnings
	}
	lower := strings.ToLower(strings.TrimSpace(v))
	if known(lower) {
		return lower, warnings
	}
	return v, append(warnings, model.Warning{
		Field:   field,
		Value:   v,
		Message: "value not in schema vocabulary",
	})
}

// dedupeSkills suppresses duplicates case-insensitively, keeping the first
// occurrence's case and document order. Empty entries are dropped.
func dedupeSkills(skills []string) []string {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
