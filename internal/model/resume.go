// Package model defines the structured resume record produced by extraction.
package model

// Address types recognized by the schema.
const (
	AddressPresent   = "present"
	AddressPermanent = "permanent"
)

// Gender values recognized by the schema.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// EducationLevels enumerates the recognized academic levels, in prompt order.
var EducationLevels = []string{
	"jsc", "ssc", "hsc", "olevel", "alevel",
	"diploma", "bachelors", "masters", "phd", "other",
}

// AddressTypes enumerates the recognized address types.
var AddressTypes = []string{AddressPresent, AddressPermanent}

// Genders enumerates the recognized gender values.
var Genders = []string{GenderMale, GenderFemale, GenderOther}

// ResumeRecord is the canonical structured resume. It is constructed once per
// successful extraction and never mutated afterwards; absent fields are empty
// strings or empty lists, never placeholder text.
type ResumeRecord struct {
	PersonalInfo      PersonalInfo `json:"personal_info" yaml:"personal_info"`
	Addresses         []Address    `json:"addresses" yaml:"addresses"`
	AcademicEducation []Education  `json:"academic_education" yaml:"academic_education"`
	Employment        []Employment `json:"employment" yaml:"employment"`
	Skills            []string     `json:"skills" yaml:"skills"`
}

// PersonalInfo holds identity fields. All fields are optional free-form
// strings; dates keep whatever granularity the source document used.
type PersonalInfo struct {
	Name        string `json:"name" yaml:"name"`
	DateOfBirth string `json:"date_of_birth" yaml:"date_of_birth"`
	Gender      string `json:"gender" yaml:"gender"`
	Email       string `json:"email" yaml:"email"`
	Phone       string `json:"phone" yaml:"phone"`
}

// Address is one postal address. Duplicate types are allowed; ordering
// follows the source document.
type Address struct {
	Type     string `json:"type" yaml:"type"`
	Address  string `json:"address" yaml:"address"`
	PostName string `json:"post_name" yaml:"post_name"`
	PostCode string `json:"post_code" yaml:"post_code"`
}

// Education is one academic qualification, in document order.
type Education struct {
	Levels      string `json:"levels" yaml:"levels"`
	Subject     string `json:"subject" yaml:"subject"`
	Board       string `json:"board" yaml:"board"`
	Institute   string `json:"institute" yaml:"institute"`
	PassingYear string `json:"passing_year" yaml:"passing_year"`
	Result      string `json:"result" yaml:"result"`
}

// Employment is one employment entry. When CurrentlyWorking is true,
// LeavingDate must be empty.
type Employment struct {
	CompanyName      string `json:"company_name" yaml:"company_name"`
	CompanyType      string `json:"company_type" yaml:"company_type"`
	Position         string `json:"position" yaml:"position"`
	JoiningDate      string `json:"joining_date" yaml:"joining_date"`
	LeavingDate      string `json:"leaving_date" yaml:"leaving_date"`
	CurrentlyWorking bool   `json:"currently_working" yaml:"currently_working"`
	Responsibility   string `json:"responsibility" yaml:"responsibility"`
}

// Warning records a non-fatal schema drift observation, such as an enum
// value outside the declared vocabulary. Warnings attach to the extraction
// result, not the record itself.
type Warning struct {
	Field   string `json:"field" yaml:"field"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// KnownLevel reports whether v is a recognized education level.
func KnownLevel(v string) bool { return contains(EducationLevels, v) }

// KnownAddressType reports whether v is a recognized address type.
func KnownAddressType(v string) bool { return contains(AddressTypes, v) }

// KnownGender reports whether v is a recognized gender value.
func KnownGender(v string) bool { return contains(Genders, v) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
