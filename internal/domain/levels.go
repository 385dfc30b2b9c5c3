package domain

import "strings"

// DegreeLevel is the closed set of degree levels used by both programs and
// user qualifications.
type DegreeLevel string

const (
	DegreeHighSchool  DegreeLevel = "high_school"
	DegreeDiploma     DegreeLevel = "diploma"
	DegreeCertificate DegreeLevel = "certificate"
	DegreeBachelor    DegreeLevel = "bachelor"
	DegreeMaster      DegreeLevel = "master"
	DegreePhD         DegreeLevel = "phd"
)

// Rank orders degree levels for "meets or exceeds" checks. Unknown levels
// rank zero so they never satisfy a requirement.
func (d DegreeLevel) Rank() int {
	switch DegreeLevel(strings.ToLower(strings.TrimSpace(string(d)))) {
	case DegreeHighSchool:
		return 1
	case DegreeDiploma, DegreeCertificate:
		return 2
	case DegreeBachelor:
		return 3
	case DegreeMaster:
		return 4
	case DegreePhD:
		return 5
	default:
		return 0
	}
}

func (d DegreeLevel) Valid() bool { return d.Rank() > 0 }

// InterestLevel weights a user's declared interest in a field of study.
type InterestLevel string

const (
	InterestLow    InterestLevel = "low"
	InterestMedium InterestLevel = "medium"
	InterestHigh   InterestLevel = "high"
)

// Multiplier maps an interest level onto the 1/2/3 scoring multiplier.
func (l InterestLevel) Multiplier() int {
	switch InterestLevel(strings.ToLower(strings.TrimSpace(string(l)))) {
	case InterestHigh:
		return 3
	case InterestMedium:
		return 2
	case InterestLow:
		return 1
	default:
		return 0
	}
}

func (l InterestLevel) Valid() bool { return l.Multiplier() > 0 }

// RequirementType is the closed set of program requirement kinds. Evaluation
// dispatches on this tag; anything outside the set is an evaluation error,
// not a silent pass.
type RequirementType string

const (
	RequirementMinGPA       RequirementType = "min_gpa"
	RequirementRequiredTest RequirementType = "required_test"
	RequirementDegreeLevel  RequirementType = "degree_level"
	RequirementFieldMatch   RequirementType = "field_match"
	RequirementLanguage     RequirementType = "language"
)

// LanguageTestTypes are the test types accepted for a language requirement.
var LanguageTestTypes = []string{"IELTS", "TOEFL", "TOEIC", "PTE"}

// FieldsEqual compares two field-of-study names the way every matcher in the
// system does: trimmed and case-insensitive.
func FieldsEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
