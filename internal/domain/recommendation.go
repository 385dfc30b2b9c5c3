package domain

import "github.com/google/uuid"

// RecommendationSource identifies which signal produced (part of) a
// recommendation. Scores from every source live on a common 0-100 scale.
type RecommendationSource string

const (
	SourceInterest      RecommendationSource = "interest"
	SourceQualification RecommendationSource = "qualification"
	SourceGraph         RecommendationSource = "graph"
)

// RecommendationResult is output-only; it is never persisted.
type RecommendationResult struct {
	ProgramID      uuid.UUID              `json:"program_id"`
	UniversityID   uuid.UUID              `json:"university_id"`
	ProgramName    string                 `json:"program_name"`
	UniversityName string                 `json:"university_name,omitempty"`
	FieldOfStudy   string                 `json:"field_of_study"`
	DegreeLevel    DegreeLevel            `json:"degree_level"`
	Language       string                 `json:"language,omitempty"`
	TuitionFee     *float64               `json:"tuition_fee,omitempty"`
	Currency       string                 `json:"currency,omitempty"`
	FinalScore     float64                `json:"final_score"`
	Sources        []RecommendationSource `json:"sources"`
	Reasons        []string               `json:"reasons"`
}

// HasSource reports whether the given signal contributed to this result.
func (r *RecommendationResult) HasSource(s RecommendationSource) bool {
	for _, have := range r.Sources {
		if have == s {
			return true
		}
	}
	return false
}
