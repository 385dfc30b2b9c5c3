package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Minkhantthwin/Backend/internal/domain"
)

// requirementResult is the outcome of checking one requirement. Credit is in
// [0,1]: 1 for a pass, a proportional fraction for a near-miss on a numeric
// threshold, 0 for a categorical miss.
type requirementResult struct {
	Requirement *domain.Requirement
	Passed      bool
	Credit      float64
	Reason      string
}

// evaluation aggregates per-requirement results into the verdict shape
// persisted as a QualificationStatus.
type evaluation struct {
	Results []requirementResult
}

// Qualified is a pure AND over mandatory requirements. Optional requirements
// affect the fit score only.
func (e evaluation) Qualified() bool {
	for _, r := range e.Results {
		if r.Requirement.IsMandatory && !r.Passed {
			return false
		}
	}
	return true
}

// FitScore is the mean requirement credit scaled to 0-100. A program with no
// requirements is a perfect fit.
func (e evaluation) FitScore() float64 {
	if len(e.Results) == 0 {
		return 100
	}
	var sum float64
	for _, r := range e.Results {
		sum += r.Credit
	}
	return sum / float64(len(e.Results)) * 100
}

func (e evaluation) MetCount() int {
	met := 0
	for _, r := range e.Results {
		if r.Passed {
			met++
		}
	}
	return met
}

// UnmetReasons lists failed requirements in evaluation order.
func (e evaluation) UnmetReasons() []string {
	reasons := make([]string, 0)
	for _, r := range e.Results {
		if !r.Passed {
			reasons = append(reasons, r.Reason)
		}
	}
	return reasons
}

// evaluateRequirements checks every program requirement against a user
// snapshot. The caller captures now once so expiry checks inside one
// evaluation cannot disagree with each other. An unknown requirement type or
// an unparseable threshold is an evaluation error, not a silent fail.
func evaluateRequirements(now time.Time, reqs []domain.Requirement, quals []domain.Qualification, scores []domain.TestScore) (evaluation, error) {
	results := make([]requirementResult, 0, len(reqs))
	for i := range reqs {
		req := &reqs[i]
		var (
			res requirementResult
			err error
		)
		switch req.RequirementType {
		case domain.RequirementMinGPA:
			res, err = checkMinGPA(req, quals)
		case domain.RequirementRequiredTest:
			res, err = checkRequiredTest(now, req, scores)
		case domain.RequirementDegreeLevel:
			res, err = checkDegreeLevel(req, quals)
		case domain.RequirementFieldMatch:
			res, err = checkFieldMatch(req, quals)
		case domain.RequirementLanguage:
			res, err = checkLanguage(now, req, scores)
		default:
			return evaluation{}, fmt.Errorf("unknown requirement type %q", req.RequirementType)
		}
		if err != nil {
			return evaluation{}, err
		}
		res.Requirement = req
		results = append(results, res)
	}
	return evaluation{Results: results}, nil
}

func parseThreshold(req *domain.Requirement) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(req.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("requirement %s: threshold %q is not numeric", req.RequirementType, req.Value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("requirement %s: threshold %q is not positive", req.RequirementType, req.Value)
	}
	return v, nil
}

// checkMinGPA compares the user's best grade, normalized to a percentage,
// against a percentage threshold.
func checkMinGPA(req *domain.Requirement, quals []domain.Qualification) (requirementResult, error) {
	threshold, err := parseThreshold(req)
	if err != nil {
		return requirementResult{}, err
	}

	best := 0.0
	found := false
	for i := range quals {
		pct, ok := quals[i].GPAPercent()
		if !ok {
			continue
		}
		found = true
		if pct > best {
			best = pct
		}
	}
	if !found {
		return requirementResult{Reason: fmt.Sprintf("no grade on record, minimum GPA %.1f%% required", threshold)}, nil
	}
	if best >= threshold {
		return requirementResult{Passed: true, Credit: 1}, nil
	}
	return requirementResult{
		Credit: partialCredit(best, threshold),
		Reason: fmt.Sprintf("GPA %.1f%% below required %.1f%%", best, threshold),
	}, nil
}

// checkRequiredTest requires a currently valid score of the named test type
// at or above the threshold. An expiry date equal to now still counts.
func checkRequiredTest(now time.Time, req *domain.Requirement, scores []domain.TestScore) (requirementResult, error) {
	threshold, err := parseThreshold(req)
	if err != nil {
		return requirementResult{}, err
	}

	best := 0.0
	found := false
	for i := range scores {
		sc := &scores[i]
		if !strings.EqualFold(strings.TrimSpace(sc.TestType), strings.TrimSpace(req.TestType)) {
			continue
		}
		if !sc.ValidAt(now) {
			continue
		}
		found = true
		if sc.Score > best {
			best = sc.Score
		}
	}
	if !found {
		return requirementResult{Reason: fmt.Sprintf("no valid %s score, %.1f required", req.TestType, threshold)}, nil
	}
	if best >= threshold {
		return requirementResult{Passed: true, Credit: 1}, nil
	}
	return requirementResult{
		Credit: partialCredit(best, threshold),
		Reason: fmt.Sprintf("%s score %.1f below required %.1f", req.TestType, best, threshold),
	}, nil
}

// checkDegreeLevel passes when any qualification ranks at or above the
// required level. Level is categorical, so a miss earns no partial credit.
func checkDegreeLevel(req *domain.Requirement, quals []domain.Qualification) (requirementResult, error) {
	required := domain.DegreeLevel(strings.ToLower(strings.TrimSpace(req.Value)))
	if !required.Valid() {
		return requirementResult{}, fmt.Errorf("requirement degree_level: unknown level %q", req.Value)
	}
	for i := range quals {
		if quals[i].QualificationType.Rank() >= required.Rank() {
			return requirementResult{Passed: true, Credit: 1}, nil
		}
	}
	return requirementResult{Reason: fmt.Sprintf("no qualification at %s level or above", required)}, nil
}

func checkFieldMatch(req *domain.Requirement, quals []domain.Qualification) (requirementResult, error) {
	target := strings.TrimSpace(req.Value)
	if target == "" {
		return requirementResult{}, fmt.Errorf("requirement field_match: empty target field")
	}
	for i := range quals {
		if domain.FieldsEqual(quals[i].FieldOfStudy, target) {
			return requirementResult{Passed: true, Credit: 1}, nil
		}
	}
	return requirementResult{Reason: fmt.Sprintf("no qualification in %s", target)}, nil
}

// checkLanguage accepts any recognized language test. A numeric value is a
// score threshold across those tests; a non-numeric value (a language name)
// only requires that some valid recognized test exists.
func checkLanguage(now time.Time, req *domain.Requirement, scores []domain.TestScore) (requirementResult, error) {
	threshold, numeric := 0.0, false
	if v, err := strconv.ParseFloat(strings.TrimSpace(req.Value), 64); err == nil {
		if v <= 0 {
			return requirementResult{}, fmt.Errorf("requirement language: threshold %q is not positive", req.Value)
		}
		threshold, numeric = v, true
	}

	best := 0.0
	found := false
	for i := range scores {
		sc := &scores[i]
		if !isLanguageTest(sc.TestType) || !sc.ValidAt(now) {
			continue
		}
		found = true
		if sc.Score > best {
			best = sc.Score
		}
	}
	if !found {
		return requirementResult{Reason: "no valid language test score on record"}, nil
	}
	if !numeric || best >= threshold {
		return requirementResult{Passed: true, Credit: 1}, nil
	}
	return requirementResult{
		Credit: partialCredit(best, threshold),
		Reason: fmt.Sprintf("language test score %.1f below required %.1f", best, threshold),
	}, nil
}

func isLanguageTest(testType string) bool {
	for _, t := range domain.LanguageTestTypes {
		if strings.EqualFold(strings.TrimSpace(testType), t) {
			return true
		}
	}
	return false
}

// partialCredit rewards near-misses on numeric thresholds proportionally.
func partialCredit(achieved, threshold float64) float64 {
	if threshold <= 0 || achieved <= 0 {
		return 0
	}
	if achieved >= threshold {
		return 1
	}
	return achieved / threshold
}
