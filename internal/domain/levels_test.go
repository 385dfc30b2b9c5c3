package domain

import (
	"testing"
	"time"
)

func TestDegreeLevelRankOrdering(t *testing.T) {
	ordered := []DegreeLevel{DegreeHighSchool, DegreeBachelor, DegreeMaster, DegreePhD}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Fatalf("%s should rank below %s", ordered[i-1], ordered[i])
		}
	}
	if DegreeDiploma.Rank() != DegreeCertificate.Rank() {
		t.Fatalf("diploma and certificate are peers")
	}
	if DegreeLevel("associate").Rank() != 0 {
		t.Fatalf("unknown levels must rank zero")
	}
	if !DegreeLevel(" Master ").Valid() {
		t.Fatalf("level comparison must trim and fold case")
	}
}

func TestInterestLevelMultiplier(t *testing.T) {
	if InterestHigh.Multiplier() != 3 || InterestMedium.Multiplier() != 2 || InterestLow.Multiplier() != 1 {
		t.Fatalf("unexpected multipliers: %d/%d/%d",
			InterestHigh.Multiplier(), InterestMedium.Multiplier(), InterestLow.Multiplier())
	}
	if InterestLevel("obsessed").Valid() {
		t.Fatalf("unknown levels are invalid")
	}
}

func TestFieldsEqual(t *testing.T) {
	if !FieldsEqual("  Computer Science ", "computer science") {
		t.Fatalf("comparison must trim and fold case")
	}
	if FieldsEqual("Computer Science", "Data Science") {
		t.Fatalf("different fields must not match")
	}
}

func TestTestScoreValidAt(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	taken := now.AddDate(-1, 0, 0)
	future := now.AddDate(0, 1, 0)

	score := &TestScore{TestDate: &taken, ExpiryDate: &now}
	if !score.ValidAt(now) {
		t.Fatalf("a score expiring exactly now is still valid")
	}
	expired := &TestScore{TestDate: &taken, ExpiryDate: &taken}
	if expired.ValidAt(now) {
		t.Fatalf("expired score must be invalid")
	}
	notYet := &TestScore{TestDate: &future}
	if notYet.ValidAt(now) {
		t.Fatalf("a future-dated score must be invalid")
	}
	undated := &TestScore{}
	if !undated.ValidAt(now) {
		t.Fatalf("a score without dates never expires")
	}
}

func TestGPAPercent(t *testing.T) {
	gp, max := 3.6, 4.0
	q := &Qualification{GradePoint: &gp, MaxGradePoint: &max}
	pct, ok := q.GPAPercent()
	if !ok || pct != 90 {
		t.Fatalf("expected 90%%, got %.2f ok=%v", pct, ok)
	}

	noScale := &Qualification{GradePoint: &gp}
	pct, ok = noScale.GPAPercent()
	if !ok || pct != 90 {
		t.Fatalf("missing scale should assume 4.0, got %.2f ok=%v", pct, ok)
	}

	noGrade := &Qualification{}
	if _, ok := noGrade.GPAPercent(); ok {
		t.Fatalf("no grade point means no percentage")
	}
}
