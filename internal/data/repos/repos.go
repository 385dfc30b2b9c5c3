// Package repos is the primary-store adapter: interface-fronted CRUD over the
// relational system of record. Every method takes an optional tx so callers
// can group writes into one transaction.
package repos

import (
	"gorm.io/gorm"

	"github.com/Minkhantthwin/Backend/internal/pkg/logger"
)

type Repos struct {
	Users           UserRepo
	Interests       InterestRepo
	TestScores      TestScoreRepo
	Qualifications  QualificationRepo
	Regions         RegionRepo
	Universities    UniversityRepo
	Programs        ProgramRepo
	Requirements    RequirementRepo
	Applications    ApplicationRepo
	Statuses        QualificationStatusRepo
}

func Wire(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Users:           NewUserRepo(db, log),
		Interests:       NewInterestRepo(db, log),
		TestScores:      NewTestScoreRepo(db, log),
		Qualifications:  NewQualificationRepo(db, log),
		Regions:         NewRegionRepo(db, log),
		Universities:    NewUniversityRepo(db, log),
		Programs:        NewProgramRepo(db, log),
		Requirements:    NewRequirementRepo(db, log),
		Applications:    NewApplicationRepo(db, log),
		Statuses:        NewQualificationStatusRepo(db, log),
	}
}
