package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password    string     `gorm:"not null;column:password" json:"-"`
	FirstName   string     `gorm:"not null;column:first_name" json:"first_name"`
	LastName    string     `gorm:"not null;column:last_name" json:"last_name"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Nationality string     `gorm:"column:nationality" json:"nationality"`
	Phone       string     `gorm:"column:phone" json:"phone"`

	Interests      []Interest      `gorm:"foreignKey:UserID" json:"interests,omitempty"`
	TestScores     []TestScore     `gorm:"foreignKey:UserID" json:"test_scores,omitempty"`
	Qualifications []Qualification `gorm:"foreignKey:UserID" json:"qualifications,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }

type Interest struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	FieldOfStudy  string        `gorm:"not null;column:field_of_study" json:"field_of_study"`
	InterestLevel InterestLevel `gorm:"not null;default:medium;column:interest_level" json:"interest_level"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Interest) TableName() string { return "user_interest" }

type TestScore struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	TestType   string     `gorm:"not null;column:test_type" json:"test_type"`
	Score      float64    `gorm:"not null;column:score" json:"score"`
	MaxScore   float64    `gorm:"column:max_score" json:"max_score"`
	TestDate   *time.Time `gorm:"column:test_date" json:"test_date,omitempty"`
	ExpiryDate *time.Time `gorm:"column:expiry_date" json:"expiry_date,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (TestScore) TableName() string { return "user_test_score" }

// ValidAt reports whether the score can satisfy a requirement evaluated at
// the given instant. An expiry exactly equal to now still counts.
func (t *TestScore) ValidAt(now time.Time) bool {
	if t.TestDate != nil && t.TestDate.After(now) {
		return false
	}
	if t.ExpiryDate != nil && t.ExpiryDate.Before(now) {
		return false
	}
	return true
}

type Qualification struct {
	ID                uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	QualificationType DegreeLevel `gorm:"not null;column:qualification_type" json:"qualification_type"`
	DegreeName        string      `gorm:"column:degree_name" json:"degree_name"`
	FieldOfStudy      string      `gorm:"column:field_of_study" json:"field_of_study"`
	InstitutionName   string      `gorm:"column:institution_name" json:"institution_name"`
	Country           string      `gorm:"column:country" json:"country"`
	GradePoint        *float64    `gorm:"column:grade_point" json:"grade_point,omitempty"`
	MaxGradePoint     *float64    `gorm:"column:max_grade_point" json:"max_grade_point,omitempty"`
	CompletionYear    int         `gorm:"column:completion_year" json:"completion_year"`
	IsCompleted       bool        `gorm:"not null;default:true;column:is_completed" json:"is_completed"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Qualification) TableName() string { return "user_qualification" }

// GPAPercent normalizes the grade onto a 0-100 scale. A missing max grade
// point is assumed to be a 4.0 scale.
func (q *Qualification) GPAPercent() (float64, bool) {
	if q.GradePoint == nil {
		return 0, false
	}
	maxGP := 4.0
	if q.MaxGradePoint != nil && *q.MaxGradePoint > 0 {
		maxGP = *q.MaxGradePoint
	}
	return *q.GradePoint / maxGP * 100, true
}
