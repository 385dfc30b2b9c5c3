package domain

import (
	"time"

	"github.com/google/uuid"
)

type Region struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Code string    `gorm:"column:code" json:"code"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Region) TableName() string { return "region" }

type University struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RegionID        uuid.UUID `gorm:"type:uuid;not null;index;column:region_id" json:"region_id"`
	Name            string    `gorm:"not null;column:name" json:"name"`
	City            string    `gorm:"column:city" json:"city"`
	Type            string    `gorm:"column:type" json:"type"`
	Website         string    `gorm:"column:website" json:"website"`
	EstablishedYear int       `gorm:"column:established_year" json:"established_year"`
	RankingWorld    int       `gorm:"column:ranking_world" json:"ranking_world"`
	RankingNational int       `gorm:"column:ranking_national" json:"ranking_national"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (University) TableName() string { return "university" }

type Program struct {
	ID                  uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UniversityID        uuid.UUID   `gorm:"type:uuid;not null;index;column:university_id" json:"university_id"`
	Name                string      `gorm:"not null;column:name" json:"name"`
	DegreeLevel         DegreeLevel `gorm:"not null;column:degree_level" json:"degree_level"`
	FieldOfStudy        string      `gorm:"not null;index;column:field_of_study" json:"field_of_study"`
	DurationYears       float64     `gorm:"column:duration_years" json:"duration_years"`
	Language            string      `gorm:"column:language" json:"language"`
	TuitionFee          *float64    `gorm:"column:tuition_fee" json:"tuition_fee,omitempty"`
	Currency            string      `gorm:"column:currency" json:"currency"`
	ApplicationDeadline *time.Time  `gorm:"column:application_deadline" json:"application_deadline,omitempty"`
	StartDate           *time.Time  `gorm:"column:start_date" json:"start_date,omitempty"`
	Description         string      `gorm:"column:description" json:"description"`

	// Soft delete flag: deleting a program deactivates it, the row stays.
	IsActive bool `gorm:"not null;default:true;index;column:is_active" json:"is_active"`

	Requirements []Requirement `gorm:"foreignKey:ProgramID" json:"requirements,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Program) TableName() string { return "program" }

type Requirement struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProgramID       uuid.UUID       `gorm:"type:uuid;not null;index;column:program_id" json:"program_id"`
	RequirementType RequirementType `gorm:"not null;column:requirement_type" json:"requirement_type"`
	Value           string          `gorm:"not null;column:requirement_value" json:"requirement_value"`
	TestType        string          `gorm:"column:test_type" json:"test_type"`
	Description     string          `gorm:"column:description" json:"description"`
	IsMandatory     bool            `gorm:"not null;default:true;column:is_mandatory" json:"is_mandatory"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Requirement) TableName() string { return "program_requirement" }

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

type Application struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ProgramID uuid.UUID         `gorm:"type:uuid;not null;index;column:program_id" json:"program_id"`
	Status    ApplicationStatus `gorm:"not null;default:pending;column:status" json:"status"`
	AppliedAt time.Time         `gorm:"not null;default:now();column:applied_at" json:"applied_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Application) TableName() string { return "application" }
