package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stemsi/transfer-backend/internal/model"
)

// StudentStore persists student profiles.
type StudentStore interface {
	Create(ctx context.Context, s *model.Student) error
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	Update(ctx context.Context, s *model.Student) error
	SetTarget(ctx context.Context, id int, university, major string) error
}

// TranscriptStore persists each student's course list.
type TranscriptStore interface {
	Replace(ctx context.Context, studentID int, transcript model.Transcript) error
	ListByStudent(ctx context.Context, studentID int) (model.Transcript, error)
}

// ReportStore persists versioned eligibility reports.
type ReportStore interface {
	Insert(ctx context.Context, rec *model.EligibilityRecord) error
	Latest(ctx context.Context, studentID int) (*model.EligibilityRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.EligibilityRecord, error)
	History(ctx context.Context, studentID, limit int) ([]model.EligibilityRecordSummary, error)
}

// ReportCache holds the latest report per student and fans out updates.
// Get returns nil, nil on a miss.
type ReportCache interface {
	Get(ctx context.Context, studentID int) (*model.EligibilityRecord, error)
	Set(ctx context.Context, rec *model.EligibilityRecord) error
	Publish(ctx context.Context, rec *model.EligibilityRecord) error
}

// ReevaluationQueue schedules background re-verification.
type ReevaluationQueue interface {
	Enqueue(ctx context.Context, studentID int, reason string) error
}

// RequirementCatalog is the read-only requirement data.
type RequirementCatalog interface {
	Profile(university, major string) (model.RequirementProfile, error)
	Equivalencies(institution string) model.EquivalencyTable
	Campus(id string) (model.Campus, bool)
	Campuses() []model.Campus
	Colleges() []string
	Majors(university string) ([]string, error)
	Version() string
}
