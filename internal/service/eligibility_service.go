package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/eligibility"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/repository"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

// EligibilityService runs verifications and serves their stored results.
type EligibilityService struct {
	students    StudentStore
	transcripts TranscriptStore
	reports     ReportStore
	cache       ReportCache
	catalog     RequirementCatalog
	log         zerolog.Logger
}

// NewEligibilityService creates a new EligibilityService.
func NewEligibilityService(
	students StudentStore,
	transcripts TranscriptStore,
	reports ReportStore,
	cache ReportCache,
	cat RequirementCatalog,
	log zerolog.Logger,
) *EligibilityService {
	return &EligibilityService{
		students:    students,
		transcripts: transcripts,
		reports:     reports,
		cache:       cache,
		catalog:     cat,
		log:         log.With().Str("component", "eligibility_service").Logger(),
	}
}

// Verify evaluates the student's transcript against their target and stores
// the result as a new report version.
func (s *EligibilityService) Verify(ctx context.Context, email string) (*model.EligibilityRecord, error) {
	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}
	return s.verify(ctx, student)
}

// VerifyByID is Verify for callers that only hold the student id.
func (s *EligibilityService) VerifyByID(ctx context.Context, studentID int) (*model.EligibilityRecord, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return s.verify(ctx, student)
}

func (s *EligibilityService) verify(ctx context.Context, student *model.Student) (*model.EligibilityRecord, error) {
	transcript, err := s.transcripts.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	var missing []string
	if len(transcript) == 0 {
		missing = append(missing, "transcript")
	}
	if student.TargetUniversity == "" {
		missing = append(missing, "target_university")
	}
	if student.EffectiveMajor() == "" {
		missing = append(missing, "target_major")
	}
	if len(missing) > 0 {
		return nil, &PreconditionError{Missing: missing}
	}

	profile, err := s.catalog.Profile(student.TargetUniversity, student.EffectiveMajor())
	if err != nil {
		return nil, unsupportedMajor(err)
	}
	equivalencies := s.catalog.Equivalencies(student.CommunityCollege)

	start := time.Now()
	report := eligibility.Evaluate(transcript, profile, equivalencies)

	digest, err := eligibility.Digest(report)
	if err != nil {
		return nil, fmt.Errorf("digest report: %w", err)
	}

	rec := &model.EligibilityRecord{
		ID:         uuid.New(),
		StudentID:  student.ID,
		University: profile.University,
		Major:      profile.Major,
		Digest:     digest,
		Report:     report,
	}
	if err := s.reports.Insert(ctx, rec); err != nil {
		return nil, translateStoreErr(err)
	}

	s.log.Info().
		Int("student_id", student.ID).
		Int("version", rec.Version).
		Str("status", string(report.Status)).
		Str("catalog_version", s.catalog.Version()).
		Dur("elapsed", time.Since(start)).
		Msg("Eligibility verified")

	if s.cache != nil {
		if err := s.cache.Set(ctx, rec); err != nil {
			s.log.Warn().Err(err).Int("student_id", student.ID).Msg("failed to cache report")
		}
		if err := s.cache.Publish(ctx, rec); err != nil {
			s.log.Warn().Err(err).Int("student_id", student.ID).Msg("failed to publish report")
		}
	}
	return rec, nil
}

// Results returns the latest stored report, cache first.
func (s *EligibilityService) Results(ctx context.Context, email string) (*model.EligibilityRecord, error) {
	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}
	return s.latest(ctx, student.ID)
}

func (s *EligibilityService) latest(ctx context.Context, studentID int) (*model.EligibilityRecord, error) {
	if s.cache != nil {
		rec, err := s.cache.Get(ctx, studentID)
		if err != nil {
			s.log.Warn().Err(err).Int("student_id", studentID).Msg("report cache read failed")
		}
		if rec != nil {
			return rec, nil
		}
	}

	rec, err := s.reports.Latest(ctx, studentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoResults
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rec); err != nil {
			s.log.Warn().Err(err).Int("student_id", studentID).Msg("failed to cache report")
		}
	}
	return rec, nil
}

// History lists report versions newest first. limit is clamped to
// [1, MaxHistoryLimit]; zero selects DefaultHistoryLimit.
func (s *EligibilityService) History(ctx context.Context, email string, limit int) ([]model.EligibilityRecordSummary, error) {
	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}
	return s.reports.History(ctx, student.ID, limit)
}
