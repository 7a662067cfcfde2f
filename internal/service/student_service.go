package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/catalog"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/repository"
)

// StudentService handles student profile business logic.
type StudentService struct {
	students StudentStore
	catalog  RequirementCatalog
	queue    ReevaluationQueue
	log      zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(students StudentStore, cat RequirementCatalog, queue ReevaluationQueue, log zerolog.Logger) *StudentService {
	return &StudentService{
		students: students,
		catalog:  cat,
		queue:    queue,
		log:      log.With().Str("component", "student_service").Logger(),
	}
}

// NormalizeEmail is the lookup form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new student profile.
func (s *StudentService) Register(ctx context.Context, req model.RegisterStudentRequest) (*model.Student, error) {
	student := &model.Student{
		Email:            NormalizeEmail(req.Email),
		Name:             strings.TrimSpace(req.Name),
		Major:            strings.TrimSpace(req.Major),
		CommunityCollege: strings.TrimSpace(req.CommunityCollege),
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateStudent
		}
		return nil, err
	}
	return student, nil
}

// GetByEmail retrieves a student profile.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	return findStudent(ctx, s.students, email)
}

// Update edits the profile fields of a student.
func (s *StudentService) Update(ctx context.Context, email string, req model.UpdateStudentRequest) (*model.Student, error) {
	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}

	collegeChanged := !strings.EqualFold(student.CommunityCollege, strings.TrimSpace(req.CommunityCollege))
	majorChanged := !strings.EqualFold(student.Major, strings.TrimSpace(req.Major))

	student.Name = strings.TrimSpace(req.Name)
	student.Major = strings.TrimSpace(req.Major)
	student.CommunityCollege = strings.TrimSpace(req.CommunityCollege)

	if err := s.students.Update(ctx, student); err != nil {
		return nil, translateStoreErr(err)
	}

	if student.TargetUniversity != "" && (collegeChanged || majorChanged) {
		s.enqueue(ctx, student.ID, "profile_updated")
	}
	return student, nil
}

// SelectTarget sets the campus (and optionally a major override) a student is
// verified against. Only campuses whose requirements are loaded are accepted.
func (s *StudentService) SelectTarget(ctx context.Context, email string, req model.SelectTargetRequest) (*model.Student, error) {
	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}

	campus, ok := s.catalog.Campus(strings.TrimSpace(req.TargetUniversity))
	if !ok || !campus.Available {
		return nil, fmt.Errorf("%w: %s", ErrCampusUnavailable, req.TargetUniversity)
	}

	major := strings.TrimSpace(req.TargetMajor)
	if major != "" {
		if _, err := s.catalog.Profile(campus.ID, major); err != nil {
			return nil, unsupportedMajor(err)
		}
	}

	if err := s.students.SetTarget(ctx, student.ID, campus.ID, major); err != nil {
		return nil, translateStoreErr(err)
	}
	student.TargetUniversity = campus.ID
	student.TargetMajor = major

	s.enqueue(ctx, student.ID, "target_selected")
	return student, nil
}

func (s *StudentService) enqueue(ctx context.Context, studentID int, reason string) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, studentID, reason); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Str("reason", reason).Msg("failed to enqueue re-evaluation")
	}
}

func findStudent(ctx context.Context, store StudentStore, email string) (*model.Student, error) {
	student, err := store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return student, nil
}

func translateStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrStudentNotFound
	}
	return err
}

func unsupportedMajor(err error) error {
	if errors.Is(err, catalog.ErrProfileNotFound) || errors.Is(err, catalog.ErrUniversityNotFound) {
		return fmt.Errorf("%w: %v", ErrMajorUnsupported, err)
	}
	return err
}
