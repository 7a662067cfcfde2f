package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/validator"
)

// TranscriptService manages student transcripts.
type TranscriptService struct {
	students    StudentStore
	transcripts TranscriptStore
	queue       ReevaluationQueue
	log         zerolog.Logger
}

// NewTranscriptService creates a new TranscriptService.
func NewTranscriptService(students StudentStore, transcripts TranscriptStore, queue ReevaluationQueue, log zerolog.Logger) *TranscriptService {
	return &TranscriptService{
		students:    students,
		transcripts: transcripts,
		queue:       queue,
		log:         log.With().Str("component", "transcript_service").Logger(),
	}
}

// Get returns a student's transcript in upload order.
func (s *TranscriptService) Get(ctx context.Context, email string) (model.Transcript, error) {
	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}
	return s.transcripts.ListByStudent(ctx, student.ID)
}

// Replace swaps the whole transcript. When the student has picked a target
// campus a background re-evaluation is scheduled.
func (s *TranscriptService) Replace(ctx context.Context, email string, courses []model.CompletedCourse) (model.Transcript, error) {
	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}

	transcript := make(model.Transcript, 0, len(courses))
	for _, c := range courses {
		c.CourseCode = strings.Join(strings.Fields(c.CourseCode), " ")
		c.CourseName = strings.TrimSpace(c.CourseName)
		c.Grade = c.Grade.Normalize()
		c.Term = strings.TrimSpace(c.Term)
		transcript = append(transcript, c)
	}

	if err := s.transcripts.Replace(ctx, student.ID, transcript); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("student_id", student.ID).
		Int("courses", len(transcript)).
		Msg("Transcript replaced")

	if student.TargetUniversity != "" && s.queue != nil {
		if err := s.queue.Enqueue(ctx, student.ID, "transcript_updated"); err != nil {
			s.log.Warn().Err(err).Int("student_id", student.ID).Msg("failed to enqueue re-evaluation")
		}
	}
	return transcript, nil
}

// Import parses an .xlsx workbook, validates every row like a JSON upload,
// and replaces the transcript with it.
func (s *TranscriptService) Import(ctx context.Context, email string, r io.Reader) (model.Transcript, error) {
	if _, err := findStudent(ctx, s.students, email); err != nil {
		return nil, err
	}

	transcript, err := ParseTranscriptWorkbook(r)
	if err != nil {
		return nil, err
	}

	if fields := validator.Struct(&model.ReplaceTranscriptRequest{Courses: transcript}); fields != nil {
		return nil, &ImportError{Reason: "one or more rows are invalid", Fields: fields}
	}

	return s.Replace(ctx, email, transcript)
}
