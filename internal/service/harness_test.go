package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/transfer-backend/internal/catalog"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

type harness struct {
	students    *memory.Students
	transcripts *memory.Transcripts
	reports     *memory.Reports
	cache       *memory.Cache
	queue       *memory.Queue

	studentSvc     *StudentService
	transcriptSvc  *TranscriptService
	eligibilitySvc *EligibilityService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cat, err := catalog.LoadEmbedded(context.Background())
	require.NoError(t, err)

	h := &harness{
		students:    memory.NewStudents(),
		transcripts: memory.NewTranscripts(),
		reports:     memory.NewReports(),
		cache:       memory.NewCache(),
		queue:       memory.NewQueue(),
	}
	log := zerolog.Nop()
	h.studentSvc = NewStudentService(h.students, cat, h.queue, log)
	h.transcriptSvc = NewTranscriptService(h.students, h.transcripts, h.queue, log)
	h.eligibilitySvc = NewEligibilityService(h.students, h.transcripts, h.reports, h.cache, cat, log)
	return h
}

func (h *harness) register(t *testing.T, email string) *model.Student {
	t.Helper()
	s, err := h.studentSvc.Register(context.Background(), model.RegisterStudentRequest{
		Email:            email,
		Name:             "Ana Lopez",
		Major:            "Computer Science",
		CommunityCollege: "De Anza College",
	})
	require.NoError(t, err)
	return s
}

func csTranscript() []model.CompletedCourse {
	return []model.CompletedCourse{
		{CourseCode: "MATH 1A", Units: 5, Grade: "A"},
		{CourseCode: "CIS 22A", Units: 4.5, Grade: "A-"},
		{CourseCode: "EWRT 1A", Units: 5, Grade: "B+"},
	}
}
