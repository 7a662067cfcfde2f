package service

import (
	"context"
	"testing"

	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_NormalizesAndRejectsDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	s := h.register(t, "  Ana@Example.EDU ")
	assert.Equal(t, "ana@example.edu", s.Email)

	_, err := h.studentSvc.Register(ctx, model.RegisterStudentRequest{
		Email: "ana@example.edu", Name: "Other", Major: "Biology", CommunityCollege: "Foothill College",
	})
	assert.ErrorIs(t, err, ErrDuplicateStudent)

	got, err := h.studentSvc.GetByEmail(ctx, "ANA@example.edu")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestGetByEmail_NotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.studentSvc.GetByEmail(context.Background(), "nobody@example.edu")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestSelectTarget(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ana@example.edu")

	t.Run("unknown campus", func(t *testing.T) {
		_, err := h.studentSvc.SelectTarget(ctx, "ana@example.edu", model.SelectTargetRequest{TargetUniversity: "mit"})
		assert.ErrorIs(t, err, ErrCampusUnavailable)
	})

	t.Run("campus without requirement data", func(t *testing.T) {
		_, err := h.studentSvc.SelectTarget(ctx, "ana@example.edu", model.SelectTargetRequest{TargetUniversity: "ucla"})
		assert.ErrorIs(t, err, ErrCampusUnavailable)
	})

	t.Run("unsupported major override", func(t *testing.T) {
		_, err := h.studentSvc.SelectTarget(ctx, "ana@example.edu", model.SelectTargetRequest{TargetUniversity: "ucsc", TargetMajor: "Astrophysics"})
		assert.ErrorIs(t, err, ErrMajorUnsupported)
	})

	t.Run("available campus", func(t *testing.T) {
		s, err := h.studentSvc.SelectTarget(ctx, "ana@example.edu", model.SelectTargetRequest{TargetUniversity: "UCSC"})
		require.NoError(t, err)
		assert.Equal(t, "ucsc", s.TargetUniversity)
		assert.Equal(t, "Computer Science", s.EffectiveMajor())
		assert.Contains(t, h.queue.Reasons(), "target_selected")
	})
}

func TestUpdate_EnqueuesWhenCollegeChanges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "ana@example.edu")

	_, err := h.studentSvc.Update(ctx, "ana@example.edu", model.UpdateStudentRequest{
		Name: "Ana L.", Major: "Computer Science", CommunityCollege: "Foothill College",
	})
	require.NoError(t, err)
	assert.Empty(t, h.queue.Reasons(), "no target yet")

	_, err = h.studentSvc.SelectTarget(ctx, "ana@example.edu", model.SelectTargetRequest{TargetUniversity: "ucsc"})
	require.NoError(t, err)

	s, err := h.studentSvc.Update(ctx, "ana@example.edu", model.UpdateStudentRequest{
		Name: "Ana L.", Major: "Computer Science", CommunityCollege: "De Anza College",
	})
	require.NoError(t, err)
	assert.Equal(t, "De Anza College", s.CommunityCollege)
	assert.Equal(t, []string{"target_selected", "profile_updated"}, h.queue.Reasons())
}
