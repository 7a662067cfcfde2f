package service

import (
	"context"
	"testing"
	"time"

	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceipt_IssueAndVerify(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	readyStudent(t, h, "ana@example.edu")
	rec, err := h.eligibilitySvc.Verify(ctx, "ana@example.edu")
	require.NoError(t, err)

	svc := NewReceiptService(h.students, h.eligibilitySvc, h.reports, "test-secret", time.Hour)

	receipt, err := svc.Issue(ctx, "ana@example.edu")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, receipt.ReportID)
	assert.Equal(t, 1, receipt.Version)

	got, err := svc.Verify(ctx, receipt.Token)
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.Equal(t, rec.ID, got.ReportID)
	assert.Equal(t, "ana@example.edu", got.Email)
	assert.Equal(t, rec.Report.Status, got.Status)
}

func TestReceipt_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	readyStudent(t, h, "ana@example.edu")
	_, err := h.eligibilitySvc.Verify(ctx, "ana@example.edu")
	require.NoError(t, err)

	svc := NewReceiptService(h.students, h.eligibilitySvc, h.reports, "test-secret", time.Hour)
	receipt, err := svc.Issue(ctx, "ana@example.edu")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrReceiptInvalid)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewReceiptService(h.students, h.eligibilitySvc, h.reports, "another-secret", time.Hour)
		_, err := other.Verify(ctx, receipt.Token)
		assert.ErrorIs(t, err, ErrReceiptInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewReceiptService(h.students, h.eligibilitySvc, h.reports, "test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(ctx, receipt.Token)
		assert.ErrorIs(t, err, ErrReceiptInvalid)
	})

	t.Run("report altered", func(t *testing.T) {
		var original string
		require.True(t, h.reports.Update(receipt.ReportID, func(r *model.EligibilityRecord) {
			original, r.Digest = r.Digest, "tampered"
		}))
		defer h.reports.Update(receipt.ReportID, func(r *model.EligibilityRecord) { r.Digest = original })
		_, err := svc.Verify(ctx, receipt.Token)
		assert.ErrorIs(t, err, ErrReceiptInvalid)
	})
}

func TestReceipt_NoResults(t *testing.T) {
	h := newHarness(t)
	readyStudent(t, h, "ana@example.edu")
	svc := NewReceiptService(h.students, h.eligibilitySvc, h.reports, "test-secret", time.Hour)

	_, err := svc.Issue(context.Background(), "ana@example.edu")
	assert.ErrorIs(t, err, ErrNoResults)
}
