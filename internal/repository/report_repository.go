package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/transfer-backend/internal/model"
)

// ReportRepository stores versioned eligibility reports. Every verification
// appends a row; nothing is overwritten.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Insert appends a report and assigns it the student's next version number.
// The student row is locked for the duration so concurrent verifications of
// the same student get distinct, gapless versions.
func (r *ReportRepository) Insert(ctx context.Context, rec *model.EligibilityRecord) error {
	body, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int
	err = tx.QueryRow(ctx, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, rec.StudentID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock student: %w", err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO eligibility_reports (id, student_id, version, university, major, status, digest, report)
		 SELECT $1, $2, COALESCE(MAX(version), 0) + 1, $3, $4, $5, $6, $7
		 FROM eligibility_reports WHERE student_id = $2
		 RETURNING version, created_at`,
		rec.ID, rec.StudentID, rec.University, rec.Major, string(rec.Report.Status), rec.Digest, body,
	).Scan(&rec.Version, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (*model.EligibilityRecord, error) {
	rec := &model.EligibilityRecord{}
	var body []byte
	err := row.Scan(&rec.ID, &rec.StudentID, &rec.Version, &rec.University, &rec.Major, &rec.Digest, &body, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &rec.Report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", rec.ID, err)
	}
	return rec, nil
}

// Latest returns the highest version stored for a student.
func (r *ReportRepository) Latest(ctx context.Context, studentID int) (*model.EligibilityRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx,
		`SELECT id, student_id, version, university, major, digest, report, created_at
		 FROM eligibility_reports WHERE student_id = $1
		 ORDER BY version DESC LIMIT 1`, studentID))
}

// GetByID retrieves one stored report.
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.EligibilityRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx,
		`SELECT id, student_id, version, university, major, digest, report, created_at
		 FROM eligibility_reports WHERE id = $1`, id))
}

// History lists a student's reports, newest first, without their bodies.
func (r *ReportRepository) History(ctx context.Context, studentID, limit int) ([]model.EligibilityRecordSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, version, status, university, major, digest, created_at
		 FROM eligibility_reports WHERE student_id = $1
		 ORDER BY version DESC LIMIT $2`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []model.EligibilityRecordSummary{}
	for rows.Next() {
		var s model.EligibilityRecordSummary
		var status string
		if err := rows.Scan(&s.ID, &s.Version, &status, &s.University, &s.Major, &s.Digest, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Status = model.EligibilityStatus(status)
		history = append(history, s)
	}
	return history, rows.Err()
}
