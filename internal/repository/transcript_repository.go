package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/transfer-backend/internal/model"
)

// TranscriptRepository stores the course list of each student. A transcript
// is always replaced as a whole.
type TranscriptRepository struct {
	pool *pgxpool.Pool
}

// NewTranscriptRepository creates a new TranscriptRepository.
func NewTranscriptRepository(pool *pgxpool.Pool) *TranscriptRepository {
	return &TranscriptRepository{pool: pool}
}

// Replace swaps the student's transcript for the given courses in one
// transaction, preserving their order.
func (r *TranscriptRepository) Replace(ctx context.Context, studentID int, transcript model.Transcript) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM transcript_courses WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}

	rows := make([][]interface{}, 0, len(transcript))
	for i, c := range transcript {
		rows = append(rows, []interface{}{studentID, i, c.CourseCode, c.CourseName, c.Units, string(c.Grade), c.Term})
	}

	if len(rows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"transcript_courses"},
			[]string{"student_id", "position", "course_code", "course_name", "units", "grade", "term"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy transcript rows: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE students SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`, studentID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ListByStudent returns the transcript in upload order. A student without
// courses gets an empty, non-nil transcript.
func (r *TranscriptRepository) ListByStudent(ctx context.Context, studentID int) (model.Transcript, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT course_code, course_name, units, grade, term
		 FROM transcript_courses WHERE student_id = $1 ORDER BY position`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transcript := model.Transcript{}
	for rows.Next() {
		var c model.CompletedCourse
		var grade string
		if err := rows.Scan(&c.CourseCode, &c.CourseName, &c.Units, &grade, &c.Term); err != nil {
			return nil, err
		}
		c.Grade = model.Grade(grade)
		transcript = append(transcript, c)
	}
	return transcript, rows.Err()
}
