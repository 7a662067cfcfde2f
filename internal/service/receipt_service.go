package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/repository"
)

const receiptIssuer = "transfer-verifier"

// ReceiptClaims binds a receipt to one stored report version.
type ReceiptClaims struct {
	jwt.RegisteredClaims
	Version int                     `json:"ver"`
	Digest  string                  `json:"dig"`
	Status  model.EligibilityStatus `json:"sts"`
}

// ReceiptService issues and checks signed receipts for stored reports, so a
// student can share a result that a counselor can confirm was not edited.
type ReceiptService struct {
	students StudentStore
	results  *EligibilityService
	reports  ReportStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(students StudentStore, results *EligibilityService, reports ReportStore, secret string, ttl time.Duration) *ReceiptService {
	return &ReceiptService{
		students: students,
		results:  results,
		reports:  reports,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue signs a receipt for the student's latest report.
func (s *ReceiptService) Issue(ctx context.Context, email string) (*model.ReportReceipt, error) {
	student, err := findStudent(ctx, s.students, email)
	if err != nil {
		return nil, err
	}
	rec, err := s.results.latest(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expires := now.Add(s.ttl)
	claims := ReceiptClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        rec.ID.String(),
			Issuer:    receiptIssuer,
			Subject:   student.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Version: rec.Version,
		Digest:  rec.Digest,
		Status:  rec.Report.Status,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign receipt: %w", err)
	}

	return &model.ReportReceipt{
		Token:     signed,
		ReportID:  rec.ID,
		Version:   rec.Version,
		ExpiresAt: expires.UTC(),
	}, nil
}

// Verify checks a receipt's signature and expiry and that the report it names
// is still stored with the same digest.
func (s *ReceiptService) Verify(ctx context.Context, tokenStr string) (*model.ReceiptVerification, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ReceiptClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(receiptIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReceiptInvalid, err)
	}

	claims, ok := token.Claims.(*ReceiptClaims)
	if !ok || !token.Valid {
		return nil, ErrReceiptInvalid
	}

	reportID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad report id", ErrReceiptInvalid)
	}

	rec, err := s.reports.GetByID(ctx, reportID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: report no longer exists", ErrReceiptInvalid)
	}
	if err != nil {
		return nil, err
	}
	if rec.Digest != claims.Digest || rec.Version != claims.Version {
		return nil, fmt.Errorf("%w: report does not match receipt", ErrReceiptInvalid)
	}

	student, err := s.students.GetByID(ctx, rec.StudentID)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if student.Email != claims.Subject {
		return nil, fmt.Errorf("%w: receipt subject mismatch", ErrReceiptInvalid)
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.UTC()
	}
	return &model.ReceiptVerification{
		Valid:    true,
		ReportID: rec.ID,
		Version:  rec.Version,
		Status:   rec.Report.Status,
		Email:    student.Email,
		IssuedAt: issuedAt,
	}, nil
}
