// Package memory provides in-process implementations of the service stores.
// They back the CLI evaluator and the unit tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/transfer-backend/internal/model"
	"github.com/stemsi/transfer-backend/internal/repository"
)

// Students is a map-backed student store.
type Students struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*model.Student
}

func NewStudents() *Students {
	return &Students{byID: map[int]*model.Student{}}
}

func (m *Students) Create(_ context.Context, s *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == s.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *Students) GetByID(_ context.Context, id int) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *Students) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Students) Update(_ context.Context, s *model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name, existing.Major, existing.CommunityCollege = s.Name, s.Major, s.CommunityCollege
	existing.UpdatedAt = time.Now().UTC()
	s.UpdatedAt = existing.UpdatedAt
	return nil
}

func (m *Students) SetTarget(_ context.Context, id int, university, major string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.TargetUniversity, s.TargetMajor = university, major
	return nil
}

// Transcripts keeps one course list per student.
type Transcripts struct {
	mu   sync.Mutex
	byID map[int]model.Transcript
}

func NewTranscripts() *Transcripts {
	return &Transcripts{byID: map[int]model.Transcript{}}
}

func (m *Transcripts) Replace(_ context.Context, studentID int, t model.Transcript) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[studentID] = append(model.Transcript{}, t...)
	return nil
}

func (m *Transcripts) ListByStudent(_ context.Context, studentID int) (model.Transcript, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(model.Transcript{}, m.byID[studentID]...), nil
}

// Reports stores versioned records, numbering versions per student like the
// Postgres repository does.
type Reports struct {
	mu      sync.Mutex
	records []*model.EligibilityRecord
}

func NewReports() *Reports {
	return &Reports{}
}

func (m *Reports) Insert(_ context.Context, rec *model.EligibilityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	version := 0
	for _, r := range m.records {
		if r.StudentID == rec.StudentID && r.Version > version {
			version = r.Version
		}
	}
	rec.Version = version + 1
	rec.CreatedAt = time.Now().UTC()
	cp := *rec
	m.records = append(m.records, &cp)
	return nil
}

func (m *Reports) Latest(_ context.Context, studentID int) (*model.EligibilityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *model.EligibilityRecord
	for _, r := range m.records {
		if r.StudentID == studentID && (latest == nil || r.Version > latest.Version) {
			latest = r
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *Reports) GetByID(_ context.Context, id uuid.UUID) (*model.EligibilityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Reports) History(_ context.Context, studentID, limit int) ([]model.EligibilityRecordSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.EligibilityRecordSummary{}
	for _, r := range m.records {
		if r.StudentID == studentID {
			out = append(out, model.EligibilityRecordSummary{
				ID:         r.ID,
				Version:    r.Version,
				Status:     r.Report.Status,
				University: r.University,
				Major:      r.Major,
				Digest:     r.Digest,
				CreatedAt:  r.CreatedAt,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Update rewrites a stored record in place. Tests use it to simulate
// out-of-band edits.
func (m *Reports) Update(id uuid.UUID, fn func(*model.EligibilityRecord)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == id {
			fn(r)
			return true
		}
	}
	return false
}

// Cache mirrors the Redis report cache, recording every publish.
type Cache struct {
	mu        sync.Mutex
	latest    map[int]*model.EligibilityRecord
	published []*model.EligibilityRecord
}

func NewCache() *Cache {
	return &Cache{latest: map[int]*model.EligibilityRecord{}}
}

func (m *Cache) Get(_ context.Context, studentID int) (*model.EligibilityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest[studentID], nil
}

func (m *Cache) Set(_ context.Context, rec *model.EligibilityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current := m.latest[rec.StudentID]; current != nil && current.Version > rec.Version {
		return nil
	}
	m.latest[rec.StudentID] = rec
	return nil
}

func (m *Cache) Publish(_ context.Context, rec *model.EligibilityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, rec)
	return nil
}

// Evict drops a student's cached report.
func (m *Cache) Evict(studentID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.latest, studentID)
}

// Published returns every record passed to Publish, oldest first.
func (m *Cache) Published() []*model.EligibilityRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.EligibilityRecord{}, m.published...)
}

// Job is a queued re-evaluation request.
type Job struct {
	StudentID int
	Reason    string
}

// Queue collects re-evaluation requests.
type Queue struct {
	mu   sync.Mutex
	jobs []Job
}

func NewQueue() *Queue {
	return &Queue{}
}

func (m *Queue) Enqueue(_ context.Context, studentID int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, Job{StudentID: studentID, Reason: reason})
	return nil
}

// Len reports how many jobs are waiting.
func (m *Queue) Len(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.jobs)), nil
}

// Reasons lists the reason of every queued job in order.
func (m *Queue) Reasons() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.Reason)
	}
	return out
}
