package usecase

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"

	"resume-builder/internal/domain"
	"resume-builder/pkg/ai"
)

// fakeGenerator answers by prompt kind and records every request.
type fakeGenerator struct {
	mu       sync.Mutex
	requests []ai.Request

	schema  string
	profile string
	letter  string
	err     error
	block   bool
}

func (f *fakeGenerator) Generate(ctx context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	switch {
	case req.Format == ai.FormatText:
		return f.letter, nil
	case strings.Contains(req.System, "extracting structured information"):
		return f.schema, nil
	default:
		return f.profile, nil
	}
}

func (f *fakeGenerator) profileRequests() []ai.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ai.Request
	for _, r := range f.requests {
		if r.Format == ai.FormatJSON && !strings.Contains(r.System, "extracting structured information") {
			out = append(out, r)
		}
	}
	return out
}

type fakePDF struct {
	mu   sync.Mutex
	err  error
	html []string
}

func (f *fakePDF) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.html = append(f.html, html)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 test"), nil
}

type fileExtractor struct{ fail map[string]bool }

func (e fileExtractor) ExtractText(path string) (string, error) {
	if e.fail[path] {
		return "", errors.New("unreadable document")
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

type staticLoader struct{ groups []domain.SheetGroup }

func (l staticLoader) LoadFile(string) ([]domain.SheetGroup, error) { return l.groups, nil }

type memoryRuns struct {
	mu   sync.Mutex
	runs []domain.GenerationRun
}

func (m *memoryRuns) Save(_ context.Context, run *domain.GenerationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, *run)
	return nil
}

func (m *memoryRuns) ListRecent(_ context.Context, limit int) ([]domain.GenerationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	return append([]domain.GenerationRun(nil), m.runs[:limit]...), nil
}

type recordedEvent struct {
	key     string
	payload interface{}
}

type memoryEvents struct {
	mu     sync.Mutex
	err    error
	events []recordedEvent
}

func (m *memoryEvents) Publish(_ context.Context, key string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, recordedEvent{key: key, payload: payload})
	return nil
}

type memoryCache struct {
	mu     sync.Mutex
	snaps  map[string]*domain.SkillMatrixSnapshot
	latest string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{snaps: map[string]*domain.SkillMatrixSnapshot{}}
}

func (c *memoryCache) Load(_ context.Context, id string) (*domain.SkillMatrixSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snaps[id], nil
}

func (c *memoryCache) Save(_ context.Context, s *domain.SkillMatrixSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps[s.SessionID] = s
	c.latest = s.SessionID
	return nil
}

func (c *memoryCache) LatestSession(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest, nil
}

func sampleGroups() []domain.SheetGroup {
	return []domain.SheetGroup{{
		SheetName: "Backend",
		Data: []domain.SkillMatrixRecord{
			{ID: 1, Columns: []string{"First_Name", "Last_Name", "Experience", "Expertise"}, Values: map[string]interface{}{
				"First_Name": "Jane", "Last_Name": "Doe", "Experience": float64(7), "Expertise": "Go, Kafka",
			}},
			{ID: 2, Columns: []string{"First_Name", "Last_Name", "Experience", "Expertise"}, Values: map[string]interface{}{
				"First_Name": "John", "Last_Name": "Roe", "Experience": float64(3), "Expertise": "Python",
			}},
		},
	}}
}
