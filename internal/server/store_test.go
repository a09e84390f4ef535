package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/claude/coachplan/internal/doccache"
	"github.com/claude/coachplan/internal/models"
	"github.com/claude/coachplan/internal/plan"
	"github.com/claude/coachplan/internal/storage"
	"github.com/google/uuid"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu      sync.Mutex
	clients map[string]models.Client
	tools   map[string]models.Tool
	plans   map[uuid.UUID]plan.WorkoutPlan
	nextID  int
}

func newMemStore() *memStore {
	return &memStore{
		clients: map[string]models.Client{},
		tools:   map[string]models.Tool{},
		plans:   map[uuid.UUID]plan.WorkoutPlan{},
	}
}

func (m *memStore) id() string {
	m.nextID++
	return fmt.Sprintf("id-%d", m.nextID)
}

func missing(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
}

func (m *memStore) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	m.clients[c.ID] = c
	return c, nil
}

func (m *memStore) GetClient(ctx context.Context, id string) (models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok {
		return models.Client{}, missing("client", id)
	}
	return c, nil
}

func (m *memStore) ListClients(ctx context.Context) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Client{}
	for _, c := range m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateClient(ctx context.Context, c models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[c.ID]; !ok {
		return missing("client", c.ID)
	}
	m.clients[c.ID] = c
	return nil
}

func (m *memStore) DeleteClient(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return missing("client", id)
	}
	delete(m.clients, id)
	return nil
}

func (m *memStore) CreateExercise(ctx context.Context, e models.Exercise) (models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.id()
	return e, nil
}

func (m *memStore) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return []models.Exercise{}, nil
}

func (m *memStore) UpdateExercise(ctx context.Context, e models.Exercise) error {
	return missing("exercise", e.ID)
}

func (m *memStore) DeleteExercise(ctx context.Context, id string) error {
	return missing("exercise", id)
}

func (m *memStore) CreateTool(ctx context.Context, t models.Tool) (models.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	m.tools[t.ID] = t
	return t, nil
}

func (m *memStore) ListTools(ctx context.Context) ([]models.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tool{}
	for _, t := range m.tools {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) DeleteTool(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tools[id]; !ok {
		return missing("tool", id)
	}
	delete(m.tools, id)
	return nil
}

func (m *memStore) ToolNames(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := map[string]string{}
	for id, t := range m.tools {
		names[id] = t.Name
	}
	return names, nil
}

func (m *memStore) SavePlan(ctx context.Context, p *plan.WorkoutPlan, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now = now.UTC().Truncate(time.Microsecond)
	if existing, ok := m.plans[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.plans[p.ID] = *p
	return nil
}

func (m *memStore) GetPlan(ctx context.Context, id uuid.UUID) (plan.WorkoutPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return plan.WorkoutPlan{}, missing("plan", id.String())
	}
	return p, nil
}

func (m *memStore) ListPlans(ctx context.Context, clientID string) ([]models.PlanSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PlanSummary{}
	for _, p := range m.plans {
		if clientID != "" && p.Client.ID != clientID {
			continue
		}
		out = append(out, models.PlanSummary{
			ID: p.ID.String(), Title: p.Title, ClientID: p.Client.ID, ClientName: p.Client.Name,
			Goal: string(p.Goal), DurationWeeks: p.DurationWeeks, UpdatedAt: p.UpdatedAt,
		})
	}
	return out, nil
}

func (m *memStore) DeletePlan(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return missing("plan", id.String())
	}
	delete(m.plans, id)
	return nil
}

func (m *memStore) GetStats(ctx context.Context) (*storage.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &storage.Stats{
		TotalClients: int64(len(m.clients)),
		TotalPlans:   int64(len(m.plans)),
		TotalTools:   int64(len(m.tools)),
		PlansByGoal:  []storage.GoalStat{},
	}, nil
}

// memCache is an in-memory DocCache that counts hits.
type memCache struct {
	mu      sync.Mutex
	entries map[string]doccache.Entry
	plans   map[string]string
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]doccache.Entry{}, plans: map[string]string{}}
}

func (c *memCache) Get(k doccache.Key) (doccache.Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k.Hash()]
	if ok {
		c.hits++
	}
	return e, ok, nil
}

func (c *memCache) Put(k doccache.Key, e doccache.Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[k.Hash()] = e
	c.plans[k.Hash()] = k.PlanID
	return nil
}

func (c *memCache) Invalidate(planID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for h, id := range c.plans {
		if id == planID {
			delete(c.entries, h)
			delete(c.plans, h)
			n++
		}
	}
	return n, nil
}
