package history

import (
	"context"
	"sort"
	"sync"
)

// memrepo is an in-memory Repository used when no database is configured.
type memrepo struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryRepository() Repository {
	return &memrepo{records: make(map[string]*Record)}
}

func (m *memrepo) SaveRecord(ctx context.Context, rec *Record) error {
	if rec == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *memrepo) RecentRecords(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		cp := *rec
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memrepo) RecordByID(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memrepo) DeleteRecord(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	return nil
}

func (m *memrepo) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.records = make(map[string]*Record)
	m.mu.Unlock()
	return nil
}
