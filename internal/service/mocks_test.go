package service_test

import (
	"context"
	"sync"

	"github.com/kittipos/namecard-bff-go/internal/domain"
)

// mockCardStore is a hand-rolled port.CardStore.
type mockCardStore struct {
	mu    sync.Mutex
	cards map[string]*domain.BusinessCard

	getErr    error
	createErr error
	getCalls  int
}

func newMockCardStore(cards ...*domain.BusinessCard) *mockCardStore {
	m := &mockCardStore{cards: map[string]*domain.BusinessCard{}}
	for _, c := range cards {
		m.cards[c.ID] = c
	}
	return m
}

func (m *mockCardStore) GetCard(ctx context.Context, cardID string) (*domain.BusinessCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if c, ok := m.cards[cardID]; ok {
		return c, nil
	}
	return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
}

func (m *mockCardStore) GetCardBySlug(ctx context.Context, slug string) (*domain.BusinessCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cards {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "card", ID: slug}
}

func (m *mockCardStore) ListCards(ctx context.Context, userID string) ([]domain.BusinessCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.BusinessCard{}
	for _, c := range m.cards {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCardStore) CreateCard(ctx context.Context, card *domain.BusinessCard) (*domain.BusinessCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.cards[card.ID] = card
	return card, nil
}

func (m *mockCardStore) UpdateCard(ctx context.Context, cardID string, updates map[string]any) (*domain.BusinessCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[cardID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "card", ID: cardID}
	}
	if name, ok := updates["name"].(string); ok {
		c.Name = name
	}
	if phone, ok := updates["phone"].(string); ok {
		c.Phone = phone
	}
	return c, nil
}

func (m *mockCardStore) DeleteCard(ctx context.Context, cardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cards, cardID)
	return nil
}

// mockViewTracker records inserted views and signals on insert so tests can
// wait for the fire-and-forget goroutine.
type mockViewTracker struct {
	mu       sync.Mutex
	views    []domain.CardView
	inserted chan struct{}

	insertErr error
	countErr  error
	count     int
	recent    []domain.CardView
}

func newMockViewTracker() *mockViewTracker {
	return &mockViewTracker{inserted: make(chan struct{}, 16)}
}

func (m *mockViewTracker) InsertCardView(ctx context.Context, view *domain.CardView) error {
	m.mu.Lock()
	err := m.insertErr
	if err == nil {
		m.views = append(m.views, *view)
	}
	m.mu.Unlock()
	m.inserted <- struct{}{}
	return err
}

func (m *mockViewTracker) CountCardViews(ctx context.Context, cardID string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.count, nil
}

func (m *mockViewTracker) ListRecentViews(ctx context.Context, cardID string, limit int) ([]domain.CardView, error) {
	return m.recent, nil
}

func (m *mockViewTracker) recorded() []domain.CardView {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CardView, len(m.views))
	copy(out, m.views)
	return out
}

// mockCache is a plain map-backed port.Cache.
type mockCache struct {
	mu    sync.Mutex
	items map[string]*domain.BusinessCard
}

func newMockCache() *mockCache {
	return &mockCache{items: map[string]*domain.BusinessCard{}}
}

func (m *mockCache) Get(key string) (*domain.BusinessCard, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *mockCache) Set(key string, value *domain.BusinessCard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *mockCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}
