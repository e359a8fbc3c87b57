package book

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// memoryRepo is an in-process Repository used by the handler tests. It keeps
// the unique-title and lowest-id-first behavior of the SQL repositories.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	books  map[int64]Book
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, books: map[int64]Book{}}
}

func (m *memoryRepo) sorted() []Book {
	out := make([]Book, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryRepo) List(_ context.Context) ([]Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return b, nil
}

func (m *memoryRepo) FindByTitle(ctx context.Context, title string) (Book, error) {
	return m.FindByTitleExcludingID(ctx, title, 0)
}

func (m *memoryRepo) FindByTitleExcludingID(_ context.Context, title string, id int64) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.sorted() {
		if b.Title == title && b.ID != id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

func (m *memoryRepo) SearchByTitle(_ context.Context, term string) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	needle := strings.ToLower(term)
	for _, b := range m.sorted() {
		if strings.Contains(strings.ToLower(b.Title), needle) {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

func (m *memoryRepo) Create(_ context.Context, b *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.books {
		if existing.Title == b.Title {
			return ErrDuplicateTitle
		}
	}
	now := time.Now().UTC()
	b.ID = m.nextID
	b.CreatedAt, b.UpdatedAt = now, now
	m.nextID++
	m.books[b.ID] = *b
	return nil
}

func (m *memoryRepo) Update(_ context.Context, b *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.books[b.ID]
	if !ok {
		return ErrNotFound
	}
	for _, other := range m.books {
		if other.Title == b.Title && other.ID != b.ID {
			return ErrDuplicateTitle
		}
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	m.books[b.ID] = *b
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return ErrNotFound
	}
	delete(m.books, id)
	return nil
}
