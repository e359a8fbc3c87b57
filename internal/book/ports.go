package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	List(ctx context.Context) ([]Book, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	// FindByTitle returns the book whose title equals title exactly.
	FindByTitle(ctx context.Context, title string) (Book, error)
	// FindByTitleExcludingID is FindByTitle ignoring the book with the given id.
	FindByTitleExcludingID(ctx context.Context, title string, id int64) (Book, error)
	// SearchByTitle returns the lowest-id book whose title contains term, ignoring case.
	SearchByTitle(ctx context.Context, term string) (Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
}
