package book

import (
	"context"
	"errors"
	"log/slog"
)

// Service sequences validation, uniqueness checks and storage for each operation.
type Service struct {
	repo      Repository
	validator *Validator
	logger    *slog.Logger
}

// NewService creates a new book service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		validator: NewValidator(),
		logger:    logger,
	}
}

// Create validates p, rejects an existing exact title and stores the new book.
func (s *Service) Create(ctx context.Context, p Payload) (Book, error) {
	if err := s.validator.Validate(p); err != nil {
		return Book{}, err
	}

	// Not atomic with the insert; the unique index on title catches the race.
	if _, err := s.repo.FindByTitle(ctx, p.Title); err == nil {
		return Book{}, ErrDuplicateTitle
	} else if !errors.Is(err, ErrNotFound) {
		return Book{}, s.storageError("find by title", err)
	}

	b := p.toBook()
	if err := s.repo.Create(ctx, &b); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			return Book{}, err
		}
		return Book{}, s.storageError("create", err)
	}
	return b, nil
}

// List returns every book in storage order.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.storageError("list", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// GetByID returns a book by its id.
func (s *Service) GetByID(ctx context.Context, id int64) (Book, error) {
	if id < 1 {
		return Book{}, ErrNotFound
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Book{}, err
		}
		return Book{}, s.storageError("get by id", err)
	}
	return b, nil
}

// SearchByTitle returns the first book whose title contains term, ignoring case.
// Only one match is returned even when several books qualify.
func (s *Service) SearchByTitle(ctx context.Context, term string) (Book, error) {
	if err := s.validator.CheckSearchTerm(term); err != nil {
		return Book{}, err
	}
	b, err := s.repo.SearchByTitle(ctx, term)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Book{}, err
		}
		return Book{}, s.storageError("search by title", err)
	}
	return b, nil
}

// Update replaces every field of the book with the given id.
func (s *Service) Update(ctx context.Context, id int64, p Payload) (Book, error) {
	if err := s.validator.Validate(p); err != nil {
		return Book{}, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	if _, err := s.repo.FindByTitleExcludingID(ctx, p.Title, id); err == nil {
		return Book{}, ErrDuplicateTitle
	} else if !errors.Is(err, ErrNotFound) {
		return Book{}, s.storageError("find by title", err)
	}

	b := p.toBook()
	b.ID = existing.ID
	b.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, &b); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateTitle) {
			return Book{}, err
		}
		return Book{}, s.storageError("update", err)
	}
	return b, nil
}

// Delete removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return s.storageError("delete", err)
	}
	return nil
}

func (s *Service) storageError(op string, err error) error {
	s.logger.Error("book storage failure", "op", op, "error", err)
	return &StorageError{Op: op, Err: err}
}

// StorageError wraps an unexpected failure from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
