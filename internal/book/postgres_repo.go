package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const bookColumns = `id, title, author, publication_year, genre, price, created_at, updated_at`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM livros`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM livros WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresRepo) FindByTitle(ctx context.Context, title string) (Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM livros WHERE title = $1 LIMIT 1`
	return r.queryOne(ctx, query, title)
}

func (r *PostgresRepo) FindByTitleExcludingID(ctx context.Context, title string, id int64) (Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM livros WHERE title = $1 AND id <> $2 LIMIT 1`
	return r.queryOne(ctx, query, title, id)
}

func (r *PostgresRepo) SearchByTitle(ctx context.Context, term string) (Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM livros WHERE title ILIKE $1 ESCAPE '\' ORDER BY id LIMIT 1`
	return r.queryOne(ctx, query, ContainsPattern(term))
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO livros (title, author, publication_year, genre, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.Title, b.Author, b.PublicationYear, string(b.Genre), b.Price,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return translatePgError(err)
	}
	return nil
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE livros
		SET title = $1, author = $2, publication_year = $3, genre = $4, price = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.Title, b.Author, b.PublicationYear, string(b.Genre), b.Price, b.ID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return translatePgError(err)
	}
	return nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM livros WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresRepo) queryOne(ctx context.Context, query string, args ...any) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func scanBook(row pgx.Row) (Book, error) {
	var (
		b     Book
		genre string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.PublicationYear, &genre, &b.Price, &b.CreatedAt, &b.UpdatedAt)
	b.Genre = Genre(genre)
	return b, err
}

func translatePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateTitle
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching term as a literal substring.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
