package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type sample struct {
	title  string
	author string
	year   float64
	genre  book.Genre
	price  float64
}

var samples = []sample{
	{"Dune", "Frank Herbert", 1965, book.GenreFantasy, 29.9},
	{"The Hobbit", "J. R. R. Tolkien", 1937, book.GenreFantasy, 39.5},
	{"Pride and Prejudice", "Jane Austen", 1813, book.GenreRomance, 19.9},
	{"Dracula", "Bram Stoker", 1897, book.GenreHorror, 24.0},
	{"The Shining", "Stephen King", 1977, book.GenreHorror, 44.9},
	{"Treasure Island", "Robert Louis Stevenson", 1883, book.GenreAdventure, 15.5},
	{"Gone Girl", "Gillian Flynn", 2012, book.GenreSuspense, 34.9},
	{"Hamlet", "William Shakespeare", 1603, book.GenreDrama, 12.0},
}

func payloads() []book.Payload {
	out := make([]book.Payload, 0, len(samples))
	for _, s := range samples {
		out = append(out, book.Payload{
			Title:           s.title,
			Author:          s.author,
			PublicationYear: book.NewNumber(s.year),
			Genre:           string(s.genre),
			Price:           book.NewNumber(s.price),
		})
	}
	return out
}

func main() {
	timeout := flag.Duration("timeout", time.Minute, "Overall timeout for the seeding run")
	flag.Parse()

	cfg, err := config.Load()
	log := logger.New(logger.Config{Format: cfg.LogFormat, Level: logger.ParseLevel(cfg.LogLevel)})
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	svc := book.NewService(book.NewPostgresRepo(pool, cfg.DBTimeout), log)
	created, skipped, err := seed(ctx, svc, payloads())
	if err != nil {
		log.Error("seeding failed", "created", created, "error", err)
		os.Exit(1)
	}
	log.Info("seeding finished", "created", created, "skipped", skipped)
}

type creator interface {
	Create(ctx context.Context, p book.Payload) (book.Book, error)
}

// seed creates each book through the service so the usual validation
// applies. Titles already present are skipped, which makes reruns safe.
func seed(ctx context.Context, svc creator, items []book.Payload) (created, skipped int, err error) {
	for _, p := range items {
		if _, err := svc.Create(ctx, p); err != nil {
			if errors.Is(err, book.ErrDuplicateTitle) {
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}
	return created, skipped, nil
}
