package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrDuplicateTitle is returned when another book already holds the title.
	ErrDuplicateTitle = errors.New("a book with this title already exists")
)

// Genre is the closed set of categories a book may belong to.
type Genre string

const (
	GenreAdventure Genre = "Adventure"
	GenreRomance   Genre = "Romance"
	GenreHorror    Genre = "Horror"
	GenreFantasy   Genre = "Fantasy"
	GenreSuspense  Genre = "Suspense"
	GenreDrama     Genre = "Drama"
)

var genres = []Genre{GenreAdventure, GenreRomance, GenreHorror, GenreFantasy, GenreSuspense, GenreDrama}

// Genres returns the permitted genres in declaration order.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// Valid reports whether g is one of the permitted genres. Matching is case-sensitive.
func (g Genre) Valid() bool {
	for _, known := range genres {
		if g == known {
			return true
		}
	}
	return false
}

// Book represents a catalog entry.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	PublicationYear int       `json:"publicationYear"`
	Genre           Genre     `json:"genre"`
	Price           float64   `json:"price"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Payload is the client-submitted body for create and update.
// Numeric fields keep non-numeric input so validation can report it.
type Payload struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	PublicationYear *Number `json:"publicationYear"`
	Genre           string  `json:"genre"`
	Price           *Number `json:"price"`
}

// Number is a JSON value expected to hold a number.
// Numeric is false when the value decoded from JSON was not a number.
type Number struct {
	Value   float64
	Numeric bool
}

// NewNumber returns a numeric Number.
func NewNumber(v float64) *Number {
	return &Number{Value: v, Numeric: true}
}

// UnmarshalJSON accepts any JSON token. JSON null never reaches here: the
// decoder leaves the *Number field nil instead.
func (n *Number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = Number{}
		return nil
	}
	*n = Number{Value: f, Numeric: true}
	return nil
}

// MarshalJSON writes the number, or null when it is not numeric.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Numeric {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// DecodePayload decodes a single JSON object into a Payload.
func DecodePayload(body []byte) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&p); err != nil {
		return Payload{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Payload{}, errors.New("body must only contain a single JSON value")
	}
	return p, nil
}

// toBook converts an already validated payload.
func (p Payload) toBook() Book {
	return Book{
		Title:           p.Title,
		Author:          p.Author,
		PublicationYear: int(p.PublicationYear.Value),
		Genre:           Genre(p.Genre),
		Price:           p.Price.Value,
	}
}
