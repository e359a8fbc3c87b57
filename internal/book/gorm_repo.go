package book

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// bookModel maps the livros table for GORM. The schema itself is owned by
// the goose migrations.
type bookModel struct {
	ID              int64     `gorm:"primaryKey"`
	Title           string    `gorm:"size:100;not null;uniqueIndex"`
	Author          string    `gorm:"size:100;not null"`
	PublicationYear int       `gorm:"not null"`
	Genre           string    `gorm:"size:50;not null"`
	Price           float64   `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (bookModel) TableName() string { return "livros" }

func toModel(b Book) bookModel {
	return bookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		PublicationYear: b.PublicationYear,
		Genre:           string(b.Genre),
		Price:           b.Price,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func (m bookModel) toBook() Book {
	return Book{
		ID:              m.ID,
		Title:           m.Title,
		Author:          m.Author,
		PublicationYear: m.PublicationYear,
		Genre:           Genre(m.Genre),
		Price:           m.Price,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// GormRepo implements Repository using GORM + Postgres.
type GormRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

// OpenGorm opens a GORM handle on dsn with error translation enabled so
// unique violations surface as gorm.ErrDuplicatedKey.
func OpenGorm(dsn string) (*gorm.DB, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

func NewGormRepo(db *gorm.DB, timeout time.Duration) *GormRepo {
	return &GormRepo{db: db, timeout: timeout}
}

func (r *GormRepo) withTimeout(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	return r.db.WithContext(timeoutCtx), cancel
}

func (r *GormRepo) List(ctx context.Context) ([]Book, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	var models []bookModel
	if err := db.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	out := make([]Book, 0, len(models))
	for _, m := range models {
		out = append(out, m.toBook())
	}
	return out, nil
}

func (r *GormRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()
	return firstBook(db.Where("id = ?", id))
}

func (r *GormRepo) FindByTitle(ctx context.Context, title string) (Book, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()
	return firstBook(db.Where("title = ?", title))
}

func (r *GormRepo) FindByTitleExcludingID(ctx context.Context, title string, id int64) (Book, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()
	return firstBook(db.Where("title = ? AND id <> ?", title, id))
}

func (r *GormRepo) SearchByTitle(ctx context.Context, term string) (Book, error) {
	db, cancel := r.withTimeout(ctx)
	defer cancel()
	return firstBook(db.Where(`title ILIKE ? ESCAPE '\'`, ContainsPattern(term)))
}

func (r *GormRepo) Create(ctx context.Context, b *Book) error {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	m := toModel(*b)
	if err := db.Create(&m).Error; err != nil {
		return translateGormError(err)
	}
	*b = m.toBook()
	return nil
}

func (r *GormRepo) Update(ctx context.Context, b *Book) error {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	res := db.Model(&bookModel{}).Where("id = ?", b.ID).Updates(map[string]any{
		"title":            b.Title,
		"author":           b.Author,
		"publication_year": b.PublicationYear,
		"genre":            string(b.Genre),
		"price":            b.Price,
		"updated_at":       time.Now(),
	})
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	updated, err := firstBook(db.Where("id = ?", b.ID))
	if err != nil {
		return err
	}
	*b = updated
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, id int64) error {
	db, cancel := r.withTimeout(ctx)
	defer cancel()

	res := db.Delete(&bookModel{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete book %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// firstBook orders by primary key, so searches return the lowest-id match.
func firstBook(q *gorm.DB) (Book, error) {
	var m bookModel
	if err := q.First(&m).Error; err != nil {
		return Book{}, translateGormError(err)
	}
	return m.toBook(), nil
}

func translateGormError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateTitle
	default:
		return err
	}
}
