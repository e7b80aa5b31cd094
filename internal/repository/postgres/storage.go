package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akarpov/portfolio-api/internal/repository"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx so every repo
// works the same inside and outside a transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) *Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) Project() repository.ProjectRepo {
	return &ProjectRepo{DB: s.db}
}

func (s *Storage) Service() repository.ServiceRepo {
	return &ServiceRepo{DB: s.db}
}

func (s *Storage) Testimonial() repository.TestimonialRepo {
	return &TestimonialRepo{DB: s.db}
}

func (s *Storage) Contact() repository.ContactRepo {
	return &ContactRepo{DB: s.db}
}

func (s *Storage) Newsletter() repository.NewsletterRepo {
	return &NewsletterRepo{DB: s.db}
}
