package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-tickets/internal/domain"
)

type PostgresSeatAllocationRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatAllocationRepository(db *pgxpool.Pool) *PostgresSeatAllocationRepository {
	return &PostgresSeatAllocationRepository{
		db: db,
	}
}

func (p *PostgresSeatAllocationRepository) Create(ctx context.Context, allocation *domain.SeatAllocation) error {
	query := `
		INSERT INTO seat_allocations (id, account_id, seat_count)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		allocation.ID,
		allocation.AccountID,
		allocation.SeatCount,
	).Scan(&allocation.CreatedAt)

	return mapConstraintError(err)
}

func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation {
		return domain.ErrInvalidRecord
	}

	return err
}
