package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-tickets/internal/domain"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			account_id,
			reference,
			amount,
			currency,
			status
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		payment.AccountID,
		payment.Reference,
		payment.Amount,
		payment.Currency,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)

	return mapConstraintError(err)
}
