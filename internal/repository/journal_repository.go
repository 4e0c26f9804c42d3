package repository

import (
	"context"
	"fmt"

	"github.com/Brownie44l1/sellerhub/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const defaultJournalLimit = 50

type JournalRepository struct {
	db *pgxpool.Pool
}

func NewJournalRepository(db *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{db: db}
}

// Record inserts one journal row and fills in its id and created_at.
func (r *JournalRepository) Record(ctx context.Context, entry *models.JournalEntry) error {
	query := `
		INSERT INTO client_journal (client_id, user_id, action, method, amount, reference, status, detail)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)
		RETURNING id, created_at
	`

	var amount *string
	if entry.Amount.Valid {
		s := entry.Amount.Decimal.StringFixed(2)
		amount = &s
	}
	detail := entry.Detail
	if detail == nil {
		detail = map[string]any{}
	}

	err := r.db.QueryRow(ctx, query,
		entry.ClientID,
		entry.UserID,
		entry.Action,
		entry.Method,
		amount,
		entry.Reference,
		entry.Status,
		detail,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}
	return nil
}

// ListByUser returns a user's entries, newest first. Entries recorded without a
// signed-in profile belong to no user and are never listed.
func (r *JournalRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultJournalLimit
	}

	query := `
		SELECT id, client_id, user_id, action, method, amount::text, reference, status, detail, created_at
		FROM client_journal
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var (
			e      models.JournalEntry
			amount *string
		)
		if err := rows.Scan(&e.ID, &e.ClientID, &e.UserID, &e.Action, &e.Method, &amount, &e.Reference, &e.Status, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if amount != nil {
			d, err := decimal.NewFromString(*amount)
			if err != nil {
				return nil, fmt.Errorf("failed to parse journal amount: %w", err)
			}
			e.Amount = decimal.NewNullDecimal(d)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}
	return entries, nil
}
