package oprms

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the Postgres-backed HistoryStore.
// ⭐ SSOT: 레이팅 이력 저장/조회는 여기서만
//
// The table is INSERT-only; the migration revokes UPDATE and DELETE so
// the append-only property holds even against direct SQL access.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new rating history repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append implements HistoryStore
func (r *Repository) Append(ctx context.Context, rating *Rating) error {
	if err := rating.Validate(); err != nil {
		return fmt.Errorf("invalid rating: %w", err)
	}

	query := `
		INSERT INTO oprms.rating_history (
			symbol, dna, timing, timing_coeff, evidence_count, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		rating.Symbol, string(rating.DNA), string(rating.Timing),
		rating.TimingCoeff, rating.EvidenceCount, rating.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append rating: %w", err)
	}
	return nil
}

// History implements HistoryStore. Rows come back in insertion order,
// oldest first.
func (r *Repository) History(ctx context.Context, symbol string) ([]*Rating, error) {
	query := `
		SELECT symbol, dna, timing, timing_coeff, evidence_count, created_at
		FROM oprms.rating_history
		WHERE symbol = $1
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer rows.Close()

	var history []*Rating
	for rows.Next() {
		var rating Rating
		var dna, timing string
		if err := rows.Scan(
			&rating.Symbol, &dna, &timing,
			&rating.TimingCoeff, &rating.EvidenceCount, &rating.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		rating.DNA = DNARating(dna)
		rating.Timing = TimingRating(timing)
		history = append(history, &rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rating history: %w", err)
	}
	return history, nil
}

// Current implements HistoryStore
func (r *Repository) Current(ctx context.Context, symbol string) (*Rating, error) {
	query := `
		SELECT symbol, dna, timing, timing_coeff, evidence_count, created_at
		FROM oprms.rating_history
		WHERE symbol = $1
		ORDER BY id DESC
		LIMIT 1
	`

	var rating Rating
	var dna, timing string
	err := r.pool.QueryRow(ctx, query, symbol).Scan(
		&rating.Symbol, &dna, &timing,
		&rating.TimingCoeff, &rating.EvidenceCount, &rating.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current rating: %w", err)
	}
	rating.DNA = DNARating(dna)
	rating.Timing = TimingRating(timing)
	return &rating, nil
}
