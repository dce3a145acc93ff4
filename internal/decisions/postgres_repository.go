package decisions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores decision records in the relational database.
type PostgresRepository struct {
	pool querier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("decisions: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q querier) *PostgresRepository {
	if q == nil {
		panic("decisions: querier required")
	}
	return &PostgresRepository{pool: q}
}

// Log inserts a new row.
func (r *PostgresRepository) Log(ctx context.Context, rec Record) (Record, error) {
	if rec.ConversationID == "" {
		return Record{}, ErrMissingConversationID
	}

	id := uuid.New()
	query := `
		INSERT INTO qualification_decisions (
			id, conversation_id, stage, score, confidence,
			intent_label, intent_confidence, recommend_transfer,
			transfer_target, routing_priority, urgency, reasoning
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		rec.ConversationID,
		string(rec.Stage),
		rec.Score,
		rec.Confidence,
		rec.IntentLabel,
		rec.IntentConfidence,
		rec.RecommendTransfer,
		rec.TransferTarget,
		rec.RoutingPriority,
		rec.Urgency,
		rec.Reasoning,
	).Scan(&createdAt); err != nil {
		return Record{}, fmt.Errorf("decisions: insert failed: %w", err)
	}

	rec.ID = id.String()
	rec.CreatedAt = createdAt
	return rec, nil
}

// ListByConversation fetches a conversation's decisions oldest first.
func (r *PostgresRepository) ListByConversation(ctx context.Context, conversationID string) ([]Record, error) {
	query := `
		SELECT id, conversation_id, stage, score, confidence,
		       intent_label, intent_confidence, recommend_transfer,
		       transfer_target, routing_priority, urgency, reasoning, created_at
		FROM qualification_decisions
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("decisions: select failed: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID,
			&rec.ConversationID,
			&rec.Stage,
			&rec.Score,
			&rec.Confidence,
			&rec.IntentLabel,
			&rec.IntentConfidence,
			&rec.RecommendTransfer,
			&rec.TransferTarget,
			&rec.RoutingPriority,
			&rec.Urgency,
			&rec.Reasoning,
			&rec.CreatedAt,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrRecordNotFound
			}
			return nil, fmt.Errorf("decisions: scan failed: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("decisions: rows failed: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrRecordNotFound
	}
	return out, nil
}
