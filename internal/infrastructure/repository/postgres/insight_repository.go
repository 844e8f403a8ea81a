package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/champi-dev/live-football/internal/domain/insight"
	qb "github.com/champi-dev/live-football/internal/platform/querybuilder"
)

type InsightRepository struct {
	db *sqlx.DB
}

func NewInsightRepository(db *sqlx.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

type insightTableModel struct {
	ID         string        `db:"id"`
	MatchID    int64         `db:"match_id"`
	Type       string        `db:"type"`
	Content    string        `db:"content"`
	TokensUsed sql.NullInt64 `db:"tokens_used"`
	AsOfMinute sql.NullInt64 `db:"as_of_minute"`
	CreatedAt  time.Time     `db:"created_at"`
}

type insightInsertModel struct {
	ID         string        `db:"id"`
	MatchID    int64         `db:"match_id"`
	Type       string        `db:"type"`
	Content    string        `db:"content"`
	TokensUsed sql.NullInt64 `db:"tokens_used"`
	AsOfMinute sql.NullInt64 `db:"as_of_minute"`
	CreatedAt  time.Time     `db:"created_at"`
}

func (r *InsightRepository) Insert(ctx context.Context, item insight.Insight) error {
	insertModel := insightInsertModel{
		ID:         item.ID,
		MatchID:    item.MatchID,
		Type:       item.Type,
		Content:    item.Content,
		TokensUsed: intPtrToNullInt64(item.TokensUsed),
		AsOfMinute: intPtrToNullInt64(item.AsOfMinute),
		CreatedAt:  item.CreatedAt,
	}

	query, args, err := qb.InsertModel("insights", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insight insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert insight: %w", err)
	}
	return nil
}

func (r *InsightRepository) ListByMatch(ctx context.Context, matchID int64) ([]insight.Insight, error) {
	query, args, err := qb.Select("*").From("insights").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select insights query: %w", err)
	}

	var rows []insightTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select insights: %w", err)
	}

	items := make([]insight.Insight, 0, len(rows))
	for _, row := range rows {
		items = append(items, insight.Insight{
			ID:         row.ID,
			MatchID:    row.MatchID,
			Type:       row.Type,
			Content:    row.Content,
			TokensUsed: nullInt64ToIntPtr(row.TokensUsed),
			AsOfMinute: nullInt64ToIntPtr(row.AsOfMinute),
			CreatedAt:  row.CreatedAt,
		})
	}
	return items, nil
}
