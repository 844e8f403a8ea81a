package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/champi-dev/live-football/internal/domain/insight"
	"github.com/champi-dev/live-football/internal/platform/cache"
	"github.com/champi-dev/live-football/internal/platform/id"
	"github.com/champi-dev/live-football/internal/platform/logging"
)

// InsightService produces and serves generated match commentary. The text
// generator is an injected capability; without one, generation requests
// fail with ErrDependencyUnavailable while reads keep working.
type InsightService struct {
	insightRepo insight.Repository
	queries     *MatchQueryService
	generator   InsightGenerator
	publisher   EventPublisher
	ids         id.Generator
	cache       *cache.Store
	logger      *logging.Logger
	now         func() time.Time
}

func NewInsightService(
	insightRepo insight.Repository,
	queries *MatchQueryService,
	generator InsightGenerator,
	publisher EventPublisher,
	ids id.Generator,
	store *cache.Store,
	logger *logging.Logger,
) *InsightService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	return &InsightService{
		insightRepo: insightRepo,
		queries:     queries,
		generator:   generator,
		publisher:   publisher,
		ids:         ids,
		cache:       store,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *InsightService) ListByMatch(ctx context.Context, matchID int64, insightType string) ([]insight.Insight, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InsightService.ListByMatch")
	defer span.End()

	if matchID <= 0 {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if insightType != "" {
		if err := insight.ValidateType(insightType); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	key := fmt.Sprintf("ai:%d:%s", matchID, insightType)
	v, err := s.cache.GetOrLoad(ctx, key, cacheTTLMatch, func(ctx context.Context) (any, error) {
		items, err := s.insightRepo.ListByMatch(ctx, matchID)
		if err != nil {
			return nil, fmt.Errorf("list insights: %w", err)
		}
		if insightType == "" {
			return items, nil
		}
		filtered := make([]insight.Insight, 0, len(items))
		for _, item := range items {
			if item.Type == insightType {
				filtered = append(filtered, item)
			}
		}
		return filtered, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]insight.Insight)
	return items, nil
}

// Generate creates one insight for a match. Rows are immutable; repeated
// calls append new entries.
func (s *InsightService) Generate(ctx context.Context, matchID int64, insightType string) (insight.Insight, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InsightService.Generate")
	defer span.End()

	if matchID <= 0 {
		return insight.Insight{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if err := insight.ValidateType(insightType); err != nil {
		return insight.Insight{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s.generator == nil {
		return insight.Insight{}, fmt.Errorf("%w: insight generation is not configured", ErrDependencyUnavailable)
	}

	detail, err := s.queries.GetMatch(ctx, matchID)
	if err != nil {
		return insight.Insight{}, err
	}

	prompt := buildInsightPrompt(insightType, detail)
	content, tokens, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return insight.Insight{}, fmt.Errorf("generate insight: %w", err)
	}

	newID, err := s.ids.NewID()
	if err != nil {
		return insight.Insight{}, fmt.Errorf("generate insight id: %w", err)
	}

	item := insight.Insight{
		ID:         newID,
		MatchID:    matchID,
		Type:       insightType,
		Content:    content,
		CreatedAt:  s.now(),
		AsOfMinute: detail.Match.ElapsedMinute,
	}
	if tokens > 0 {
		item.TokensUsed = &tokens
	}

	if err := s.insightRepo.Insert(ctx, item); err != nil {
		return insight.Insight{}, fmt.Errorf("insert insight: %w", err)
	}

	s.cache.DeletePrefix(ctx, fmt.Sprintf("ai:%d:", matchID))
	s.cache.Delete(ctx, fmt.Sprintf("match:%d", matchID))

	if s.publisher != nil {
		s.publisher.Publish(matchTopic(matchID), "ai_insight", map[string]any{
			"matchId": matchID,
			"type":    insightType,
			"content": content,
		})
	}

	return item, nil
}

func buildInsightPrompt(insightType string, detail MatchDetail) string {
	var b strings.Builder
	m := detail.Match

	fmt.Fprintf(&b, "%s vs %s (%s)", detail.HomeTeam.Name, detail.AwayTeam.Name, m.LeagueName)
	fmt.Fprintf(&b, "\nStatus: %s, score %d-%d", m.Status, m.HomeScore, m.AwayScore)
	if m.ElapsedMinute != nil {
		fmt.Fprintf(&b, ", minute %d", *m.ElapsedMinute)
	}
	for _, ev := range detail.Events {
		fmt.Fprintf(&b, "\n%d' %s %s", ev.Minute, ev.Type, ev.PlayerName)
	}

	switch insightType {
	case insight.TypePreMatch:
		b.WriteString("\nWrite a short pre-match preview for this fixture.")
	case insight.TypeHalfTime:
		b.WriteString("\nWrite a short half-time analysis of the first half.")
	case insight.TypePostMatch:
		b.WriteString("\nWrite a short post-match summary of the result.")
	default:
		b.WriteString("\nWrite a short live update on the current state of play.")
	}

	return b.String()
}
