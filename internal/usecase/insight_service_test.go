package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champi-dev/live-football/internal/domain/insight"
	"github.com/champi-dev/live-football/internal/domain/match"
	"github.com/champi-dev/live-football/internal/domain/team"
	"github.com/champi-dev/live-football/internal/infrastructure/repository/memory"
	"github.com/champi-dev/live-football/internal/platform/cache"
	"github.com/champi-dev/live-football/internal/platform/logging"
	"github.com/champi-dev/live-football/internal/usecase"
)

type fakeGenerator struct {
	content string
	tokens  int
	err     error

	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, int, error) {
	g.prompts = append(g.prompts, prompt)
	return g.content, g.tokens, g.err
}

type fanoutRecorder struct {
	topics []string
	events []string
}

func (r *fanoutRecorder) Publish(topic, event string, _ any) {
	r.topics = append(r.topics, topic)
	r.events = append(r.events, event)
}

func newInsightEnv(generator usecase.InsightGenerator, publisher usecase.EventPublisher) (*usecase.InsightService, *memory.InsightRepository) {
	kickoff := time.Date(2026, 3, 7, 15, 0, 0, 0, time.UTC)
	matchRepo := memory.NewMatchRepository(match.Match{
		ID:           1,
		LeagueID:     2021,
		LeagueName:   "Premier League",
		HomeTeamID:   57,
		AwayTeamID:   65,
		KickoffAt:    kickoff,
		Status:       match.StatusLive,
		HomeScore:    1,
		LastSyncedAt: kickoff,
	})
	teamRepo := memory.NewTeamRepository(
		team.Team{ID: 57, Name: "Arsenal FC"},
		team.Team{ID: 65, Name: "Manchester City FC"},
	)
	insightRepo := memory.NewInsightRepository()
	store := cache.NewStore(time.Minute)

	queries := usecase.NewMatchQueryService(matchRepo, teamRepo, memory.NewMatchEventRepository(), memory.NewLineupRepository(), memory.NewMatchStatRepository(), insightRepo, store)
	svc := usecase.NewInsightService(insightRepo, queries, generator, publisher, nil, store, logging.NewNop())
	return svc, insightRepo
}

func TestGenerate_PersistsAndFansOut(t *testing.T) {
	generator := &fakeGenerator{content: "Arsenal lead through an early goal.", tokens: 42}
	publisher := &fanoutRecorder{}
	svc, insightRepo := newInsightEnv(generator, publisher)
	ctx := context.Background()

	item, err := svc.Generate(ctx, 1, insight.TypeLiveUpdate)
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, insight.TypeLiveUpdate, item.Type)
	assert.Equal(t, "Arsenal lead through an early goal.", item.Content)
	require.NotNil(t, item.TokensUsed)
	assert.Equal(t, 42, *item.TokensUsed)

	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "Arsenal FC vs Manchester City FC")
	assert.Contains(t, generator.prompts[0], "score 1-0")

	stored, err := insightRepo.ListByMatch(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "ai_insight", publisher.events[0])
	assert.Equal(t, "match:1", publisher.topics[0])
}

func TestGenerate_RepeatedCallsAppend(t *testing.T) {
	svc, insightRepo := newInsightEnv(&fakeGenerator{content: "update"}, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, 1, insight.TypeLiveUpdate)
	require.NoError(t, err)
	_, err = svc.Generate(ctx, 1, insight.TypeLiveUpdate)
	require.NoError(t, err)

	stored, err := insightRepo.ListByMatch(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, stored, 2, "insights are immutable, repeated calls append")
}

func TestGenerate_WithoutGeneratorFails(t *testing.T) {
	svc, _ := newInsightEnv(nil, nil)

	_, err := svc.Generate(context.Background(), 1, insight.TypeLiveUpdate)
	assert.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestGenerate_UnknownMatch(t *testing.T) {
	svc, _ := newInsightEnv(&fakeGenerator{content: "x"}, nil)

	_, err := svc.Generate(context.Background(), 404, insight.TypeLiveUpdate)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestGenerate_ValidatesType(t *testing.T) {
	svc, _ := newInsightEnv(&fakeGenerator{content: "x"}, nil)

	_, err := svc.Generate(context.Background(), 1, "hot_take")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestListByMatch_FiltersByType(t *testing.T) {
	svc, insightRepo := newInsightEnv(nil, nil)
	ctx := context.Background()

	now := time.Date(2026, 3, 7, 16, 0, 0, 0, time.UTC)
	require.NoError(t, insightRepo.Insert(ctx, insight.Insight{ID: "a", MatchID: 1, Type: insight.TypePreMatch, Content: "preview", CreatedAt: now}))
	require.NoError(t, insightRepo.Insert(ctx, insight.Insight{ID: "b", MatchID: 1, Type: insight.TypeLiveUpdate, Content: "update", CreatedAt: now.Add(time.Minute)}))

	all, err := svc.ListByMatch(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	previews, err := svc.ListByMatch(ctx, 1, insight.TypePreMatch)
	require.NoError(t, err)
	require.Len(t, previews, 1)
	assert.Equal(t, "a", previews[0].ID)
}

func TestListByMatch_RejectsUnknownTypeFilter(t *testing.T) {
	svc, _ := newInsightEnv(nil, nil)

	_, err := svc.ListByMatch(context.Background(), 1, "hot_take")
	assert.ErrorIs(t, err, usecase.ErrInvalidInput)
}
