package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/champi-dev/live-football/internal/domain/follow"
	"github.com/champi-dev/live-football/internal/domain/team"
	"github.com/champi-dev/live-football/internal/platform/cache"
	"github.com/champi-dev/live-football/internal/platform/logging"
)

const teamSearchLimit = 10

// FollowInput captures notification preferences for a team follow.
// Nil pointers default to enabled.
type FollowInput struct {
	UserID           string
	TeamID           int64
	NotifyMatchStart *bool
	NotifyGoals      *bool
	NotifyFinalScore *bool
}

// TeamService serves team search and follow management. Search hits local
// storage first and falls back to the upstream provider, persisting any
// newly discovered club.
type TeamService struct {
	teamRepo   team.Repository
	followRepo follow.Repository
	provider   MatchDataProvider
	cache      *cache.Store
	logger     *logging.Logger
	now        func() time.Time
}

func NewTeamService(
	teamRepo team.Repository,
	followRepo follow.Repository,
	provider MatchDataProvider,
	store *cache.Store,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamService{
		teamRepo:   teamRepo,
		followRepo: followRepo,
		provider:   provider,
		cache:      store,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *TeamService) GetTeam(ctx context.Context, id int64) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	if id <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	key := fmt.Sprintf("team:%d", id)
	v, err := s.cache.GetOrLoad(ctx, key, cacheTTLDay, func(ctx context.Context) (any, error) {
		item, found, err := s.teamRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load team %d: %w", id, err)
		}
		if found {
			return item, nil
		}

		up, err := s.provider.TeamByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: team %d", ErrNotFound, id)
		}
		discovered := teamFromUpstream(up)
		if err := s.teamRepo.Upsert(ctx, discovered); err != nil {
			return nil, fmt.Errorf("persist discovered team %d: %w", id, err)
		}
		return discovered, nil
	})
	if err != nil {
		return team.Team{}, err
	}

	out, _ := v.(team.Team)
	return out, nil
}

func (s *TeamService) SearchTeams(ctx context.Context, query string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SearchTeams")
	defer span.End()

	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: search query needs at least 2 characters", ErrInvalidInput)
	}

	local, err := s.teamRepo.SearchByName(ctx, query, teamSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search teams: %w", err)
	}
	if len(local) > 0 {
		return local, nil
	}

	key := "teams:search:" + strings.ToLower(query)
	v, err := s.cache.GetOrLoad(ctx, key, cacheTTLDay, func(ctx context.Context) (any, error) {
		found, err := s.provider.SearchTeams(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("search teams upstream: %w", err)
		}

		out := make([]team.Team, 0, len(found))
		for _, up := range found {
			item := teamFromUpstream(up)
			if err := s.teamRepo.Upsert(ctx, item); err != nil {
				s.logger.WarnContext(ctx, "persist discovered team failed",
					"team_id", item.ID,
					"error", err,
				)
				continue
			}
			out = append(out, item)
			if len(out) >= teamSearchLimit {
				break
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return items, nil
}

func (s *TeamService) FollowTeam(ctx context.Context, input FollowInput) (follow.Follow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.FollowTeam")
	defer span.End()

	if strings.TrimSpace(input.UserID) == "" {
		return follow.Follow{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.TeamID <= 0 {
		return follow.Follow{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if _, err := s.GetTeam(ctx, input.TeamID); err != nil {
		return follow.Follow{}, err
	}

	item := follow.Follow{
		UserID:           input.UserID,
		TeamID:           input.TeamID,
		NotifyMatchStart: boolOrDefault(input.NotifyMatchStart, true),
		NotifyGoals:      boolOrDefault(input.NotifyGoals, true),
		NotifyFinalScore: boolOrDefault(input.NotifyFinalScore, true),
		CreatedAt:        s.now(),
	}
	if err := s.followRepo.Upsert(ctx, item); err != nil {
		return follow.Follow{}, fmt.Errorf("upsert follow: %w", err)
	}

	s.cache.Delete(ctx, "user:"+input.UserID+":follows")
	return item, nil
}

func (s *TeamService) UnfollowTeam(ctx context.Context, userID string, teamID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UnfollowTeam")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if teamID <= 0 {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	if err := s.followRepo.Delete(ctx, userID, teamID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	s.cache.Delete(ctx, "user:"+userID+":follows")
	return nil
}

func (s *TeamService) ListFollows(ctx context.Context, userID string) ([]follow.Follow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListFollows")
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	key := "user:" + userID + ":follows"
	v, err := s.cache.GetOrLoad(ctx, key, cacheTTLMatch, func(ctx context.Context) (any, error) {
		items, err := s.followRepo.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list follows: %w", err)
		}
		return append([]follow.Follow(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]follow.Follow)
	return append([]follow.Follow(nil), items...), nil
}

func teamFromUpstream(up UpstreamTeam) team.Team {
	return team.Team{
		ID:        up.ID,
		Name:      up.Name,
		ShortName: up.ShortName,
		Tla:       up.Tla,
		CrestURL:  up.Crest,
		Country:   up.Country,
		Founded:   up.Founded,
		Venue:     up.Venue,
		// Teams discovered through search are not in the major set the
		// sync pipeline tracks.
		IsMajor: false,
	}
}

func boolOrDefault(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
