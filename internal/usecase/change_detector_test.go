package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/champi-dev/live-football/internal/domain/match"
)

func TestDetectChanges_FirstObservationIsQuiet(t *testing.T) {
	current := match.Match{ID: 1, Status: match.StatusLive, HomeScore: 2, AwayScore: 1}

	got := DetectChanges(nil, current)

	assert.False(t, got.Any(), "first observation must not report changes")
}

func TestDetectChanges_ScoreChange(t *testing.T) {
	prev := match.Match{ID: 1, Status: match.StatusLive, HomeScore: 0, AwayScore: 0}
	current := prev
	current.HomeScore = 1

	got := DetectChanges(&prev, current)

	assert.True(t, got.ScoreChanged)
	assert.False(t, got.StatusChanged)
	assert.True(t, got.Any())
}

func TestDetectChanges_JustStarted(t *testing.T) {
	prev := match.Match{ID: 1, Status: match.StatusNotStarted}
	current := prev
	current.Status = match.StatusLive

	got := DetectChanges(&prev, current)

	assert.True(t, got.StatusChanged)
	assert.True(t, got.JustStarted)
	assert.False(t, got.JustFinished)
}

func TestDetectChanges_StatusCorrectionIsNotAStart(t *testing.T) {
	for _, status := range []string{match.StatusPostponed, match.StatusToBeDefined, match.StatusFullTime} {
		prev := match.Match{ID: 1, Status: status}
		current := prev
		current.Status = match.StatusLive

		got := DetectChanges(&prev, current)

		assert.True(t, got.StatusChanged)
		assert.False(t, got.JustStarted, "%s to LIVE is a correction, not a kickoff", status)
	}
}

func TestDetectChanges_HalfTimeIsNotAStart(t *testing.T) {
	prev := match.Match{ID: 1, Status: match.StatusLive}
	current := prev
	current.Status = match.StatusHalfTime

	got := DetectChanges(&prev, current)

	assert.True(t, got.StatusChanged)
	assert.False(t, got.JustStarted, "LIVE to HALF_TIME stays in play")
	assert.False(t, got.JustFinished)
}

func TestDetectChanges_JustFinished(t *testing.T) {
	prev := match.Match{ID: 1, Status: match.StatusLive, HomeScore: 2, AwayScore: 2}
	current := prev
	current.Status = match.StatusFullTime

	got := DetectChanges(&prev, current)

	assert.True(t, got.StatusChanged)
	assert.True(t, got.JustFinished)
	assert.False(t, got.ScoreChanged)
}

func TestDetectChanges_NoChange(t *testing.T) {
	prev := match.Match{ID: 1, Status: match.StatusLive, HomeScore: 1, AwayScore: 0}

	got := DetectChanges(&prev, prev)

	assert.False(t, got.Any())
}
