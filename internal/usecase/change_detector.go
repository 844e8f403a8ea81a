package usecase

import "github.com/champi-dev/live-football/internal/domain/match"

// ChangeSet describes what changed between two observations of a match.
type ChangeSet struct {
	ScoreChanged  bool
	StatusChanged bool
	JustStarted   bool
	JustFinished  bool
}

func (c ChangeSet) Any() bool {
	return c.ScoreChanged || c.StatusChanged || c.JustStarted || c.JustFinished
}

// DetectChanges compares the previously stored match with the freshly
// synced one. A first observation (prev == nil) never reports changes;
// otherwise the very first sync of every live match would fan out.
func DetectChanges(prev *match.Match, current match.Match) ChangeSet {
	if prev == nil {
		return ChangeSet{}
	}

	var out ChangeSet
	if prev.HomeScore != current.HomeScore || prev.AwayScore != current.AwayScore {
		out.ScoreChanged = true
	}
	if prev.Status != current.Status {
		out.StatusChanged = true
		// Only a genuine kickoff counts as a start; status corrections
		// such as POSTPONED -> LIVE must not announce one.
		if prev.Status == match.StatusNotStarted && match.IsInPlayStatus(current.Status) {
			out.JustStarted = true
		}
		if !match.IsFinishedStatus(prev.Status) && match.IsFinishedStatus(current.Status) {
			out.JustFinished = true
		}
	}

	return out
}
