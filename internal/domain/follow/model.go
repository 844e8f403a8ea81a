package follow

import "time"

// Follow links a user to a team with per-channel notification preferences.
type Follow struct {
	UserID            string
	TeamID            int64
	NotifyMatchStart  bool
	NotifyGoals       bool
	NotifyFinalScore  bool
	CreatedAt         time.Time
}
