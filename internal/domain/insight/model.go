package insight

import (
	"fmt"
	"time"
)

const (
	TypePreMatch   = "pre_match"
	TypeLiveUpdate = "live_update"
	TypeHalfTime   = "halftime"
	TypePostMatch  = "post_match"
)

// Insight is one generated commentary entry for a match. Rows are immutable.
type Insight struct {
	ID         string
	MatchID    int64
	Type       string
	Content    string
	TokensUsed *int
	AsOfMinute *int
	CreatedAt  time.Time
}

func ValidateType(value string) error {
	switch value {
	case TypePreMatch, TypeLiveUpdate, TypeHalfTime, TypePostMatch:
		return nil
	default:
		return fmt.Errorf("unknown insight type %q", value)
	}
}
