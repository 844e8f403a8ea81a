package matchevent

const (
	TypeGoal         = "goal"
	TypeCard         = "card"
	TypeSubstitution = "substitution"
)

// Event is one timeline entry (goal, booking, substitution) of a match.
type Event struct {
	MatchID     int64
	TeamID      int64
	Type        string
	Minute      int
	ExtraMinute *int
	PlayerName  string
	// AssistName holds the assist provider for goals and the incoming
	// player for substitutions.
	AssistName string
	Detail     string
}
