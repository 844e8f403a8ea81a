package lineup

// Entry is one player's slot in a match lineup, starting XI or bench.
type Entry struct {
	MatchID     int64
	TeamID      int64
	PlayerName  string
	Position    string
	ShirtNumber *int
	IsStarting  bool
}
