package matchstat

// Stats holds one row of per-match team statistics. Nil means the upstream
// did not report the figure.
type Stats struct {
	MatchID        int64
	HomePossession *int
	AwayPossession *int
	HomeShots      *int
	AwayShots      *int
	HomeShotsOn    *int
	AwayShotsOn    *int
	HomeShotsOff   *int
	AwayShotsOff   *int
	HomeCorners    *int
	AwayCorners    *int
	HomeFouls      *int
	AwayFouls      *int
	HomeOffsides   *int
	AwayOffsides   *int
	HomeYellows    *int
	AwayYellows    *int
	HomeReds       *int
	AwayReds       *int
	HomeSaves      *int
	AwaySaves      *int
}
