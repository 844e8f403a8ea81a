package team

import "fmt"

// Team is a real football club, keyed by the upstream team ID.
type Team struct {
	ID        int64
	Name      string
	ShortName string
	Tla       string
	CrestURL  string
	Country   string
	Founded   *int
	Venue     string
	IsMajor   bool
}

func (t Team) Validate() error {
	if t.ID == 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
