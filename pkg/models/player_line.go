package models

// PlayerGameLine represents one player's stat line from a single box score
type PlayerGameLine struct {
	TeamID        int     `json:"team_id"`
	TeamAbbr      string  `json:"team_abbr"`
	PlayerName    string  `json:"player_name"`
	StartPosition string  `json:"start_position,omitempty"`
	Points        float64 `json:"points"`
	Rebounds      float64 `json:"rebounds"`
	Assists       float64 `json:"assists"`
	ThreesMade    float64 `json:"threes_made"`
	Steals        float64 `json:"steals"`
	Blocks        float64 `json:"blocks"`
}

// Metric returns the named stat value from the line.
// Metric keys match the stats provider column abbreviations.
func (l PlayerGameLine) Metric(name string) float64 {
	switch name {
	case "pts":
		return l.Points
	case "reb":
		return l.Rebounds
	case "ast":
		return l.Assists
	case "fg3m":
		return l.ThreesMade
	case "stl":
		return l.Steals
	case "blk":
		return l.Blocks
	default:
		return 0.0
	}
}
