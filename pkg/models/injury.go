package models

// InjuryRecord is a display-only injury report row. ReturnDate is the
// provider's loosely formatted string and may be missing entirely;
// ReturnDateFormatted is the server-rendered display form.
type InjuryRecord struct {
	PlayerName          string  `json:"player_name"`
	Team                string  `json:"team"`
	Position            string  `json:"position,omitempty"`
	Jersey              string  `json:"jersey,omitempty"`
	Status              string  `json:"status"`
	Description         string  `json:"description"`
	ReturnDate          *string `json:"return_date"`
	ReturnDateFormatted string  `json:"return_date_formatted"`
}
