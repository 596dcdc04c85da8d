package basketball_nba

// NBA team abbreviation mappings
var nbaTeamAbbreviations = map[string]string{
	"Atlanta Hawks":          "ATL",
	"Boston Celtics":         "BOS",
	"Brooklyn Nets":          "BKN",
	"Charlotte Hornets":      "CHA",
	"Chicago Bulls":          "CHI",
	"Cleveland Cavaliers":    "CLE",
	"Dallas Mavericks":       "DAL",
	"Denver Nuggets":         "DEN",
	"Detroit Pistons":        "DET",
	"Golden State Warriors":  "GSW",
	"Houston Rockets":        "HOU",
	"Indiana Pacers":         "IND",
	"Los Angeles Clippers":   "LAC",
	"Los Angeles Lakers":     "LAL",
	"Memphis Grizzlies":      "MEM",
	"Miami Heat":             "MIA",
	"Milwaukee Bucks":        "MIL",
	"Minnesota Timberwolves": "MIN",
	"New Orleans Pelicans":   "NOP",
	"New York Knicks":        "NYK",
	"Oklahoma City Thunder":  "OKC",
	"Orlando Magic":          "ORL",
	"Philadelphia 76ers":     "PHI",
	"Phoenix Suns":           "PHX",
	"Portland Trail Blazers": "POR",
	"Sacramento Kings":       "SAC",
	"San Antonio Spurs":      "SAS",
	"Toronto Raptors":        "TOR",
	"Utah Jazz":              "UTA",
	"Washington Wizards":     "WAS",
}

// stats.nba.com numeric team ids
var nbaTeamIDs = map[string]int{
	"ATL": 1610612737, "BOS": 1610612738, "BKN": 1610612751, "CHA": 1610612766, "CHI": 1610612741,
	"CLE": 1610612739, "DAL": 1610612742, "DEN": 1610612743, "DET": 1610612765, "GSW": 1610612744,
	"HOU": 1610612745, "IND": 1610612754, "LAC": 1610612746, "LAL": 1610612747, "MEM": 1610612763,
	"MIA": 1610612748, "MIL": 1610612749, "MIN": 1610612750, "NOP": 1610612740, "NYK": 1610612752,
	"OKC": 1610612760, "ORL": 1610612753, "PHI": 1610612755, "PHX": 1610612756, "POR": 1610612757,
	"SAC": 1610612758, "SAS": 1610612759, "TOR": 1610612761, "UTA": 1610612762, "WAS": 1610612764,
}

// Reverse mappings for lookups
var nbaAbbreviationToName = map[string]string{}
var nbaTeamIDToAbbreviation = map[int]string{}

func init() {
	for name, abbr := range nbaTeamAbbreviations {
		nbaAbbreviationToName[abbr] = name
	}
	for abbr, id := range nbaTeamIDs {
		nbaTeamIDToAbbreviation[id] = abbr
	}
}

// GetTeamAbbreviation returns the abbreviation for a full team name
func GetTeamAbbreviation(fullName string) string {
	if abbr, ok := nbaTeamAbbreviations[fullName]; ok {
		return abbr
	}
	return fullName // Return original if not found
}

// GetTeamName returns the full name for an abbreviation
func GetTeamName(abbr string) string {
	if name, ok := nbaAbbreviationToName[abbr]; ok {
		return name
	}
	return abbr // Return original if not found
}

// GetTeamID returns the stats.nba.com team id for an abbreviation
func GetTeamID(abbr string) (int, bool) {
	id, ok := nbaTeamIDs[abbr]
	return id, ok
}

// GetTeamAbbreviationByID returns the abbreviation for a numeric team id
func GetTeamAbbreviationByID(id int) (string, bool) {
	abbr, ok := nbaTeamIDToAbbreviation[id]
	return abbr, ok
}
