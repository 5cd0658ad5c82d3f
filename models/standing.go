package models

// TeamStanding is a row of a tournament's standings table, ordered by
// points desc, wins desc, team id asc.
type TeamStanding struct {
	Position int    `json:"position"`
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	Played   int    `json:"played"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Points   int    `json:"points"`
}
