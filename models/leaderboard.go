package models

// LeaderboardEntry — строка сводной таблицы по подразделению.
// Points: win = 2, draw = 1, loss = 0, across all completed matches.
type LeaderboardEntry struct {
	DepartmentID   string `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	Points         int    `json:"points"`
}
