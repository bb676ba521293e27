package models

import "time"

type SportType string

const (
	SportCricket     SportType = "cricket"
	SportFootball    SportType = "football"
	SportBasketball  SportType = "basketball"
	SportBadminton   SportType = "badminton"
	SportTableTennis SportType = "table_tennis"
	SportVolleyball  SportType = "volleyball"
	SportChess       SportType = "chess"
	SportKhoKho      SportType = "khokho"
	SportKabaddi     SportType = "kabaddi"
)

// ValidSport проверяет, что значение входит в закрытый набор видов спорта.
func ValidSport(s SportType) bool {
	switch s {
	case SportCricket, SportFootball, SportBasketball, SportBadminton,
		SportTableTennis, SportVolleyball, SportChess, SportKhoKho, SportKabaddi:
		return true
	}
	return false
}

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusHalfTime  MatchStatus = "half_time"
	StatusFullTime  MatchStatus = "full_time"
	StatusPenalties MatchStatus = "penalties"
	StatusCompleted MatchStatus = "completed"
	StatusCancelled MatchStatus = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s MatchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// TeamSide идентифицирует сторону матча ("A" или "B").
type TeamSide string

const (
	SideA TeamSide = "A"
	SideB TeamSide = "B"
)

func (t TeamSide) Valid() bool { return t == SideA || t == SideB }

// Opponent returns the other side.
func (t TeamSide) Opponent() TeamSide {
	if t == SideA {
		return SideB
	}
	return SideA
}

// InningsScore — счёт одной команды в крикете.
type InningsScore struct {
	Runs    int `json:"runs" bson:"runs"`
	Wickets int `json:"wickets" bson:"wickets"`
	Overs   int `json:"overs" bson:"overs"`
	Balls   int `json:"balls" bson:"balls"` // always in [0,6)
}

// CricketState holds cricket-specific match state. A and B are the innings
// scores of teamA and teamB; BattingSide points at the side currently at bat.
type CricketState struct {
	A              InningsScore `json:"score_a" bson:"score_a"`
	B              InningsScore `json:"score_b" bson:"score_b"`
	BattingSide    TeamSide     `json:"batting_side" bson:"batting_side"`
	CurrentInnings int          `json:"current_innings" bson:"current_innings"` // 1 or 2
	TotalOvers     int          `json:"total_overs" bson:"total_overs"`
	Target         *int         `json:"target,omitempty" bson:"target,omitempty"` // first innings runs + 1
	InningsClosed  bool         `json:"innings_closed" bson:"innings_closed"`
}

// Score возвращает счёт стороны side.
func (c *CricketState) Score(side TeamSide) *InningsScore {
	if side == SideA {
		return &c.A
	}
	return &c.B
}

// SetDetail is the final sub-score of one completed set.
type SetDetail struct {
	PointsA int `json:"points_a" bson:"points_a"`
	PointsB int `json:"points_b" bson:"points_b"`
}

// ScoringPreset — пороги выигрыша сета, фиксируются при создании матча.
// HardCap == 0 means the set has no cap and is decided purely by margin.
type ScoringPreset struct {
	WinThreshold int `json:"win_threshold" bson:"win_threshold"`
	MinMargin    int `json:"min_margin" bson:"min_margin"`
	HardCap      int `json:"hard_cap,omitempty" bson:"hard_cap,omitempty"`
}

// DefaultPreset returns the built-in thresholds for a set-based sport.
func DefaultPreset(sport SportType) ScoringPreset {
	switch sport {
	case SportVolleyball:
		return ScoringPreset{WinThreshold: 25, MinMargin: 2}
	case SportTableTennis:
		return ScoringPreset{WinThreshold: 11, MinMargin: 2}
	default: // badminton and anything badminton-like
		return ScoringPreset{WinThreshold: 21, MinMargin: 2, HardCap: 30}
	}
}

// SetState holds state for set-based sports (badminton, table tennis, volleyball).
type SetState struct {
	Details       []SetDetail   `json:"set_details" bson:"set_details"` // one entry per completed set
	CurrentSet    int           `json:"current_set" bson:"current_set"` // 0 when no set is open
	PointsA       int           `json:"points_a" bson:"points_a"`       // points inside the open set
	PointsB       int           `json:"points_b" bson:"points_b"`
	CurrentServer TeamSide      `json:"current_server,omitempty" bson:"current_server,omitempty"`
	MaxSets       int           `json:"max_sets" bson:"max_sets"`
	Preset        ScoringPreset `json:"preset" bson:"preset"`
}

// Open reports whether a set is currently in progress.
func (s *SetState) Open() bool { return s.CurrentSet > 0 }

// Points returns a pointer to the open-set points of a side.
func (s *SetState) Points(side TeamSide) *int {
	if side == SideA {
		return &s.PointsA
	}
	return &s.PointsB
}

// SetsToWin — сколько сетов нужно выиграть (ceil(maxSets/2)).
func (s *SetState) SetsToWin() int { return (s.MaxSets + 2) / 2 }

// ClockState описывает состояние таймера матча.
type ClockState string

const (
	ClockStopped ClockState = "stopped"
	ClockRunning ClockState = "running"
	ClockPaused  ClockState = "paused"
)

// MatchClock is anchored to wall-clock time: while running, elapsed time is
// always ElapsedSeconds plus the distance from StartedAt to now. Nothing
// ticks server-side, so the value survives client reconnects without drift.
type MatchClock struct {
	State          ClockState `json:"state" bson:"state"`
	StartedAt      *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds" bson:"elapsed_seconds"`
	AddedSeconds   int        `json:"added_seconds" bson:"added_seconds"`
}

// Elapsed returns the total elapsed seconds as of now.
func (c *MatchClock) Elapsed(now time.Time) int {
	if c.State == ClockRunning && c.StartedAt != nil {
		return c.ElapsedSeconds + int(now.Sub(*c.StartedAt).Seconds())
	}
	return c.ElapsedSeconds
}

// GoalState holds state for goal/point sports (football, basketball, kabaddi, kho-kho).
type GoalState struct {
	Period     int        `json:"period" bson:"period"`
	MaxPeriods int        `json:"max_periods" bson:"max_periods"`
	Clock      MatchClock `json:"clock" bson:"clock"`
	PenaltiesA int        `json:"penalties_a,omitempty" bson:"penalties_a,omitempty"`
	PenaltiesB int        `json:"penalties_b,omitempty" bson:"penalties_b,omitempty"`
}

// ScorerEvent — запись о набранных очках (append-only).
type ScorerEvent struct {
	Side       TeamSide  `json:"side" bson:"side"`
	Points     int       `json:"points" bson:"points"`
	PlayerName string    `json:"player_name,omitempty" bson:"player_name,omitempty"`
	EventTime  string    `json:"event_time,omitempty" bson:"event_time,omitempty"` // e.g. "45+2'"
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}

// CardEvent — запись о карточке/фоле (append-only).
type CardEvent struct {
	Side       TeamSide  `json:"side" bson:"side"`
	CardType   string    `json:"card_type" bson:"card_type"` // yellow, red, foul
	PlayerName string    `json:"player_name,omitempty" bson:"player_name,omitempty"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
}

type ResultType string

const (
	ResultCheckmate   ResultType = "checkmate"
	ResultResignation ResultType = "resignation"
	ResultDraw        ResultType = "draw"
	ResultTimeout     ResultType = "timeout"
)

// Match — один запланированный матч. Документ хранится в Mongo целиком;
// Version is the optimistic-concurrency counter checked on every replace.
type Match struct {
	ID      string    `json:"id" bson:"_id"`
	Sport   SportType `json:"sport" bson:"sport"`
	TeamA   string    `json:"team_a" bson:"team_a"` // department IDs, immutable
	TeamB   string    `json:"team_b" bson:"team_b"`
	Version int64     `json:"version" bson:"version"`

	Status MatchStatus `json:"status" bson:"status"`
	ScoreA int         `json:"score_a" bson:"score_a"` // goals/points/sets won, depending on sport
	ScoreB int         `json:"score_b" bson:"score_b"`

	Cricket *CricketState `json:"cricket,omitempty" bson:"cricket,omitempty"`
	Sets    *SetState     `json:"sets,omitempty" bson:"sets,omitempty"`
	Goal    *GoalState    `json:"goal,omitempty" bson:"goal,omitempty"`

	Scorers []ScorerEvent `json:"scorers,omitempty" bson:"scorers,omitempty"`
	Cards   []CardEvent   `json:"cards,omitempty" bson:"cards,omitempty"`

	Winner     *TeamSide  `json:"winner,omitempty" bson:"winner,omitempty"` // set iff status == completed
	ResultType ResultType `json:"result_type,omitempty" bson:"result_type,omitempty"`

	ScheduledAt time.Time `json:"scheduled_at" bson:"scheduled_at"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Team returns the department ID of a side.
func (m *Match) Team(side TeamSide) string {
	if side == SideA {
		return m.TeamA
	}
	return m.TeamB
}

// Score returns a pointer to the top-level score of a side.
func (m *Match) Score(side TeamSide) *int {
	if side == SideA {
		return &m.ScoreA
	}
	return &m.ScoreB
}

// Clone возвращает глубокую копию матча. Rule modules mutate the clone, so a
// rejected action never leaves partial changes on the loaded document.
func (m *Match) Clone() *Match {
	out := *m
	if m.Cricket != nil {
		c := *m.Cricket
		if m.Cricket.Target != nil {
			t := *m.Cricket.Target
			c.Target = &t
		}
		out.Cricket = &c
	}
	if m.Sets != nil {
		s := *m.Sets
		s.Details = append([]SetDetail(nil), m.Sets.Details...)
		out.Sets = &s
	}
	if m.Goal != nil {
		g := *m.Goal
		if m.Goal.Clock.StartedAt != nil {
			t := *m.Goal.Clock.StartedAt
			g.Clock.StartedAt = &t
		}
		out.Goal = &g
	}
	out.Scorers = append([]ScorerEvent(nil), m.Scorers...)
	out.Cards = append([]CardEvent(nil), m.Cards...)
	if m.Winner != nil {
		w := *m.Winner
		out.Winner = &w
	}
	return &out
}
