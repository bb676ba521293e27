package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/scoreboard-system/models"
)

// Action names accepted by the rule modules. Один запрос — одно действие.
const (
	ActionStartMatch = "startMatch"

	// cricket
	ActionRecordBall    = "recordBall"
	ActionEndOver       = "endOver"
	ActionEndInnings    = "endInnings"
	ActionDeclareResult = "declareResult"

	// set-based sports
	ActionStartSet        = "startSet"
	ActionUpdateSetPoints = "updateSetPoints"
	ActionToggleServer    = "toggleServer"
	ActionEndSet          = "endSet"

	// goal-based sports
	ActionRecordScore   = "recordScore"
	ActionRecordFoul    = "recordFoul"
	ActionAdvancePeriod = "advancePeriod"
	ActionEndMatch      = "endMatch"
	ActionStartTimer    = "startTimer"
	ActionPauseTimer    = "pauseTimer"
	ActionStopTimer     = "stopTimer"
	ActionSetAddedTime  = "setAddedTime"

	// simple sports
	ActionDeclareWinner = "declareWinner"
)

// Action is the flat wire form of an admin update. Which fields are read
// depends on Name and the sport of the target match.
type Action struct {
	Name string          `json:"action"`
	Side models.TeamSide `json:"team,omitempty"`

	// cricket
	Runs   int    `json:"runs,omitempty"`
	Extra  string `json:"extra,omitempty"` // wide, no_ball, bye, leg_bye
	Wicket bool   `json:"wicket,omitempty"`

	// set sports
	SetNumber int `json:"set_number,omitempty"`
	Delta     int `json:"delta,omitempty"`

	// goal sports
	Points       int    `json:"points,omitempty"`
	PlayerName   string `json:"player_name,omitempty"`
	CardType     string `json:"card_type,omitempty"`
	EventTime    string `json:"event_time,omitempty"`
	AddedSeconds int    `json:"added_seconds,omitempty"`

	// simple sports
	ResultType models.ResultType `json:"result_type,omitempty"`
}

// Event — заметное событие для пуш-уведомлений зрителям. Events are not
// required for persistence correctness; they only feed the broadcaster.
type Event struct {
	Type   string          `json:"type"`
	Side   models.TeamSide `json:"side,omitempty"`
	Detail string          `json:"detail,omitempty"`
}

const (
	EventMatchStarted     = "MATCH_STARTED"
	EventWicket           = "WICKET"
	EventOverCompleted    = "OVER_COMPLETED"
	EventInningsClosed    = "INNINGS_CLOSED"
	EventSetStarted       = "SET_STARTED"
	EventSetWon           = "SET_WON"
	EventScore            = "SCORE"
	EventCard             = "CARD"
	EventPeriodAdvanced   = "PERIOD_ADVANCED"
	EventHalfTime         = "HALF_TIME"
	EventFullTime         = "FULL_TIME"
	EventPenaltiesStarted = "PENALTIES_STARTED"
	EventMatchWon         = "MATCH_WON"
	EventMatchDrawn       = "MATCH_DRAWN"
)

var (
	// ErrStateViolation — действие недопустимо в текущем состоянии матча.
	ErrStateViolation = errors.New("action not allowed in current match state")

	// ErrInvalidAction — действие синтаксически некорректно (неизвестное имя,
	// отсутствует обязательное поле и т.п.), вне зависимости от состояния.
	ErrInvalidAction = errors.New("invalid action")
)

// StateViolationError carries the rejected action and the state it was
// rejected against; it unwraps to ErrStateViolation.
type StateViolationError struct {
	Action string
	Status models.MatchStatus
	Reason string
}

func (e *StateViolationError) Error() string {
	return fmt.Sprintf("action %q rejected (status %s): %s", e.Action, e.Status, e.Reason)
}

func (e *StateViolationError) Unwrap() error { return ErrStateViolation }

func violation(act Action, m *models.Match, reason string) error {
	return &StateViolationError{Action: act.Name, Status: m.Status, Reason: reason}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}

// Engine is the shared capability of all sport rule modules. Engines are pure
// in the sense that they hold no state of their own: they mutate only the
// match they are given and return the notable events.
type Engine interface {
	ApplyAction(m *models.Match, act Action, now time.Time) ([]Event, error)
}

// Закрытая таблица диспетчеризации по видам спорта. Дополнение требует
// правки здесь, а не ветвления по строкам в обработчиках.
var engines = map[models.SportType]Engine{
	models.SportCricket:     cricketEngine{},
	models.SportBadminton:   setEngine{},
	models.SportTableTennis: setEngine{},
	models.SportVolleyball:  setEngine{},
	models.SportFootball:    goalEngine{},
	models.SportBasketball:  goalEngine{},
	models.SportKabaddi:     goalEngine{},
	models.SportKhoKho:      goalEngine{},
	models.SportChess:       simpleEngine{},
}

// ForSport returns the rule module for a sport. A missing entry is an
// authoring error: every valid SportType must be present in the table.
func ForSport(s models.SportType) (Engine, bool) {
	e, ok := engines[s]
	return e, ok
}

// complete переводит матч в терминальное состояние. winner == nil — ничья.
func complete(m *models.Match, winner *models.TeamSide) Event {
	m.Status = models.StatusCompleted
	m.Winner = winner
	if winner == nil {
		return Event{Type: EventMatchDrawn}
	}
	return Event{Type: EventMatchWon, Side: *winner}
}

// startMatch is the shared SCHEDULED -> LIVE transition.
func startMatch(m *models.Match, act Action) error {
	if m.Status != models.StatusScheduled {
		return violation(act, m, "match already started")
	}
	m.Status = models.StatusLive
	return nil
}
