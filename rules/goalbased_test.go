package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scoreboard-system/models"
)

func newFootballMatch() *models.Match {
	return &models.Match{
		ID:     "m1",
		Sport:  models.SportFootball,
		TeamA:  "dep-a",
		TeamB:  "dep-b",
		Status: models.StatusLive,
		Goal: &models.GoalState{
			Period:     1,
			MaxPeriods: 2,
			Clock:      models.MatchClock{State: models.ClockStopped},
		},
	}
}

func applyGoalAt(t *testing.T, m *models.Match, act Action, now time.Time) []Event {
	t.Helper()
	engine, ok := ForSport(m.Sport)
	require.True(t, ok)
	events, err := engine.ApplyAction(m, act, now)
	require.NoError(t, err)
	return events
}

func goalErr(m *models.Match, act Action) error {
	engine, _ := ForSport(m.Sport)
	_, err := engine.ApplyAction(m, act, time.Now())
	return err
}

func TestGoal_TimerRoundTrip(t *testing.T) {
	m := newFootballMatch()
	t0 := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)

	applyGoalAt(t, m, Action{Name: ActionStartTimer}, t0)
	assert.Equal(t, models.ClockRunning, m.Goal.Clock.State)

	// во время работы elapsed вычисляется от якоря, не тикает на сервере
	assert.Equal(t, 30, m.Goal.Clock.Elapsed(t0.Add(30*time.Second)))

	applyGoalAt(t, m, Action{Name: ActionPauseTimer}, t0.Add(90*time.Second))
	assert.Equal(t, models.ClockPaused, m.Goal.Clock.State)
	assert.Equal(t, 90, m.Goal.Clock.ElapsedSeconds)

	// момент чтения после паузы не влияет на значение
	assert.Equal(t, 90, m.Goal.Clock.Elapsed(t0.Add(10*time.Hour)))

	// возобновление продолжает с замороженного значения
	t1 := t0.Add(20 * time.Minute)
	applyGoalAt(t, m, Action{Name: ActionStartTimer}, t1)
	assert.Equal(t, 90+60, m.Goal.Clock.Elapsed(t1.Add(time.Minute)))

	applyGoalAt(t, m, Action{Name: ActionStopTimer}, t1.Add(time.Minute))
	assert.Equal(t, models.ClockStopped, m.Goal.Clock.State)
	assert.Equal(t, 150, m.Goal.Clock.ElapsedSeconds)
}

func TestGoal_StartTimerTwiceRejected(t *testing.T) {
	m := newFootballMatch()
	applyGoalAt(t, m, Action{Name: ActionStartTimer}, time.Now())

	err := goalErr(m, Action{Name: ActionStartTimer})
	assert.ErrorIs(t, err, ErrStateViolation)
}

func TestGoal_RecordScoreAppendsScorer(t *testing.T) {
	m := newFootballMatch()
	now := time.Now()

	applyGoalAt(t, m, Action{Name: ActionRecordScore, Side: models.SideA, Points: 1, PlayerName: "Ivanov", EventTime: "23'"}, now)
	applyGoalAt(t, m, Action{Name: ActionRecordScore, Side: models.SideB, Points: 1}, now)

	assert.Equal(t, 1, m.ScoreA)
	assert.Equal(t, 1, m.ScoreB)
	require.Len(t, m.Scorers, 2)
	assert.Equal(t, "Ivanov", m.Scorers[0].PlayerName)

	err := goalErr(m, Action{Name: ActionRecordScore, Side: models.SideA, Points: 0})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestGoal_CardsAreAppendOnly(t *testing.T) {
	m := newFootballMatch()
	now := time.Now()

	applyGoalAt(t, m, Action{Name: ActionRecordFoul, Side: models.SideA, CardType: "red", PlayerName: "Petrov"}, now)
	// вторая красная тому же игроку — допустима, ещё одна запись
	applyGoalAt(t, m, Action{Name: ActionRecordFoul, Side: models.SideA, CardType: "red", PlayerName: "Petrov"}, now)

	require.Len(t, m.Cards, 2)
	assert.Equal(t, 0, m.ScoreA) // карточки не трогают счёт
}

func TestGoal_PeriodPath(t *testing.T) {
	m := newFootballMatch()

	events := applyGoalAt(t, m, Action{Name: ActionAdvancePeriod}, time.Now())
	assert.Equal(t, models.StatusHalfTime, m.Status)
	assert.Equal(t, EventHalfTime, events[0].Type)

	applyGoalAt(t, m, Action{Name: ActionAdvancePeriod}, time.Now())
	assert.Equal(t, models.StatusLive, m.Status)
	assert.Equal(t, 2, m.Goal.Period)

	events = applyGoalAt(t, m, Action{Name: ActionAdvancePeriod}, time.Now())
	assert.Equal(t, models.StatusFullTime, m.Status)
	assert.Equal(t, EventFullTime, events[0].Type)
}

func TestGoal_PenaltiesOnlyWhenLevel(t *testing.T) {
	m := newFootballMatch()
	m.Status = models.StatusFullTime
	m.ScoreA, m.ScoreB = 2, 1

	err := goalErr(m, Action{Name: ActionAdvancePeriod})
	assert.ErrorIs(t, err, ErrStateViolation)

	m.ScoreB = 2
	events := applyGoalAt(t, m, Action{Name: ActionAdvancePeriod}, time.Now())
	assert.Equal(t, models.StatusPenalties, m.Status)
	assert.Equal(t, EventPenaltiesStarted, events[0].Type)

	// в серии пенальти голы идут в отдельный счёт
	applyGoalAt(t, m, Action{Name: ActionRecordScore, Side: models.SideA, Points: 1}, time.Now())
	assert.Equal(t, 2, m.ScoreA)
	assert.Equal(t, 1, m.Goal.PenaltiesA)
}

func TestGoal_EndMatchDecidesWinner(t *testing.T) {
	m := newFootballMatch()
	m.ScoreA, m.ScoreB = 3, 1

	events := applyGoalAt(t, m, Action{Name: ActionEndMatch}, time.Now())
	assert.Equal(t, models.StatusCompleted, m.Status)
	require.NotNil(t, m.Winner)
	assert.Equal(t, models.SideA, *m.Winner)
	assert.Equal(t, EventMatchWon, events[0].Type)
}

func TestGoal_EndMatchDrawLeavesNoWinner(t *testing.T) {
	m := newFootballMatch()
	m.ScoreA, m.ScoreB = 1, 1

	events := applyGoalAt(t, m, Action{Name: ActionEndMatch}, time.Now())
	assert.Equal(t, models.StatusCompleted, m.Status)
	assert.Nil(t, m.Winner)
	assert.Equal(t, EventMatchDrawn, events[0].Type)
}

func TestGoal_EndMatchInPenaltiesRequiresDecision(t *testing.T) {
	m := newFootballMatch()
	m.Status = models.StatusPenalties
	m.ScoreA, m.ScoreB = 2, 2
	m.Goal.PenaltiesA, m.Goal.PenaltiesB = 4, 4

	err := goalErr(m, Action{Name: ActionEndMatch})
	assert.ErrorIs(t, err, ErrStateViolation)

	m.Goal.PenaltiesB = 5
	applyGoalAt(t, m, Action{Name: ActionEndMatch}, time.Now())
	require.NotNil(t, m.Winner)
	assert.Equal(t, models.SideB, *m.Winner)
}

func TestGoal_AddedTime(t *testing.T) {
	m := newFootballMatch()

	applyGoalAt(t, m, Action{Name: ActionSetAddedTime, AddedSeconds: 180}, time.Now())
	assert.Equal(t, 180, m.Goal.Clock.AddedSeconds)

	err := goalErr(m, Action{Name: ActionSetAddedTime, AddedSeconds: -5})
	assert.ErrorIs(t, err, ErrInvalidAction)
}
