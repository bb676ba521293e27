package rules

import (
	"fmt"
	"time"

	"github.com/Dosada05/scoreboard-system/models"
)

// goalEngine обслуживает футбол, баскетбол, кабадди и кхо-кхо: простые
// целочисленные счёта, периоды и таймер, привязанный к настенным часам.
type goalEngine struct{}

func (goalEngine) ApplyAction(m *models.Match, act Action, now time.Time) ([]Event, error) {
	g := m.Goal
	if g == nil {
		return nil, invalid("match has no period/timer state")
	}

	switch act.Name {
	case ActionStartMatch:
		if err := startMatch(m, act); err != nil {
			return nil, err
		}
		g.Period = 1
		g.Clock = models.MatchClock{State: models.ClockStopped}
		return []Event{{Type: EventMatchStarted}}, nil

	case ActionRecordScore:
		return recordScore(m, act, now)

	case ActionRecordFoul:
		if m.Status != models.StatusLive {
			return nil, violation(act, m, "match is not live")
		}
		if !act.Side.Valid() {
			return nil, invalid("team must be A or B")
		}
		if act.CardType == "" {
			return nil, invalid("card_type is required")
		}
		// append-only: повторная красная тому же игроку — ещё одна запись
		m.Cards = append(m.Cards, models.CardEvent{
			Side:       act.Side,
			CardType:   act.CardType,
			PlayerName: act.PlayerName,
			RecordedAt: now,
		})
		return []Event{{Type: EventCard, Side: act.Side, Detail: act.CardType}}, nil

	case ActionAdvancePeriod:
		return advancePeriod(m, act, now)

	case ActionEndMatch:
		return endGoalMatch(m, act)

	case ActionStartTimer:
		if m.Status != models.StatusLive {
			return nil, violation(act, m, "match is not live")
		}
		if g.Clock.State == models.ClockRunning {
			return nil, violation(act, m, "timer is already running")
		}
		t := now
		g.Clock.State = models.ClockRunning
		g.Clock.StartedAt = &t
		return nil, nil

	case ActionPauseTimer:
		if g.Clock.State != models.ClockRunning {
			return nil, violation(act, m, "timer is not running")
		}
		freezeClock(&g.Clock, now, models.ClockPaused)
		return nil, nil

	case ActionStopTimer:
		if g.Clock.State == models.ClockStopped {
			return nil, violation(act, m, "timer is already stopped")
		}
		freezeClock(&g.Clock, now, models.ClockStopped)
		return nil, nil

	case ActionSetAddedTime:
		if m.Status != models.StatusLive {
			return nil, violation(act, m, "match is not live")
		}
		if act.AddedSeconds < 0 {
			return nil, invalid("added_seconds must not be negative")
		}
		g.Clock.AddedSeconds = act.AddedSeconds
		return nil, nil
	}

	return nil, invalid("unknown goal action %q", act.Name)
}

func recordScore(m *models.Match, act Action, now time.Time) ([]Event, error) {
	g := m.Goal
	if m.Status != models.StatusLive && m.Status != models.StatusPenalties {
		return nil, violation(act, m, "match is not live")
	}
	if !act.Side.Valid() {
		return nil, invalid("team must be A or B")
	}
	if act.Points <= 0 {
		return nil, invalid("points must be positive")
	}

	if m.Status == models.StatusPenalties {
		if act.Side == models.SideA {
			g.PenaltiesA += act.Points
		} else {
			g.PenaltiesB += act.Points
		}
		return []Event{{Type: EventScore, Side: act.Side, Detail: "penalty"}}, nil
	}

	*m.Score(act.Side) += act.Points
	m.Scorers = append(m.Scorers, models.ScorerEvent{
		Side:       act.Side,
		Points:     act.Points,
		PlayerName: act.PlayerName,
		EventTime:  act.EventTime,
		RecordedAt: now,
	})
	return []Event{{Type: EventScore, Side: act.Side}}, nil
}

// advancePeriod двигает матч по пути LIVE -> HALF_TIME -> LIVE -> FULL_TIME
// (-> PENALTIES при равном счёте). Часы замораживаются на каждой остановке.
func advancePeriod(m *models.Match, act Action, now time.Time) ([]Event, error) {
	g := m.Goal
	switch m.Status {
	case models.StatusLive:
		if g.Clock.State == models.ClockRunning {
			freezeClock(&g.Clock, now, models.ClockPaused)
		}
		if g.Period >= g.MaxPeriods {
			m.Status = models.StatusFullTime
			return []Event{{Type: EventFullTime}}, nil
		}
		if g.MaxPeriods%2 == 0 && g.Period == g.MaxPeriods/2 {
			m.Status = models.StatusHalfTime
			return []Event{{Type: EventHalfTime}}, nil
		}
		g.Period++
		return []Event{{Type: EventPeriodAdvanced, Detail: fmt.Sprintf("period %d", g.Period)}}, nil

	case models.StatusHalfTime:
		m.Status = models.StatusLive
		g.Period++
		g.Clock.AddedSeconds = 0
		return []Event{{Type: EventPeriodAdvanced, Detail: fmt.Sprintf("period %d", g.Period)}}, nil

	case models.StatusFullTime:
		if m.ScoreA != m.ScoreB {
			return nil, violation(act, m, "scores are not level, end the match instead")
		}
		m.Status = models.StatusPenalties
		return []Event{{Type: EventPenaltiesStarted}}, nil
	}
	return nil, violation(act, m, "no further period to advance to")
}

func endGoalMatch(m *models.Match, act Action) ([]Event, error) {
	g := m.Goal
	switch m.Status {
	case models.StatusLive, models.StatusFullTime:
		switch {
		case m.ScoreA > m.ScoreB:
			w := models.SideA
			return []Event{complete(m, &w)}, nil
		case m.ScoreB > m.ScoreA:
			w := models.SideB
			return []Event{complete(m, &w)}, nil
		default:
			return []Event{complete(m, nil)}, nil
		}
	case models.StatusPenalties:
		switch {
		case g.PenaltiesA > g.PenaltiesB:
			w := models.SideA
			return []Event{complete(m, &w)}, nil
		case g.PenaltiesB > g.PenaltiesA:
			w := models.SideB
			return []Event{complete(m, &w)}, nil
		default:
			return nil, violation(act, m, "penalty shootout is not decided")
		}
	}
	return nil, violation(act, m, "match is not in progress")
}

func freezeClock(c *models.MatchClock, now time.Time, state models.ClockState) {
	c.ElapsedSeconds = c.Elapsed(now)
	c.StartedAt = nil
	c.State = state
}
