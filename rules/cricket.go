package rules

import (
	"time"

	"github.com/Dosada05/scoreboard-system/models"
)

// cricketEngine реализует правила крикета: два иннингса, totalOvers оверов
// по 6 легальных мячей, 10 калиток закрывают иннингс, во втором иннингсе
// матч заканчивается сразу при достижении цели.
type cricketEngine struct{}

const wicketsPerInnings = 10

func (cricketEngine) ApplyAction(m *models.Match, act Action, now time.Time) ([]Event, error) {
	c := m.Cricket
	if c == nil {
		return nil, invalid("match has no cricket state")
	}

	switch act.Name {
	case ActionStartMatch:
		if err := startMatch(m, act); err != nil {
			return nil, err
		}
		c.CurrentInnings = 1
		c.InningsClosed = false
		if act.Side.Valid() {
			c.BattingSide = act.Side
		} else if !c.BattingSide.Valid() {
			c.BattingSide = models.SideA
		}
		return []Event{{Type: EventMatchStarted}}, nil

	case ActionRecordBall:
		return recordBall(m, act)

	case ActionEndOver:
		if err := requireOpenInnings(m, act); err != nil {
			return nil, err
		}
		sc := c.Score(c.BattingSide)
		if sc.Balls == 0 {
			return nil, violation(act, m, "no balls bowled in the current over")
		}
		sc.Overs++
		sc.Balls = 0
		events := []Event{{Type: EventOverCompleted, Side: c.BattingSide}}
		return append(events, checkInningsEnd(m)...), nil

	case ActionEndInnings:
		// Explicit close: either a declaration mid-innings or moving on
		// after an automatic close.
		if m.Status != models.StatusLive {
			return nil, violation(act, m, "match is not live")
		}
		if c.CurrentInnings == 1 {
			return openSecondInnings(m), nil
		}
		return []Event{decideByRuns(m)}, nil

	case ActionDeclareResult:
		if m.Status != models.StatusLive {
			return nil, violation(act, m, "match is not live")
		}
		return []Event{decideByRuns(m)}, nil
	}

	return nil, invalid("unknown cricket action %q", act.Name)
}

func recordBall(m *models.Match, act Action) ([]Event, error) {
	if err := requireOpenInnings(m, act); err != nil {
		return nil, err
	}
	c := m.Cricket
	sc := c.Score(c.BattingSide)

	if act.Runs < 0 {
		return nil, invalid("runs must not be negative")
	}

	runs := act.Runs
	legal := true
	switch act.Extra {
	case "":
	case "bye", "leg_bye":
		// считаются как легальный мяч, раны идут в экстры
	case "wide", "no_ball":
		runs++ // штрафной ран, мяч переигрывается
		legal = false
	default:
		return nil, invalid("unknown extra type %q", act.Extra)
	}

	sc.Runs += runs

	var events []Event
	if act.Wicket {
		sc.Wickets++
		events = append(events, Event{Type: EventWicket, Side: c.BattingSide})
	}
	if legal {
		sc.Balls++
		if sc.Balls == 6 {
			sc.Overs++
			sc.Balls = 0
			events = append(events, Event{Type: EventOverCompleted, Side: c.BattingSide})
		}
	}

	// Во втором иннингсе цель закрывает матч немедленно.
	if c.CurrentInnings == 2 && c.Target != nil && sc.Runs >= *c.Target {
		winner := c.BattingSide
		return append(events, complete(m, &winner)), nil
	}

	return append(events, checkInningsEnd(m)...), nil
}

func requireOpenInnings(m *models.Match, act Action) error {
	if m.Status != models.StatusLive {
		return violation(act, m, "match is not live")
	}
	if m.Cricket.InningsClosed {
		return violation(act, m, "innings is closed")
	}
	return nil
}

// checkInningsEnd auto-closes the innings at 10 wickets or at the overs
// limit. The second innings closing this way also decides the match.
func checkInningsEnd(m *models.Match) []Event {
	c := m.Cricket
	sc := c.Score(c.BattingSide)
	if sc.Wickets < wicketsPerInnings && sc.Overs < c.TotalOvers {
		return nil
	}
	if c.CurrentInnings == 2 {
		return []Event{decideByRuns(m)}
	}
	c.InningsClosed = true
	return []Event{{Type: EventInningsClosed, Side: c.BattingSide}}
}

// openSecondInnings фиксирует цель и меняет отбивающую сторону.
func openSecondInnings(m *models.Match) []Event {
	c := m.Cricket
	target := c.Score(c.BattingSide).Runs + 1
	c.Target = &target
	c.BattingSide = c.BattingSide.Opponent()
	c.CurrentInnings = 2
	c.InningsClosed = false
	return []Event{{Type: EventInningsClosed, Side: c.BattingSide.Opponent()}}
}

// decideByRuns completes the match comparing total runs. Equal totals tie.
func decideByRuns(m *models.Match) Event {
	c := m.Cricket
	switch {
	case c.A.Runs > c.B.Runs:
		w := models.SideA
		return complete(m, &w)
	case c.B.Runs > c.A.Runs:
		w := models.SideB
		return complete(m, &w)
	default:
		return complete(m, nil)
	}
}
