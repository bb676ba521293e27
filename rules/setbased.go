package rules

import (
	"fmt"
	"time"

	"github.com/Dosada05/scoreboard-system/models"
)

// setEngine обслуживает бадминтон, настольный теннис и волейбол. Пороги
// (WinThreshold/MinMargin/HardCap) берутся из пресета матча, а не из кода.
type setEngine struct{}

func (setEngine) ApplyAction(m *models.Match, act Action, now time.Time) ([]Event, error) {
	s := m.Sets
	if s == nil {
		return nil, invalid("match has no set state")
	}

	switch act.Name {
	case ActionStartMatch:
		if err := startMatch(m, act); err != nil {
			return nil, err
		}
		if !s.CurrentServer.Valid() {
			s.CurrentServer = models.SideA
		}
		return []Event{{Type: EventMatchStarted}}, nil

	case ActionStartSet:
		if m.Status != models.StatusLive {
			return nil, violation(act, m, "match is not live")
		}
		if s.Open() {
			return nil, violation(act, m, fmt.Sprintf("set %d is still open", s.CurrentSet))
		}
		next := len(s.Details) + 1
		if act.SetNumber != 0 && act.SetNumber != next {
			return nil, violation(act, m, fmt.Sprintf("expected set %d, got %d", next, act.SetNumber))
		}
		if next > s.MaxSets {
			return nil, violation(act, m, "all sets have been played")
		}
		s.CurrentSet = next
		s.PointsA, s.PointsB = 0, 0
		return []Event{{Type: EventSetStarted, Detail: fmt.Sprintf("set %d", next)}}, nil

	case ActionUpdateSetPoints:
		if m.Status != models.StatusLive {
			return nil, violation(act, m, "match is not live")
		}
		if !s.Open() {
			return nil, violation(act, m, "no set is open")
		}
		if !act.Side.Valid() {
			return nil, invalid("team must be A or B")
		}
		if act.Delta == 0 {
			return nil, invalid("delta must not be zero")
		}
		pts := s.Points(act.Side)
		if *pts+act.Delta < 0 {
			return nil, violation(act, m, "points cannot go below zero")
		}
		*pts += act.Delta
		if act.Delta > 0 {
			// rally winner serves next
			s.CurrentServer = act.Side
		}
		return nil, nil

	case ActionToggleServer:
		if m.Status != models.StatusLive {
			return nil, violation(act, m, "match is not live")
		}
		s.CurrentServer = s.CurrentServer.Opponent()
		return nil, nil

	case ActionEndSet:
		return endSet(m, act)
	}

	return nil, invalid("unknown set action %q", act.Name)
}

func endSet(m *models.Match, act Action) ([]Event, error) {
	s := m.Sets
	if m.Status != models.StatusLive {
		return nil, violation(act, m, "match is not live")
	}
	if !s.Open() {
		return nil, violation(act, m, "no set is open")
	}
	if !act.Side.Valid() {
		return nil, invalid("team must be A or B")
	}

	wp := *s.Points(act.Side)
	lp := *s.Points(act.Side.Opponent())
	if !setWon(s.Preset, wp, lp) {
		return nil, violation(act, m,
			fmt.Sprintf("set win conditions not met for team %s at %d:%d", act.Side, wp, lp))
	}

	s.Details = append(s.Details, models.SetDetail{PointsA: s.PointsA, PointsB: s.PointsB})
	*m.Score(act.Side)++
	s.CurrentSet = 0
	s.PointsA, s.PointsB = 0, 0

	events := []Event{{Type: EventSetWon, Side: act.Side, Detail: fmt.Sprintf("%d:%d", wp, lp)}}
	if *m.Score(act.Side) >= s.SetsToWin() {
		winner := act.Side
		events = append(events, complete(m, &winner))
	}
	return events, nil
}

// setWon применяет политику deuce/cap: порог и отрыв, либо жёсткий потолок.
func setWon(p models.ScoringPreset, winnerPts, loserPts int) bool {
	if p.HardCap > 0 && winnerPts >= p.HardCap {
		return true
	}
	return winnerPts >= p.WinThreshold && winnerPts-loserPts >= p.MinMargin
}
