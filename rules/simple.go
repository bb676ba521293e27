package rules

import (
	"time"

	"github.com/Dosada05/scoreboard-system/models"
)

// simpleEngine — шахматы и прочие виды с бинарным исходом: единственный
// переход SCHEDULED/LIVE -> COMPLETED по объявлению результата.
type simpleEngine struct{}

func (simpleEngine) ApplyAction(m *models.Match, act Action, now time.Time) ([]Event, error) {
	switch act.Name {
	case ActionStartMatch:
		if err := startMatch(m, act); err != nil {
			return nil, err
		}
		return []Event{{Type: EventMatchStarted}}, nil

	case ActionDeclareWinner:
		if m.Status != models.StatusScheduled && m.Status != models.StatusLive {
			return nil, violation(act, m, "result already declared")
		}
		switch act.ResultType {
		case models.ResultCheckmate, models.ResultResignation, models.ResultTimeout:
			if !act.Side.Valid() {
				return nil, invalid("team must be A or B for result %q", act.ResultType)
			}
			m.ResultType = act.ResultType
			*m.Score(act.Side) = 1
			winner := act.Side
			return []Event{complete(m, &winner)}, nil
		case models.ResultDraw:
			m.ResultType = act.ResultType
			return []Event{complete(m, nil)}, nil
		}
		return nil, invalid("unknown result type %q", act.ResultType)
	}

	return nil, invalid("unknown action %q for this sport", act.Name)
}
