package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/realtime"
	"github.com/Dosada05/scoreboard-system/repositories"
	"github.com/Dosada05/scoreboard-system/rules"
)

// Broadcaster is the slice of the websocket hub the service needs. Рассылка
// выполняется строго после фиксации в базе и никогда не влияет на результат.
type Broadcaster interface {
	Publish(room string, msgType string, payload interface{})
}

// CreateMatchInput — параметры создания матча. Поля конфигурации вида
// спорта (overs/sets/periods) фиксируются на всё время жизни матча.
type CreateMatchInput struct {
	TeamAID   string `json:"team_a_id"`
	TeamAName string `json:"team_a_name"`
	TeamBID   string `json:"team_b_id"`
	TeamBName string `json:"team_b_name"`

	ScheduledAt time.Time `json:"scheduled_at"`

	TotalOvers int `json:"total_overs,omitempty"` // cricket
	MaxSets    int `json:"max_sets,omitempty"`    // set sports
	MaxPeriods int `json:"max_periods,omitempty"` // goal sports

	// Preset overrides the sport's built-in set thresholds when present.
	Preset *models.ScoringPreset `json:"preset,omitempty"`
}

// MatchUpdatePayload — то, что уходит подписчикам после каждого коммита.
type MatchUpdatePayload struct {
	MatchID string        `json:"match_id"`
	Match   *models.Match `json:"match"`
	Events  []rules.Event `json:"events,omitempty"`
}

type MatchService interface {
	Create(ctx context.Context, sport models.SportType, input CreateMatchInput) (*models.Match, error)
	ApplyUpdate(ctx context.Context, matchID string, act rules.Action, expectedVersion int64) (*models.Match, []rules.Event, error)
	Cancel(ctx context.Context, matchID string) (*models.Match, error)
	GetByID(ctx context.Context, matchID string) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	ListLive(ctx context.Context) ([]*models.Match, error)
}

type matchService struct {
	matchRepo   repositories.MatchRepository
	deptRepo    repositories.DepartmentRepository
	leaderboard LeaderboardService
	hub         Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	deptRepo repositories.DepartmentRepository,
	leaderboard LeaderboardService,
	hub Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:   matchRepo,
		deptRepo:    deptRepo,
		leaderboard: leaderboard,
		hub:         hub,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *matchService) Create(ctx context.Context, sport models.SportType, input CreateMatchInput) (*models.Match, error) {
	if !models.ValidSport(sport) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSport, sport)
	}
	if input.TeamAID == "" || input.TeamBID == "" {
		return nil, ErrTeamsRequired
	}
	if input.TeamAID == input.TeamBID {
		return nil, ErrSameTeams
	}

	// Справочник подразделений пополняется при первом упоминании.
	if _, err := s.deptRepo.LoadOrCreate(ctx, input.TeamAID, input.TeamAName); err != nil {
		return nil, fmt.Errorf("team A: %w", err)
	}
	if _, err := s.deptRepo.LoadOrCreate(ctx, input.TeamBID, input.TeamBName); err != nil {
		return nil, fmt.Errorf("team B: %w", err)
	}

	now := s.now().UTC()
	match := &models.Match{
		Sport:       sport,
		TeamA:       input.TeamAID,
		TeamB:       input.TeamBID,
		Version:     1,
		Status:      models.StatusScheduled,
		ScheduledAt: input.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := initSportState(match, input); err != nil {
		return nil, err
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to create %s match: %w", sport, err)
	}

	s.hub.Publish(realtime.GlobalRoom, realtime.MessageMatchUpdated, MatchUpdatePayload{
		MatchID: match.ID,
		Match:   match,
	})
	return match, nil
}

// initSportState настраивает спорт-специфичную часть документа.
func initSportState(match *models.Match, input CreateMatchInput) error {
	switch match.Sport {
	case models.SportCricket:
		overs := input.TotalOvers
		if overs == 0 {
			overs = 20
		}
		if overs < 0 {
			return ErrInvalidOverCount
		}
		match.Cricket = &models.CricketState{
			BattingSide: models.SideA,
			TotalOvers:  overs,
		}

	case models.SportBadminton, models.SportTableTennis, models.SportVolleyball:
		sets := input.MaxSets
		if sets == 0 {
			sets = 3
		}
		if sets < 1 || sets%2 == 0 {
			return ErrInvalidSetCount
		}
		preset := models.DefaultPreset(match.Sport)
		if input.Preset != nil {
			preset = *input.Preset
		}
		match.Sets = &models.SetState{
			Details: []models.SetDetail{},
			MaxSets: sets,
			Preset:  preset,
		}

	case models.SportFootball, models.SportBasketball, models.SportKabaddi, models.SportKhoKho:
		periods := input.MaxPeriods
		if periods == 0 {
			if match.Sport == models.SportBasketball {
				periods = 4
			} else {
				periods = 2
			}
		}
		match.Goal = &models.GoalState{
			MaxPeriods: periods,
			Clock:      models.MatchClock{State: models.ClockStopped},
		}

	case models.SportChess:
		// бинарный исход, дополнительного состояния нет
	}
	return nil
}

// ApplyUpdate is the single write path for live matches: load, dispatch to
// the sport's rule module, persist with an optimistic version check, then
// broadcast. Правила работают на копии — отклонённое действие гарантированно
// не оставляет следов ни в памяти, ни в базе.
func (s *matchService) ApplyUpdate(ctx context.Context, matchID string, act rules.Action, expectedVersion int64) (*models.Match, []rules.Event, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}

	// Клиент может прислать версию, которую он видел последней; расхождение
	// ловим до применения правил, чтобы не гонять заведомо устаревший ввод.
	if expectedVersion != 0 && expectedVersion != match.Version {
		return nil, nil, ErrConcurrentModification
	}

	engine, ok := rules.ForSport(match.Sport)
	if !ok {
		return nil, nil, fmt.Errorf("no rule module registered for sport %q", match.Sport)
	}

	next := match.Clone()
	events, err := engine.ApplyAction(next, act, s.now())
	if err != nil {
		return nil, nil, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.matchRepo.ReplaceVersioned(ctx, next, match.Version); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchVersionConflict):
			return nil, nil, ErrConcurrentModification
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, nil, ErrMatchNotFound
		}
		return nil, nil, fmt.Errorf("failed to persist match %s: %w", matchID, err)
	}

	s.broadcast(next, events)
	return next, events, nil
}

func (s *matchService) Cancel(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	if match.Status.Terminal() {
		return nil, ErrMatchFinished
	}

	next := match.Clone()
	next.Status = models.StatusCancelled
	next.UpdatedAt = s.now().UTC()

	if err := s.matchRepo.ReplaceVersioned(ctx, next, match.Version); err != nil {
		if errors.Is(err, repositories.ErrMatchVersionConflict) {
			return nil, ErrConcurrentModification
		}
		return nil, fmt.Errorf("failed to cancel match %s: %w", matchID, err)
	}

	s.broadcast(next, nil)
	return next, nil
}

// broadcast публикует состояние после успешного коммита: в комнату матча и
// в глобальную ленту. Завершение матча дополнительно обновляет таблицу.
func (s *matchService) broadcast(match *models.Match, events []rules.Event) {
	payload := MatchUpdatePayload{MatchID: match.ID, Match: match, Events: events}
	s.hub.Publish(realtime.MatchRoom(match.ID), realtime.MessageMatchUpdated, payload)
	s.hub.Publish(realtime.GlobalRoom, realtime.MessageMatchUpdated, payload)

	if match.Status == models.StatusCompleted && s.leaderboard != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.leaderboard.RefreshAndBroadcast(ctx); err != nil {
				s.logger.Error("leaderboard refresh after match completion failed",
					slog.String("match_id", match.ID), slog.Any("error", err))
			}
		}()
	}
}

func (s *matchService) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	return match, nil
}

func (s *matchService) List(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) ListLive(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByStatus(ctx,
		models.StatusLive, models.StatusHalfTime, models.StatusFullTime, models.StatusPenalties)
	if err != nil {
		return nil, fmt.Errorf("failed to list live matches: %w", err)
	}
	return matches, nil
}
