package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/realtime"
	"github.com/Dosada05/scoreboard-system/repositories"
)

// Очки сводной таблицы: победа 2, ничья 1.
const (
	winPoints  = 2
	drawPoints = 1
)

var leaderboardSports = []models.SportType{
	models.SportCricket, models.SportFootball, models.SportBasketball,
	models.SportBadminton, models.SportTableTennis, models.SportVolleyball,
	models.SportChess, models.SportKhoKho, models.SportKabaddi,
}

type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error)
	// RefreshAndBroadcast пересчитывает таблицу и публикует её подписчикам
	// глобальной ленты. Вызывается после завершения матча.
	RefreshAndBroadcast(ctx context.Context) error
}

type leaderboardService struct {
	matchRepo repositories.MatchRepository
	deptRepo  repositories.DepartmentRepository
	hub       Broadcaster
}

func NewLeaderboardService(
	matchRepo repositories.MatchRepository,
	deptRepo repositories.DepartmentRepository,
	hub Broadcaster,
) LeaderboardService {
	return &leaderboardService{matchRepo: matchRepo, deptRepo: deptRepo, hub: hub}
}

// Leaderboard агрегирует завершённые матчи по всем видам спорта. Запросы по
// видам спорта идут параллельно: коллекция одна, но курсоры независимы.
func (s *leaderboardService) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	entries := make(map[string]*models.LeaderboardEntry)
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for _, sport := range leaderboardSports {
		sport := sport
		g.Go(func() error {
			matches, err := s.matchRepo.ListCompletedBySport(gCtx, sport)
			if err != nil {
				return fmt.Errorf("leaderboard query for %s: %w", sport, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, m := range matches {
				tally(entries, m)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.fillNames(ctx, entries); err != nil {
		return nil, err
	}

	out := make([]*models.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].DepartmentID < out[j].DepartmentID
	})
	return out, nil
}

func (s *leaderboardService) RefreshAndBroadcast(ctx context.Context) error {
	board, err := s.Leaderboard(ctx)
	if err != nil {
		return err
	}
	s.hub.Publish(realtime.GlobalRoom, realtime.MessageLeaderboardUpdated, board)
	return nil
}

func tally(entries map[string]*models.LeaderboardEntry, m *models.Match) {
	a := entry(entries, m.TeamA)
	b := entry(entries, m.TeamB)
	a.Played++
	b.Played++

	if m.Winner == nil {
		a.Draws++
		b.Draws++
		a.Points += drawPoints
		b.Points += drawPoints
		return
	}
	winner, loser := a, b
	if *m.Winner == models.SideB {
		winner, loser = b, a
	}
	winner.Wins++
	winner.Points += winPoints
	loser.Losses++
}

func entry(entries map[string]*models.LeaderboardEntry, depID string) *models.LeaderboardEntry {
	e, ok := entries[depID]
	if !ok {
		e = &models.LeaderboardEntry{DepartmentID: depID}
		entries[depID] = e
	}
	return e
}

func (s *leaderboardService) fillNames(ctx context.Context, entries map[string]*models.LeaderboardEntry) error {
	deps, err := s.deptRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve department names: %w", err)
	}
	names := make(map[string]string, len(deps))
	for _, d := range deps {
		names[d.ID] = d.Name
	}
	for _, e := range entries {
		e.DepartmentName = names[e.DepartmentID]
	}
	return nil
}
