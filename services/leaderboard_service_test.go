package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/realtime"
)

func seedCompleted(t *testing.T, repo *fakeMatchRepo, sport models.SportType, teamA, teamB string, winner *models.TeamSide) {
	t.Helper()
	m := &models.Match{
		Sport:     sport,
		TeamA:     teamA,
		TeamB:     teamB,
		Version:   1,
		Status:    models.StatusCompleted,
		Winner:    winner,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(context.Background(), m))
}

func side(s models.TeamSide) *models.TeamSide { return &s }

func TestLeaderboard_Tally(t *testing.T) {
	repo := newFakeMatchRepo()
	depts := newFakeDeptRepo()
	for _, d := range [][2]string{{"eng", "Engineering"}, {"fin", "Finance"}, {"hr", "HR"}} {
		_, err := depts.LoadOrCreate(context.Background(), d[0], d[1])
		require.NoError(t, err)
	}

	// eng: 2 победы; fin: победа + ничья; hr: ничья + 2 поражения
	seedCompleted(t, repo, models.SportFootball, "eng", "fin", side(models.SideA))
	seedCompleted(t, repo, models.SportChess, "eng", "hr", side(models.SideA))
	seedCompleted(t, repo, models.SportBadminton, "fin", "hr", side(models.SideA))
	seedCompleted(t, repo, models.SportCricket, "fin", "hr", nil)

	svc := NewLeaderboardService(repo, depts, &fakeBroadcaster{})
	board, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 3)

	assert.Equal(t, "eng", board[0].DepartmentID)
	assert.Equal(t, "Engineering", board[0].DepartmentName)
	assert.Equal(t, 2, board[0].Played)
	assert.Equal(t, 2, board[0].Wins)
	assert.Equal(t, 4, board[0].Points)

	assert.Equal(t, "fin", board[1].DepartmentID)
	assert.Equal(t, 3, board[1].Played)
	assert.Equal(t, 1, board[1].Wins)
	assert.Equal(t, 1, board[1].Draws)
	assert.Equal(t, 1, board[1].Losses)
	assert.Equal(t, 3, board[1].Points)

	assert.Equal(t, "hr", board[2].DepartmentID)
	assert.Equal(t, 1, board[2].Draws)
	assert.Equal(t, 2, board[2].Losses)
	assert.Equal(t, 1, board[2].Points)
}

func TestLeaderboard_IgnoresUnfinishedMatches(t *testing.T) {
	repo := newFakeMatchRepo()
	live := &models.Match{
		Sport: models.SportFootball, TeamA: "eng", TeamB: "fin",
		Version: 1, Status: models.StatusLive,
	}
	require.NoError(t, repo.Create(context.Background(), live))

	svc := NewLeaderboardService(repo, newFakeDeptRepo(), &fakeBroadcaster{})
	board, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, board)
}

func TestLeaderboard_TiesBrokenByDepartmentID(t *testing.T) {
	repo := newFakeMatchRepo()
	// обе команды по одной победе друг над другом
	seedCompleted(t, repo, models.SportFootball, "zeta", "alpha", side(models.SideA))
	seedCompleted(t, repo, models.SportChess, "zeta", "alpha", side(models.SideB))

	svc := NewLeaderboardService(repo, newFakeDeptRepo(), &fakeBroadcaster{})
	board, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "alpha", board[0].DepartmentID)
	assert.Equal(t, "zeta", board[1].DepartmentID)
}

func TestRefreshAndBroadcast(t *testing.T) {
	repo := newFakeMatchRepo()
	hub := &fakeBroadcaster{}
	seedCompleted(t, repo, models.SportVolleyball, "eng", "fin", side(models.SideB))

	svc := NewLeaderboardService(repo, newFakeDeptRepo(), hub)
	require.NoError(t, svc.RefreshAndBroadcast(context.Background()))

	msgs := hub.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, realtime.GlobalRoom, msgs[0].Room)
	assert.Equal(t, realtime.MessageLeaderboardUpdated, msgs[0].MsgType)
	board, ok := msgs[0].Payload.([]*models.LeaderboardEntry)
	require.True(t, ok)
	require.Len(t, board, 2)
}
