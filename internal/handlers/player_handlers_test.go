package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riddlebox/riddle-api/internal/apperr"
	authmw "github.com/riddlebox/riddle-api/internal/middleware/auth"
	"github.com/riddlebox/riddle-api/internal/models"
	"github.com/riddlebox/riddle-api/internal/repo"
	"github.com/riddlebox/riddle-api/internal/service"
)

func (env *testEnv) registerPlayer(t *testing.T, username string) *models.User {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/players", map[string]string{"username": username})
	require.NoError(t, env.Player.CreatePlayer(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var player models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &player))
	return &player
}

func (env *testEnv) submitScore(t *testing.T, user *models.User, riddleID uint, timeToSolve int64) {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/players/submit-score", map[string]any{
		"riddle_id":     riddleID,
		"time_to_solve": timeToSolve,
	})
	c.Set(authmw.ContextUserKey, user)
	require.NoError(t, env.Player.SubmitScore(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreatePlayerHandler(t *testing.T) {
	env := newTestEnv(t)

	env.registerPlayer(t, "player_one")

	_, cDup := env.doJSONRequest(http.MethodPost, "/players", map[string]string{"username": "player_one"})
	err := env.Player.CreatePlayer(cDup)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestSubmitScoreBestTimeExample(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerPlayer(t, "alice_01")

	env.submitScore(t, alice, 1, 5000)
	env.submitScore(t, alice, 1, 3000)
	env.submitScore(t, alice, 1, 9000)

	rec, c := env.doJSONRequest(http.MethodGet, "/players/alice_01", nil)
	c.SetParamNames("username")
	c.SetParamValues("alice_01")
	require.NoError(t, env.Player.GetPlayer(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp service.PlayerStatsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(3000), resp.Player.BestTime)
	require.Equal(t, int64(3), resp.Stats.TotalSolved)
}

func TestSubmitScoreWithoutUser(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/players/submit-score", map[string]any{
		"riddle_id":     1,
		"time_to_solve": 1000,
	})
	err := env.Player.SubmitScore(c)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLeaderboardHandler(t *testing.T) {
	env := newTestEnv(t)

	fast := env.registerPlayer(t, "fast_player")
	slow := env.registerPlayer(t, "slow_player")
	env.registerPlayer(t, "never_played")

	env.submitScore(t, slow, 1, 9000)
	env.submitScore(t, fast, 1, 2000)

	rec, c := env.doJSONRequest(http.MethodGet, "/players/leaderboard", nil)
	require.NoError(t, env.Player.Leaderboard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []repo.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	require.Equal(t, "fast_player", entries[0].Username)
	require.Equal(t, "slow_player", entries[1].Username)
}

func TestGetPlayerNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/players/nobody", nil)
	c.SetParamNames("username")
	c.SetParamValues("nobody")

	err := env.Player.GetPlayer(c)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
