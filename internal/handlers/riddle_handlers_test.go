package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riddlebox/riddle-api/internal/apperr"
	"github.com/riddlebox/riddle-api/internal/models"
	"github.com/riddlebox/riddle-api/internal/repo"
)

func newRiddleHandler(t *testing.T) (*RiddleHandler, *testEnv) {
	env := newTestEnv(t)
	return &RiddleHandler{Repo: env.Repo, Index: "riddles"}, env
}

func TestCreateAndListRiddles(t *testing.T) {
	h, env := newRiddleHandler(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/riddles", map[string]string{
		"question":   "What has keys but no locks?",
		"answer":     "a piano",
		"difficulty": "easy",
	})
	require.NoError(t, h.CreateRiddle(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Riddle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.Equal(t, "easy", created.Difficulty)

	// The answer must never appear in responses.
	require.NotContains(t, rec.Body.String(), "a piano")

	recList, cList := env.doJSONRequest(http.MethodGet, "/riddles", nil)
	require.NoError(t, h.ListRiddles(cList))
	require.Equal(t, http.StatusOK, recList.Code)

	var riddles []models.Riddle
	require.NoError(t, json.Unmarshal(recList.Body.Bytes(), &riddles))
	require.Len(t, riddles, 1)
}

func TestCreateRiddleValidation(t *testing.T) {
	h, env := newRiddleHandler(t)

	_, c := env.doJSONRequest(http.MethodPost, "/riddles", map[string]string{"question": "no answer"})
	err := h.CreateRiddle(c)
	require.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestPatchRiddle(t *testing.T) {
	h, env := newRiddleHandler(t)

	riddle := &models.Riddle{Question: "old question", Answer: "old answer", Difficulty: "easy"}
	require.NoError(t, env.Repo.CreateRiddle(context.Background(), riddle))

	rec, c := env.doJSONRequest(http.MethodPatch, "/riddles/1", map[string]string{"question": "new question"})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.PatchRiddle(c))
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := env.Repo.GetRiddle(context.Background(), riddle.ID)
	require.NoError(t, err)
	require.Equal(t, "new question", updated.Question)
	require.Equal(t, "old answer", updated.Answer)
	require.Equal(t, "easy", updated.Difficulty)
}

func TestPatchRiddleNotFound(t *testing.T) {
	h, env := newRiddleHandler(t)

	_, c := env.doJSONRequest(http.MethodPatch, "/riddles/99", map[string]string{"question": "x"})
	c.SetParamNames("id")
	c.SetParamValues("99")
	err := h.PatchRiddle(c)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteRiddle(t *testing.T) {
	h, env := newRiddleHandler(t)

	riddle := &models.Riddle{Question: "q", Answer: "a"}
	require.NoError(t, env.Repo.CreateRiddle(context.Background(), riddle))

	rec, c := env.doJSONRequest(http.MethodDelete, "/riddles/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.DeleteRiddle(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err := env.Repo.GetRiddle(context.Background(), riddle.ID)
	require.ErrorIs(t, err, repo.ErrRiddleNotFound)
}
