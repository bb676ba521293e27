package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/scoreboard-system/models"
	"github.com/Dosada05/scoreboard-system/rules"
	"github.com/Dosada05/scoreboard-system/services"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	stateErr := &rules.StateViolationError{
		Action: rules.ActionRecordBall,
		Status: models.StatusCompleted,
		Reason: "match is over",
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"department not found", services.ErrDepartmentNotFound, http.StatusNotFound},
		{"version conflict", services.ErrConcurrentModification, http.StatusConflict},
		{"cancel finished match", services.ErrMatchFinished, http.StatusConflict},
		{"rule state violation", stateErr, http.StatusUnprocessableEntity},
		{"invalid action payload", fmt.Errorf("%w: runs out of range", rules.ErrInvalidAction), http.StatusBadRequest},
		{"unknown sport", services.ErrUnknownSport, http.StatusBadRequest},
		{"same teams", services.ErrSameTeams, http.StatusBadRequest},
		{"even set count", services.ErrInvalidSetCount, http.StatusBadRequest},
		{"bad credentials", services.ErrAuthInvalidCredentials, http.StatusUnauthorized},
		{"unexpected error", fmt.Errorf("mongo: connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/matches/abc", nil)

			mapServiceErrorToHTTP(rec, req, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestMapServiceErrorToHTTP_ViolationKeepsReason(t *testing.T) {
	err := &rules.StateViolationError{
		Action: rules.ActionEndSet,
		Status: models.StatusLive,
		Reason: "set is not won yet",
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/sports/badminton/matches/abc", nil)
	mapServiceErrorToHTTP(rec, req, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "set is not won yet")
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Action string `json:"action"`
	}

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"recordBall"}`))
		var dst payload
		require.NoError(t, readJSON(httptest.NewRecorder(), req, &dst))
		assert.Equal(t, "recordBall", dst.Action)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"x","bogus":1}`))
		var dst payload
		err := readJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown key")
	})

	t.Run("empty body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var dst payload
		err := readJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not be empty")
	})

	t.Run("trailing value rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"action":"x"}{"action":"y"}`))
		var dst payload
		err := readJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "single JSON value")
	})
}
