package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/config"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/models"
)

func loggedIn() *config.Credentials {
	return &config.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"}
}

func TestComputeCmd_PrintsResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calculate", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))

		var req models.CalculateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "divide", req.Operation)
		require.Equal(t, 10.0, *req.A)
		require.Equal(t, 4.0, *req.B)

		json.NewEncoder(w).Encode(models.CalculationRecord{ID: "c-1", Operation: "divide", A: 10, B: 4, Result: 2.5})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := run(cli.NewComputeCmd(newApp(t, srv.URL, loggedIn())), "Divide", "10", "4")
	require.NoError(t, err)
	require.Equal(t, "10 / 4 = 2.5\n", out)
}

func TestComputeCmd_DivisionByZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calculate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"division by zero"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := run(cli.NewComputeCmd(newApp(t, srv.URL, loggedIn())), "divide", "5", "0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "division by zero")
}

func TestComputeCmd_ArgumentErrors(t *testing.T) {
	app := newApp(t, "http://127.0.0.1:1", loggedIn())

	_, err := run(cli.NewComputeCmd(app), "add", "x", "1")
	require.ErrorContains(t, err, "invalid operand a")

	_, err = run(cli.NewComputeCmd(app), "add", "1", "y")
	require.ErrorContains(t, err, "invalid operand b")

	_, err = run(cli.NewComputeCmd(app), "add", "1")
	require.Error(t, err)
}

func TestComputeCmd_NotLoggedIn(t *testing.T) {
	_, err := run(cli.NewComputeCmd(newApp(t, "http://127.0.0.1:1", nil)), "add", "1", "2")
	require.ErrorContains(t, err, "not logged in")
}

func TestComputeCmd_RefreshesExpiredToken(t *testing.T) {
	var calls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/calculate", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer access-2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"token expired"}`))
			return
		}
		json.NewEncoder(w).Encode(models.CalculationRecord{Operation: "add", A: 2, B: 3, Result: 5})
	})
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.TokenResponse{Token: "access-2", RefreshToken: "refresh-2"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, loggedIn())
	out, err := run(cli.NewComputeCmd(app), "add", "2", "3")
	require.NoError(t, err)
	require.Equal(t, "2 + 3 = 5\n", out)
	require.Equal(t, int32(2), calls.Load())

	loaded, err := config.Load(app.CredsPath)
	require.NoError(t, err)
	require.Equal(t, "access-2", loaded.AccessToken)
	require.Equal(t, "refresh-2", loaded.RefreshToken)
}

func TestComputeCmd_RefreshFailsReturnsOriginalError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calculate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	})
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthorized"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	_, err := run(cli.NewComputeCmd(newApp(t, srv.URL, loggedIn())), "add", "2", "3")
	require.ErrorContains(t, err, "token expired")
}

func TestHistoryCmd_ListPrintsTableAndCursor(t *testing.T) {
	created := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Header().Set(models.NextCursorHeader, "cur-1")
		json.NewEncoder(w).Encode([]models.CalculationRecord{
			{ID: "c-2", Operation: "multiply", A: 6, B: 7, Result: 42, CreatedAt: created},
			{ID: "c-1", Operation: "add", A: 2, B: 3, Result: 5, CreatedAt: created.Add(-time.Minute)},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := run(cli.NewHistoryCmd(newApp(t, srv.URL, loggedIn())), "--limit", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	require.Contains(t, lines[0], "OPERATION")
	require.Contains(t, lines[1], "c-2")
	require.Contains(t, lines[1], "42")
	require.Contains(t, lines[2], "c-1")
	require.Contains(t, out, "calc history --cursor cur-1")
}

func TestHistoryCmd_Empty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := run(cli.NewHistoryCmd(newApp(t, srv.URL, loggedIn())))
	require.NoError(t, err)
	require.Equal(t, "history is empty\n", out)
}

func TestHistoryCmd_SingleRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/history/c-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.CalculationRecord{ID: "c-1", Operation: "subtract", A: 5, B: 8, Result: -3})
	})
	mux.HandleFunc("/history/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, loggedIn())

	out, err := run(cli.NewHistoryCmd(app), "c-1")
	require.NoError(t, err)
	require.Contains(t, out, "subtract")
	require.Contains(t, out, "-3")

	_, err = run(cli.NewHistoryCmd(app), "missing")
	require.True(t, api.IsStatus(err, http.StatusNotFound))
}
