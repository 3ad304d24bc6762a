package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/shared/models"
)

func TestClient_Calculate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calculate", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req models.CalculateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "add", req.Operation)
		require.NotNil(t, req.A)
		require.NotNil(t, req.B)
		// ноль должен уходить явно, а не пропадать
		require.Equal(t, 0.0, *req.B)

		json.NewEncoder(w).Encode(models.CalculationRecord{ID: "c-1", Operation: "add", A: 2, B: 0, Result: 2})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	rec, err := api.NewClient(srv.URL).Calculate("tok", "add", 2, 0)
	require.NoError(t, err)
	require.Equal(t, "c-1", rec.ID)
	require.Equal(t, models.Number(2), rec.Result)
}

func TestClient_History_PassesQueryAndReadsCursor(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		require.Equal(t, "abc", r.URL.Query().Get("cursor"))

		w.Header().Set(models.NextCursorHeader, "next-1")
		json.NewEncoder(w).Encode([]models.CalculationRecord{{ID: "c-2"}, {ID: "c-1"}})
	})
	mux.HandleFunc("/history/c-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.CalculationRecord{ID: "c-1", Operation: "divide", A: 1, B: 4, Result: 0.25})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := api.NewClient(srv.URL)

	items, next, err := c.History("tok", 5, "abc")
	require.NoError(t, err)
	require.Equal(t, "next-1", next)
	require.Len(t, items, 2)
	require.Equal(t, "c-2", items[0].ID)

	one, err := c.GetCalculation("tok", "c-1")
	require.NoError(t, err)
	require.Equal(t, models.Number(0.25), one.Result)
}

func TestClient_History_NoQueryWhenDefaults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`[]`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	items, next, err := api.NewClient(srv.URL).History("tok", 0, "")
	require.NoError(t, err)
	require.Empty(t, items)
	require.Empty(t, next)
}
