package tests

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
)

func TestClient_PostJSON_SetsHeaders_AndDecodesResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.Equal(t, float64(1), got["a"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := api.NewClient(srv.URL + "/")

	var resp map[string]any
	require.NoError(t, c.PostJSON("/x", map[string]any{"a": 1}, &resp, "token-1"))
	require.Equal(t, true, resp["ok"])
}

func TestClient_PostJSON_NoBody_NoContentType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	var resp map[string]any
	require.NoError(t, api.NewClient(srv.URL).PostJSON("/x", nil, &resp, ""))
	require.Nil(t, resp)
}

func TestClient_Non2xx_ReturnsAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"division by zero"}`))
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream failed\n"))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := api.NewClient(srv.URL)

	err := c.PostJSON("/json", map[string]int{"a": 1}, nil, "")
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "division by zero", apiErr.Message)
	require.True(t, api.IsStatus(err, http.StatusBadRequest))

	_, err = c.GetJSON("/text", nil, "")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "upstream failed", apiErr.Message)

	_, err = c.GetJSON("/empty", nil, "")
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "503 Service Unavailable", apiErr.Message)
	require.False(t, api.IsStatus(err, http.StatusUnauthorized))
}

func TestClient_GetJSON_EmptyBodyIsOK_ReturnsHeaders(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("X-Test", "1")
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	var resp map[string]any
	h, err := api.NewClient(srv.URL).GetJSON("/x", &resp, "t")
	require.NoError(t, err)
	require.Equal(t, "1", h.Get("X-Test"))
}

func TestClient_TLS_RequiresInsecureOptionForSelfSigned(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	// самоподписанный сертификат без флага не принимается
	require.Error(t, api.NewClient(srv.URL).PostJSON("/x", nil, nil, ""))
	require.NoError(t, api.NewClient(srv.URL, api.WithInsecureTLS()).PostJSON("/x", nil, nil, ""))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := api.NewClient(url).GetJSON("/x", nil, "")
	require.Error(t, err)
	var apiErr *api.Error
	require.False(t, errors.As(err, &apiErr))
}
