package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-calckeeper/internal/agent/api"
)

func TestClient_Register(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// пустые email и confirm_password не отправляются
		require.Equal(t, map[string]string{"username": "alice", "password": "secret123"}, req)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.RegisterResponse{UserID: "u-1", Username: "alice"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := api.NewClient(srv.URL).Register(api.RegisterRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, "u-1", resp.UserID)
	require.Equal(t, "alice", resp.Username)
}

func TestClient_Register_WithEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice@example.com", req.Email)
		require.Equal(t, "secret123", req.ConfirmPassword)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.RegisterResponse{UserID: "u-1", Username: "alice", Email: req.Email})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := api.NewClient(srv.URL).Register(api.RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", resp.Email)
}

func TestClient_LoginAndRefresh(t *testing.T) {
	exp := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.TokenResponse{Token: "access-1", RefreshToken: "refresh-1", TokenType: "bearer", ExpiresAt: exp})
	})
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req api.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.RefreshToken != "refresh-1" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		json.NewEncoder(w).Encode(api.TokenResponse{Token: "access-2", RefreshToken: "refresh-2", TokenType: "bearer", ExpiresAt: exp})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := api.NewClient(srv.URL)

	login, err := c.Login("alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, "access-1", login.Token)
	require.Equal(t, "refresh-1", login.RefreshToken)
	require.True(t, exp.Equal(login.ExpiresAt))

	refreshed, err := c.Refresh(login.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "access-2", refreshed.Token)

	_, err = c.Refresh("stale")
	require.True(t, api.IsStatus(err, http.StatusUnauthorized))
}

func TestClient_Logout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	require.NoError(t, api.NewClient(srv.URL).Logout("access-1"))
}
