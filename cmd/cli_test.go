package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsVersion(t *testing.T) {
	t.Setenv("RA_API_BASE_URL", "http://127.0.0.1:1")

	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestLoginRequiresEmailFlag(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", "http://127.0.0.1:1")

	_, _, err := executeCLI(t, home, "login", "--password", "hunter2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"email\" not set")
}

func TestCommandsFailWithoutConfiguredBaseURL(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", "")

	_, _, err := executeCLI(t, home, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api base url is not configured")
}

func TestLoginPersistsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		http.SetCookie(w, &http.Cookie{Name: "rt", Value: "cookie-1", HttpOnly: true})
		_, _ = fmt.Fprint(w, `{"accessToken":"token-1","user":{"id":"u1","name":"Ada","email":"ada@example.com"}}`)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)

	stdout, _, err := executeCLI(t, home, "login", "--email", "ada@example.com", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed in as Ada")

	saved, err := os.ReadFile(filepath.Join(home, ".rank-admin", "session.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "token-1")
	assert.Contains(t, string(saved), "rt=cookie-1")
}

func TestLoginSurfacesRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"message":"invalid credentials"}`)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)

	_, _, err := executeCLI(t, home, "login", "--email", "ada@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestWhoamiRequiresSession(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", "http://127.0.0.1:1")

	_, _, err := executeCLI(t, home, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not signed in")
}

func TestWhoamiRendersProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_, _ = fmt.Fprint(w, `{"id":"u1","name":"Ada","email":"ada@example.com","roles":["ADMIN"],"isActive":true}`)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	stdout, _, err := executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ada@example.com")
	assert.Contains(t, stdout, "ADMIN")
}

func TestWhoamiRecoversFromExpiredToken(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		assert.Equal(t, "rt=cookie-1", r.Header.Get("Cookie"))
		_, _ = fmt.Fprint(w, `{"accessToken":"fresh"}`)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = fmt.Fprint(w, `{"id":"u1","email":"ada@example.com","isActive":true}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)
	require.NoError(t, writeSessionFixture(home, "stale"))

	stdout, _, err := executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ada@example.com")
	assert.Equal(t, int32(1), refreshCalls.Load())

	// The refreshed token is persisted for the next invocation.
	saved, err := os.ReadFile(filepath.Join(home, ".rank-admin", "session.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "fresh")
}

func TestUsersListRendersTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = fmt.Fprint(w, `{"items":[{"id":"u1","name":"Ada","email":"ada@example.com","roles":["ADMIN"],"isActive":true,"emailVerifiedAt":"2026-01-01T00:00:00Z"}],"page":2,"limit":10,"total":11}`)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	stdout, stderr, err := executeCLI(t, home, "users", "list", "--page", "2", "--limit", "10")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ada@example.com")
	assert.Contains(t, stdout, "page 2/2, showing 1 of 11")
	assert.Contains(t, stderr, "Fetching users")
}

func TestUsersListJSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"items":[{"id":"u1","email":"ada@example.com"}],"page":1,"limit":20,"total":1}`)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	stdout, _, err := executeCLI(t, home, "users", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"email\": \"ada@example.com\"")
}

func TestUsersGetMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `{"message":"no such user"}`)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	_, _, err := executeCLI(t, home, "users", "get", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestUsersDeleteRequiresConfirmationFlag(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", "http://127.0.0.1:1")
	require.NoError(t, writeSessionFixture(home, "token-1"))

	_, _, err := executeCLI(t, home, "users", "delete", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestUsersUpdateSendsOnlyChangedFields(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users/u1", r.URL.Path)
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = fmt.Fprint(w, `{"id":"u1","email":"ada@example.com"}`)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	_, _, err := executeCLI(t, home, "users", "update", "u1", "--active=false")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"isActive": false}, body)
}

func TestKpisJSONOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users/kpis", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("windowDays"))
		assert.Equal(t, "wau", r.URL.Query().Get("activeBucket"))
		_, _ = fmt.Fprint(w, `{"totalUsers":100,"newUsers":5,"newUsersChangePct":0.1,"subscribedUsers":20,"subscribedUsersChangePct":0,"activeUsers":60,"activeUsersChangePct":-0.05}`)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	stdout, _, err := executeCLI(t, home, "kpis", "--window-days", "7", "--active-bucket", "wau", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"totalUsers\": 100")
}

func TestKpisRejectsUnknownBucket(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", "http://127.0.0.1:1")
	require.NoError(t, writeSessionFixture(home, "token-1"))

	_, _, err := executeCLI(t, home, "kpis", "--active-bucket", "yearly")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported active bucket")
}

func TestScoreSubmitsToRankAPI(t *testing.T) {
	rankServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/channel-rank", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body["channelId"])
		assert.Equal(t, float64(4), body["score"])

		_, _ = fmt.Fprint(w, `{"channelId":"c1","score":4}`)
	}))
	defer rankServer.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("RA_RANK_BASE_URL", rankServer.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	stdout, _, err := executeCLI(t, home, "score", "c1", "4")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Scored channel c1: 4")
}

func TestScoreRejectsOutOfRangeValue(t *testing.T) {
	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", "http://127.0.0.1:1")
	require.NoError(t, writeSessionFixture(home, "token-1"))

	_, _, err := executeCLI(t, home, "score", "c1", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score must be between 0 and 5")
}

func TestThumbnailsListRendersTable(t *testing.T) {
	rankServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/thumbnails", r.URL.Path)
		assert.Equal(t, "createdAt", r.URL.Query().Get("order"))
		_, _ = fmt.Fprint(w, `{"items":[{"videoId":"vid-1","title":"Knife skills","styleBucket":"minimal","thumbnail_s3_url":"https://cdn.example.com/t.jpg","caption":"close-up"}],"offset":0,"limit":20,"total":1}`)
	}))
	defer rankServer.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("RA_RANK_BASE_URL", rankServer.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	stdout, _, err := executeCLI(t, home, "thumbnails")
	require.NoError(t, err)
	assert.Contains(t, stdout, "vid-1")
	assert.Contains(t, stdout, "Knife skills")
	assert.Contains(t, stdout, "showing 1 of 1")
}

func TestLogoutClearsSavedSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	home := t.TempDir()
	t.Setenv("RA_API_BASE_URL", server.URL)
	require.NoError(t, writeSessionFixture(home, "token-1"))

	stdout, _, err := executeCLI(t, home, "logout")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Signed out")

	_, statErr := os.Stat(filepath.Join(home, ".rank-admin", "session.toml"))
	assert.True(t, os.IsNotExist(statErr))
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSessionFixture(home, accessToken string) error {
	configDir := filepath.Join(home, ".rank-admin")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	session := fmt.Sprintf(`version = 1
access_token = %q
refresh_cookie = "rt=cookie-1"
email = "ada@example.com"
saved_at = 2026-02-01T12:00:00Z
`, accessToken)

	return os.WriteFile(filepath.Join(configDir, "session.toml"), []byte(session), 0o600)
}
