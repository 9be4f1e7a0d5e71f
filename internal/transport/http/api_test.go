package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerUser(t *testing.T, ts string, client *http.Client, username string) string {
	t.Helper()

	resp := doJSON(t, client, http.MethodPost, ts+"/api/auth/register", "", RegisterRequest{
		Username: username,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[AuthResponse](t, resp).Token
}

func TestRegisterLoginFlow(t *testing.T) {
	ts, _ := startTestServer(t)
	client := ts.Client()

	token := registerUser(t, ts.URL, client, "alice")
	assert.NotEmpty(t, token)

	// Duplicate username conflicts.
	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/register", "", RegisterRequest{
		Username: "alice",
		Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/login", "", LoginRequest{
		Username: "alice",
		Password: "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, client, http.MethodPost, ts.URL+"/api/auth/login", "", LoginRequest{
		Username: "alice",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGuestFlow(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/auth/guest", "", GuestRequest{DisplayName: "Drifter"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[AuthResponse](t, resp)
	assert.NotEmpty(t, body.Token)
	assert.NotEmpty(t, body.SessionID)
}

func TestInterestsRequireAuth(t *testing.T) {
	ts, _ := startTestServer(t)

	resp := doJSON(t, ts.Client(), http.MethodPut, ts.URL+"/api/profile/interests", "", UpdateInterestsRequest{
		Interests: []string{"go"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInterestsAndDiscovery(t *testing.T) {
	ts, st := startTestServer(t)
	client := ts.Client()
	ctx := context.Background()

	aliceToken := registerUser(t, ts.URL, client, "alice")
	bobToken := registerUser(t, ts.URL, client, "bob")
	carolToken := registerUser(t, ts.URL, client, "carol")

	set := func(token string, tags ...string) {
		resp := doJSON(t, client, http.MethodPut, ts.URL+"/api/profile/interests", token, UpdateInterestsRequest{Interests: tags})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	set(aliceToken, "Go", "music", " chess ")
	set(bobToken, "go", "music")
	set(carolToken, "knitting")

	// Discovery only sees online users; flip everyone online directly.
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, st.SetOnline(ctx, id, true))
	}

	resp := doJSON(t, client, http.MethodGet, ts.URL+"/api/matches", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	matches := decode[[]MatchResponse](t, resp)
	require.Len(t, matches, 2)
	// bob shares two normalized tags, carol none.
	assert.Equal(t, "bob", matches[0].Username)
	assert.Equal(t, 2, matches[0].Score)
	assert.Equal(t, "carol", matches[1].Username)
	assert.Equal(t, 0, matches[1].Score)

	resp = doJSON(t, client, http.MethodGet, ts.URL+"/api/matches/random", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	picked := decode[MatchResponse](t, resp)
	assert.NotEqual(t, "alice", picked.Username)
}

func TestRandomPickWithNobodyOnline(t *testing.T) {
	ts, _ := startTestServer(t)
	client := ts.Client()

	token := registerUser(t, ts.URL, client, "alone")

	resp := doJSON(t, client, http.MethodGet, ts.URL+"/api/matches/random", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
