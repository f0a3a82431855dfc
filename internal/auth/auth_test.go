package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type memStore struct {
	access, refresh string
	expiry          time.Time
	calls           int
	err             error
}

func (m *memStore) UpdateTokens(_ context.Context, access, refresh string, expiry time.Time) error {
	m.calls++
	m.access, m.refresh, m.expiry = access, refresh, expiry
	return m.err
}

func tokenServer(t *testing.T, hits *int32) *oauth2.Config {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-1", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"access-2","refresh_token":"refresh-2","token_type":"Bearer","expires_in":21600,"athlete":{"id":4242}}`)
	}))
	t.Cleanup(srv.Close)

	cfg := NewOAuthConfig("client", "secret", CallbackPort)
	cfg.Endpoint.TokenURL = srv.URL
	return cfg
}

func TestTokenSourceReturnsValidToken(t *testing.T) {
	var hits int32
	cfg := tokenServer(t, &hits)
	store := &memStore{}
	token := &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(time.Hour)}

	ts := NewTokenSource(context.Background(), cfg, token, store)
	got, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.False(t, ts.IsExpired())
	assert.Zero(t, atomic.LoadInt32(&hits))
	assert.Zero(t, store.calls)
}

func TestTokenSourceRefreshesInsideBuffer(t *testing.T) {
	var hits int32
	cfg := tokenServer(t, &hits)
	store := &memStore{}
	// still valid for oauth2, but inside the refresh buffer
	token := &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(30 * time.Second)}

	ts := NewTokenSource(context.Background(), cfg, token, store)
	assert.True(t, ts.IsExpired())

	got, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, "refresh-2", store.refresh)
	assert.Equal(t, int64(4242), ExtractAthleteID(got))

	// the refreshed token is reused
	_, err = ts.Token()
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestTokenSourcePersistFailure(t *testing.T) {
	var hits int32
	cfg := tokenServer(t, &hits)
	store := &memStore{err: errors.New("disk full")}
	token := &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Minute)}

	_, err := NewTokenSource(context.Background(), cfg, token, store).Token()
	assert.ErrorContains(t, err, "disk full")
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode string
		wantErr  string
	}{
		{"success", "state=abc&code=xyz", "xyz", ""},
		{"state mismatch", "state=evil&code=xyz", "", "state mismatch"},
		{"denied", "state=abc&error=access_denied", "", "access_denied"},
		{"missing code", "state=abc", "", "no code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := make(chan string, 1)
			errs := make(chan error, 1)
			h := callbackHandler("abc", codes, errs)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			if tt.wantErr != "" {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				require.Len(t, errs, 1)
				assert.ErrorContains(t, <-errs, tt.wantErr)
				assert.Empty(t, codes)
				return
			}
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, strings.Contains(rec.Body.String(), "Connected"))
			require.Len(t, codes, 1)
			assert.Equal(t, tt.wantCode, <-codes)
		})
	}
}

func TestFlowHonorsContext(t *testing.T) {
	var out strings.Builder
	f := &Flow{Config: NewOAuthConfig("client", "secret", 0), Addr: "127.0.0.1:0", Out: &out}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, out.String(), "client_id=client")
	assert.Contains(t, out.String(), "www.strava.com/oauth/authorize")
}
