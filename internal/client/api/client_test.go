package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/passgen"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/metrics"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passvault/internal/server/rest"
	"github.com/dmitrijs2005/passvault/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLiveServer runs the real REST stack over in-memory repositories.
func newLiveServer(t *testing.T) *httptest.Server {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		SecretKey: []byte("client-test-key"), Issuer: "passvault", Audience: "passvault-clients", Validity: time.Hour,
	})
	require.NoError(t, err)
	protector, err := cryptox.NewProtector([]byte("client-protection-key"), cryptox.SecretMaskingPurpose)
	require.NoError(t, err)

	repos := repomanager.NewMemoryRepositoryManager()
	m := metrics.New()
	authSvc := services.NewAuthService(repos.Accounts(), cryptox.NewHasher(cryptox.MinIterations), tokens, logging.Nop{}, m)
	vaultSvc := services.NewVaultService(repos.Secrets(), protector, passgen.NewGenerator(), logging.Nop{})

	srv := httptest.NewServer(rest.NewServer("", logging.Nop{}, authSvc, vaultSvc, tokens, m, m.Handler()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(url, nil, 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestClient_FullFlow(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, newLiveServer(t).URL)

	acc, err := c.Register(ctx, "alice", "s3cret!", true)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.True(t, acc.RequireSecondaryAuth)

	_, err = c.Register(ctx, "ALICE", "other", false)
	assert.ErrorIs(t, err, common.ErrorConflict)

	_, err = c.Login(ctx, "alice", "s3cret!", false)
	assert.ErrorIs(t, err, common.ErrorPreconditionRequired)

	_, err = c.Login(ctx, "alice", "wrong", true)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	res, err := c.Login(ctx, "alice", "s3cret!", true)
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	c.SetToken(res.Token)

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	created, err := c.Create(ctx, NewSecret{Description: "mail", Username: "alice@example.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "pw1", created.Secret)
	assert.NotEmpty(t, created.ID)

	generated, err := c.Create(ctx, NewSecret{Description: "bank", Username: "alice"})
	require.NoError(t, err)
	assert.Len(t, generated.Secret, passgen.DefaultLength)

	items, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, c.Delete(ctx, created.ID))
	assert.ErrorIs(t, c.Delete(ctx, created.ID), common.ErrorNotFound)
	assert.ErrorIs(t, c.Delete(ctx, "not-a-uuid"), common.ErrorNotFound)

	_, err = c.Create(ctx, NewSecret{Username: "x"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	pw, err := c.Generate(ctx, GenerateOptions{})
	require.NoError(t, err)
	assert.Len(t, pw, passgen.DefaultLength)

	length, no := 8, false
	pw, err = c.Generate(ctx, GenerateOptions{Length: &length, IncludeUppercase: &no, IncludeLowercase: &no, IncludeSymbols: &no})
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{8}$`, pw)

	_, err = c.Generate(ctx, GenerateOptions{IncludeUppercase: &no, IncludeLowercase: &no, IncludeNumbers: &no, IncludeSymbols: &no})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestClient_VaultCallsNeedToken(t *testing.T) {
	c := newTestClient(t, newLiveServer(t).URL)

	_, err := c.List(context.Background())
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	c.SetToken("garbage")
	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestErrorFromResponse_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, common.ErrorValidation},
		{http.StatusUnauthorized, common.ErrorUnauthorized},
		{http.StatusNotFound, common.ErrorNotFound},
		{http.StatusConflict, common.ErrorConflict},
		{http.StatusPreconditionRequired, common.ErrorPreconditionRequired},
		{http.StatusInternalServerError, common.ErrorInternal},
		{http.StatusTeapot, common.ErrorInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL)
			_, err := c.Login(context.Background(), "u", "p", false)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorFromResponse_KeepsServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "validation error: username is required"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Register(context.Background(), "", "p", false)
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "validation error: username is required", err.Error())
}

func TestClient_SendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(common.AuthorizationHeaderName)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	c.SetToken("tok")
	require.NoError(t, c.Delete(context.Background(), "abc"))
	assert.Equal(t, "Bearer tok", got)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.Login(context.Background(), "u", "p", false)
	assert.True(t, errors.Is(err, ErrUnavailable), err)
}

func TestClient_BadJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Login(context.Background(), "u", "p", false)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestNewClient_RejectsBadURLs(t *testing.T) {
	for _, u := range []string{"", "ftp://host", "http://", "://bad"} {
		_, err := NewClient(u, nil, time.Second)
		assert.Error(t, err, u)
	}

	c, err := NewClient("http://localhost:8080/", nil, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL.String())
}
