package trilium_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trilium "github.com/trilium-community/trilium.go"
	"github.com/trilium-community/trilium.go/internal/etapitest"
)

func TestLoginWithConfiguredPassword(t *testing.T) {
	server := etapitest.NewServer()
	t.Cleanup(server.Close)

	client, err := trilium.New(trilium.Config{
		ServerURL: server.URL(),
		Password:  etapitest.DefaultPassword,
	})
	require.NoError(t, err)
	assert.Empty(t, client.Token())

	token, err := client.Login(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, etapitest.DefaultToken, token)
	assert.Equal(t, token, client.Token())
	assert.Equal(t, 1, server.Logins())

	// The stored token authenticates subsequent calls.
	require.NoError(t, client.Ping(context.Background()))
}

func TestLoginWithExplicitPassword(t *testing.T) {
	server := etapitest.NewServer()
	t.Cleanup(server.Close)

	client, err := trilium.New(trilium.Config{
		ServerURL: server.URL(),
		Password:  "stale-password",
	})
	require.NoError(t, err)

	token, err := client.Login(context.Background(), etapitest.DefaultPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestLoginWrongPassword(t *testing.T) {
	server := etapitest.NewServer()
	t.Cleanup(server.Close)

	client, err := trilium.New(trilium.Config{
		ServerURL: server.URL(),
		Password:  "nope",
	})
	require.NoError(t, err)

	_, err = client.Login(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, trilium.ErrUnauthorized)

	var apiErr *trilium.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "WRONG_PASSWORD", apiErr.Code)
}

func TestLogout(t *testing.T) {
	client, server := setup(t)

	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, 1, server.Logouts())
	assert.Empty(t, client.Token())

	// Without a token the client is no longer authenticated.
	err := client.Ping(context.Background())
	assert.ErrorIs(t, err, trilium.ErrUnauthorized)
}
