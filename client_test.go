package trilium_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trilium "github.com/trilium-community/trilium.go"
	"github.com/trilium-community/trilium.go/internal/etapitest"
)

// setup starts an in-memory ETAPI server and returns a client wired to it.
func setup(t *testing.T) (*trilium.Client, *etapitest.Server) {
	t.Helper()

	server := etapitest.NewServer()
	t.Cleanup(server.Close)

	client, err := trilium.New(trilium.Config{
		ServerURL: server.URL(),
		Token:     etapitest.DefaultToken,
	})
	require.NoError(t, err)

	return client, server
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     trilium.Config
		wantErr string
	}{
		{
			name:    "missing server URL",
			cfg:     trilium.Config{Token: "secret"},
			wantErr: "server URL is not set",
		},
		{
			name:    "missing credential",
			cfg:     trilium.Config{ServerURL: "http://localhost:8080"},
			wantErr: "either a token or a password must be set",
		},
		{
			name:    "negative timeout",
			cfg:     trilium.Config{ServerURL: "http://localhost:8080", Token: "secret", Timeout: -time.Second},
			wantErr: "must be no less than 0",
		},
		{
			name: "token only",
			cfg:  trilium.Config{ServerURL: "http://localhost:8080", Token: "secret"},
		},
		{
			name: "password only",
			cfg:  trilium.Config{ServerURL: "http://localhost:8080", Password: "hunter2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trilium.New(tt.cfg)

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewMissingCredentialSentinel(t *testing.T) {
	_, err := trilium.New(trilium.Config{ServerURL: "http://localhost:8080"})
	assert.ErrorIs(t, err, trilium.ErrNoCredential)
}

func TestTokenFromConfig(t *testing.T) {
	client, err := trilium.New(trilium.Config{
		ServerURL: "http://localhost:8080",
		Token:     "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "secret", client.Token())
}

func TestPing(t *testing.T) {
	client, _ := setup(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestPingRejectedToken(t *testing.T) {
	server := etapitest.NewServer()
	t.Cleanup(server.Close)

	client, err := trilium.New(trilium.Config{
		ServerURL: server.URL(),
		Token:     "wrong-token",
	})
	require.NoError(t, err)

	err = client.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, trilium.ErrUnauthorized)
}

func TestAPIErrorFields(t *testing.T) {
	client, _ := setup(t)

	_, err := client.GetNote(context.Background(), "nope00000000")
	require.Error(t, err)

	var apiErr *trilium.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOTE_NOT_FOUND", apiErr.Code)
	assert.Contains(t, apiErr.Message, "nope00000000")

	assert.ErrorIs(t, err, trilium.ErrNotFound)
	assert.NotErrorIs(t, err, trilium.ErrUnauthorized)
}

func TestRequestRawRoundTrip(t *testing.T) {
	client, _ := setup(t)

	raw, err := client.Request(context.Background(), http.MethodPost, "/create-note", trilium.CreateNoteParams{
		ParentNoteID: "root",
		Title:        "Raw note",
		Type:         trilium.NoteTypeText,
		Content:      "<p>raw</p>",
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Raw note"`)
}

func TestRequestErrorPassthrough(t *testing.T) {
	client, _ := setup(t)

	_, err := client.Request(context.Background(), http.MethodGet, "/notes/missing12345", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, trilium.ErrNotFound)
}

func TestContextCancellation(t *testing.T) {
	client, _ := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetAppInfo(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
