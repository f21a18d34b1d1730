package etapitest_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trilium "github.com/trilium-community/trilium.go"
	"github.com/trilium-community/trilium.go/internal/etapitest"
)

func request(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestRequiresToken(t *testing.T) {
	s := etapitest.NewServer()
	defer s.Close()

	resp := request(t, http.MethodGet, s.URL()+"/etapi/app-info", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "NOT_AUTHENTICATED")
}

func TestLoginGrantsToken(t *testing.T) {
	s := etapitest.NewServer()
	defer s.Close()

	resp := request(t, http.MethodPost, s.URL()+"/etapi/auth/login", "",
		`{"password":"`+etapitest.DefaultPassword+`"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), etapitest.DefaultToken)
	assert.Equal(t, 1, s.Logins())
}

func TestCreateAndGetNote(t *testing.T) {
	s := etapitest.NewServer()
	defer s.Close()

	resp := request(t, http.MethodPost, s.URL()+"/etapi/create-note", etapitest.DefaultToken,
		`{"parentNoteId":"root","title":"Hello","type":"text","content":"hi"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	seeded := s.SeedNote(trilium.Note{Title: "Seeded"}, "seeded content")

	get := request(t, http.MethodGet, s.URL()+"/etapi/notes/"+seeded.NoteID, etapitest.DefaultToken, "")
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)

	body, err := io.ReadAll(get.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"title":"Seeded"`)

	content, ok := s.NoteContent(seeded.NoteID)
	require.True(t, ok)
	assert.Equal(t, "seeded content", content)
}

func TestUnknownNote(t *testing.T) {
	s := etapitest.NewServer()
	defer s.Close()

	resp := request(t, http.MethodGet, s.URL()+"/etapi/notes/doesNotExist0", etapitest.DefaultToken, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "NOTE_NOT_FOUND")
}
