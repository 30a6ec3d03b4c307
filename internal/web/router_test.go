package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jusunglee/g2pk/internal/db"
	"github.com/jusunglee/g2pk/internal/db/sqlite"
	"github.com/jusunglee/g2pk/internal/g2p"
)

var discard = slog.New(slog.DiscardHandler)

func newTestServer(t *testing.T, withStore bool) (*httptest.Server, db.Repository) {
	t.Helper()
	engine, err := g2p.Load(discard)
	require.NoError(t, err)

	var repo db.Repository
	if withStore {
		r, err := sqlite.New(context.Background(), ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { r.Close() })
		repo = r
	}

	router := NewRouter(g2p.NewCachedTranscriber(engine, repo, discard), repo, discard, nil)
	srv := httptest.NewServer(router.Handler())
	t.Cleanup(srv.Close)
	return srv, repo
}

func post(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/transcriptions", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestCreateTranscription(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, out := post(t, srv, `{"text": "나의 친구가 mp3 file 3개를 다운받고 있다", "descriptive": true, "romanize": true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "나에 친구가 엠피쓰리 파일 세개를 다운받꼬 읻따", out["output"])
	assert.Equal(t, "nae chinguga empisseuri pail segaereul daunbatkko itta", out["romanized"])
	assert.Equal(t, false, out["cached"])
	assert.NotContains(t, out, "trace")
}

func TestCreateTranscriptionVerbose(t *testing.T) {
	srv, _ := newTestServer(t, false)

	_, out := post(t, srv, `{"text": "신라", "verbose": true}`)
	assert.Equal(t, "실라", out["output"])

	trace, ok := out["trace"].([]any)
	require.True(t, ok)
	require.Len(t, trace, 1)
	record := trace[0].(map[string]any)
	assert.Equal(t, "main.tsv", record["table"])
	assert.Equal(t, "신라", record["before"])
	assert.Equal(t, "실라", record["after"])
	assert.Equal(t, []any{"20"}, record["rule_ids"])
}

func TestCreateTranscriptionPhonemes(t *testing.T) {
	srv, _ := newTestServer(t, false)

	_, out := post(t, srv, `{"text": "신라", "to_syllable": false}`)
	output, _ := out["output"].(string)
	assert.NotEqual(t, "실라", output)
	assert.Equal(t, 5, len([]rune(output)))
}

func TestCreateTranscriptionBadRequest(t *testing.T) {
	srv, _ := newTestServer(t, false)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"text":`, "invalid JSON body"},
		{"empty text", `{"text": "   "}`, "text is required"},
		{"too long", `{"text": "` + strings.Repeat("가", 2001) + `"}`, "text is too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := post(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.want, out["error"])
		})
	}
}

func TestListTranscriptions(t *testing.T) {
	srv, repo := newTestServer(t, true)

	post(t, srv, `{"text": "신라"}`)
	_, again := post(t, srv, `{"text": "신라"}`)
	assert.Equal(t, true, again["cached"])
	post(t, srv, `{"text": "밖에"}`)

	resp, err := http.Get(srv.URL + "/api/v1/transcriptions?limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data []struct {
			Input     string `json:"input"`
			Output    string `json:"output"`
			Romanized string `json:"romanized"`
		} `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "밖에", out.Data[0].Input)
	assert.Equal(t, "바께", out.Data[0].Output)
	assert.Equal(t, "bakke", out.Data[0].Romanized)
	assert.Equal(t, 1, out.Pagination.Page)
	assert.Equal(t, 1, out.Pagination.Limit)
	assert.Equal(t, int64(2), out.Pagination.Total)

	count, err := repo.CountTranscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListWithoutStore(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/api/v1/transcriptions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, float64(0), out["stored"])
}
