package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jusunglee/g2pk/internal/db"
	"github.com/jusunglee/g2pk/internal/g2p"
	"github.com/jusunglee/g2pk/internal/jamo"
	"github.com/jusunglee/g2pk/internal/rules"
	"github.com/jusunglee/g2pk/internal/transliteration"
)

// MaxTextLength is the longest input accepted, in runes.
const MaxTextLength = 2000

type Transcriber interface {
	Transcribe(ctx context.Context, text string, opts g2p.Options) (g2p.Result, error)
}

type TranscriptionHandler struct {
	transcriber Transcriber
	repo        db.Repository
	log         *slog.Logger
}

// NewTranscriptionHandler builds the handler. repo may be nil, in which case
// List reports that no store is configured.
func NewTranscriptionHandler(transcriber Transcriber, repo db.Repository, log *slog.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{transcriber: transcriber, repo: repo, log: log}
}

type createRequest struct {
	Text        string `json:"text"`
	Descriptive bool   `json:"descriptive"`
	GroupVowels bool   `json:"group_vowels"`
	ToSyllable  *bool  `json:"to_syllable"`
	Romanize    bool   `json:"romanize"`
	Verbose     bool   `json:"verbose"`
}

type traceRecord struct {
	Table   string   `json:"table"`
	Line    int      `json:"line,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
	Before  string   `json:"before"`
	After   string   `json:"after"`
	RuleIDs []string `json:"rule_ids,omitempty"`
	Gloss   string   `json:"gloss,omitempty"`
}

type transcriptionResponse struct {
	Input     string        `json:"input"`
	Output    string        `json:"output"`
	Romanized string        `json:"romanized,omitempty"`
	Cached    bool          `json:"cached"`
	Trace     []traceRecord `json:"trace,omitempty"`
}

// toTraceRecords keeps the records that changed the text, composed back to
// syllables so they can be read.
func toTraceRecords(trace *rules.Trace) []traceRecord {
	var out []traceRecord
	for _, r := range trace.Changed() {
		out = append(out, traceRecord{
			Table:   r.Table,
			Line:    r.Line,
			Pattern: r.Pattern,
			Before:  jamo.Compose(r.Before),
			After:   jamo.Compose(r.After),
			RuleIDs: r.RuleIDs,
			Gloss:   r.Gloss,
		})
	}
	return out
}

func (h *TranscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64*1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		writeError(w, http.StatusBadRequest, "text is too long")
		return
	}

	opts := g2p.Options{
		Descriptive: req.Descriptive,
		GroupVowels: req.GroupVowels,
		ToSyllable:  req.ToSyllable == nil || *req.ToSyllable,
		Verbose:     req.Verbose,
	}
	res, err := h.transcriber.Transcribe(r.Context(), text, opts)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to transcribe", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := transcriptionResponse{
		Input:  text,
		Output: res.Text,
		Cached: res.Cached,
		Trace:  toTraceRecords(res.Trace),
	}
	if req.Romanize {
		resp.Romanized = transliteration.Romanize(res.Text)
	}
	writeJSON(w, http.StatusOK, resp)
}

type storedTranscription struct {
	ID          int64  `json:"id"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	Romanized   string `json:"romanized"`
	Descriptive bool   `json:"descriptive"`
	GroupVowels bool   `json:"group_vowels"`
	ToSyllable  bool   `json:"to_syllable"`
	CreatedAt   string `json:"created_at"`
}

type paginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type listResponse struct {
	Data       []storedTranscription `json:"data"`
	Pagination paginationMeta        `json:"pagination"`
}

func toStoredTranscription(t db.Transcription) storedTranscription {
	return storedTranscription{
		ID:          t.ID,
		Input:       t.Input,
		Output:      t.Output,
		Romanized:   t.Romanized,
		Descriptive: t.Descriptive,
		GroupVowels: t.GroupVowels,
		ToSyllable:  t.ToSyllable,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

func (h *TranscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "no transcription store configured")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 25
	}

	rows, err := h.repo.ListTranscriptions(r.Context(), db.ListTranscriptionsParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list transcriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	total, err := h.repo.CountTranscriptions(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to count transcriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	data := make([]storedTranscription, len(rows))
	for i, t := range rows {
		data[i] = toStoredTranscription(t)
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data:       data,
		Pagination: paginationMeta{Page: page, Limit: limit, Total: total},
	})
}
