package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mind-engage/quizlink/internal/codec"
	"github.com/mind-engage/quizlink/internal/generator"
	"github.com/mind-engage/quizlink/internal/share"
	syncx "github.com/mind-engage/quizlink/internal/sync"
)

// GET /quizzes/qr?q=<token>&size=N  -> image/png of the share link
func QRHandler(c *codec.Codec, l share.Linker, defaultSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := r.URL.Query().Get("q")
		if tok == "" {
			writeDecodeError(w, share.ErrNoToken)
			return
		}
		if _, err := c.Decode(tok); err != nil {
			writeDecodeError(w, err)
			return
		}
		link, err := l.Link(tok)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		size := parseIntDefault(r.URL.Query().Get("size"), defaultSize)
		if size > 2048 {
			size = 2048
		}
		png, err := share.QRCode(link, size)
		if err != nil {
			if errors.Is(err, share.ErrTooLarge) {
				http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		_, _ = w.Write(png)
	}
}

// POST /questions/generate  body: {"topic": "...", "count": 5}
func GenerateHandler(cat generator.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Topic string `json:"topic"`
			Count int    `json:"count"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Topic == "" {
			http.Error(w, "topic required", http.StatusBadRequest)
			return
		}
		qs := generator.New(generator.WithCatalog(cat)).Generate(req.Topic, req.Count)
		writeJSON(w, http.StatusOK, map[string]any{"questions": qs})
	}
}

// GET /events?limit=N
func ListEventsHandler(repo *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := repo.Recent(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 50))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, events)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
