package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/quizlink/internal/codec"
	"github.com/mind-engage/quizlink/internal/grading"
	"github.com/mind-engage/quizlink/internal/quiz"
	"github.com/mind-engage/quizlink/internal/share"
	syncx "github.com/mind-engage/quizlink/internal/sync"
)

const maxBodyBytes = 1 << 20

// tokenRequest carries either a bare token or a full share link.
type tokenRequest struct {
	Token string `json:"token"`
	Link  string `json:"link"`
}

func (t tokenRequest) resolve(l share.Linker) (string, error) {
	if t.Token != "" {
		return t.Token, nil
	}
	return l.TokenFromLink(t.Link)
}

// POST /quizzes/encode  body: quiz JSON
func EncodeHandler(c *codec.Codec, l share.Linker, rec *syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		tok, err := c.Encode(q)
		if err != nil {
			var ee *codec.EncodingError
			if errors.As(err, &ee) {
				writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: MsgEncodingFailure, Field: ee.Field})
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		link, err := l.Link(tok)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rec.Record(r.Context(), syncx.TypeQuizShared, tok, map[string]int{"questions": len(q.Questions)})
		writeJSON(w, http.StatusOK, map[string]string{"token": tok, "link": link})
	}
}

// POST /quizzes/decode  body: {"token": "..."} or {"link": "..."}
func DecodeHandler(c *codec.Codec, l share.Linker, rec *syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		tok, q, err := decodeRequest(c, l, req)
		if err != nil {
			rec.Record(r.Context(), syncx.TypeDecodeRejected, tok, map[string]string{"kind": codec.KindOf(err).String()})
			writeDecodeError(w, err)
			return
		}
		rec.Record(r.Context(), syncx.TypeQuizOpened, tok, nil)
		writeJSON(w, http.StatusOK, q)
	}
}

// POST /quizzes/score  body: {"token": "...", "answers": [1, 0, -1]}
func ScoreHandler(c *codec.Codec, l share.Linker, s *grading.Scorer, rec *syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			tokenRequest
			Answers quiz.AnswerVector `json:"answers"`
		}
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		tok, q, err := decodeRequest(c, l, req.tokenRequest)
		if err != nil {
			rec.Record(r.Context(), syncx.TypeDecodeRejected, tok, map[string]string{"kind": codec.KindOf(err).String()})
			writeDecodeError(w, err)
			return
		}
		res := s.Compute(q, req.Answers)
		rec.Record(r.Context(), syncx.TypeQuizScored, tok, map[string]any{
			"correct": res.CorrectCount, "total": res.Total, "passed": res.Passed,
		})
		writeJSON(w, http.StatusOK, struct {
			grading.Result
			Summary string `json:"summary"`
		}{res, res.Summary()})
	}
}

func decodeRequest(c *codec.Codec, l share.Linker, req tokenRequest) (string, quiz.Quiz, error) {
	tok, err := req.resolve(l)
	if err != nil {
		return "", quiz.Quiz{}, err
	}
	q, err := c.Decode(tok)
	return tok, q, err
}
