package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/quizlink/internal/codec"
	"github.com/mind-engage/quizlink/internal/share"
)

const MsgEncodingFailure = "The quiz could not be turned into a link."

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDecodeError maps decode failures to a distinct status and message per kind.
func writeDecodeError(w http.ResponseWriter, err error) {
	var de *codec.DecodingError
	switch {
	case errors.Is(err, share.ErrNoToken):
		k := codec.MalformedToken
		writeJSON(w, http.StatusBadRequest, errorBody{Error: k.UserMessage(), Kind: k.String()})
	case errors.As(err, &de):
		status := http.StatusUnprocessableEntity
		if de.Kind == codec.MalformedToken {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorBody{Error: de.Kind.UserMessage(), Kind: de.Kind.String(), Field: de.Field})
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}
