// Package share carries tokens across the URL boundary: building the
// shareable link, pulling a token back out of one, and rendering it as a QR code.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const DefaultParam = "q"

var ErrNoToken = errors.New("no quiz token in link")

type Linker struct {
	BaseURL string // e.g. https://quizlink.example.com/play/
	Param   string // query parameter carrying the token; DefaultParam when empty
}

func (l Linker) param() string {
	if l.Param == "" {
		return DefaultParam
	}
	return l.Param
}

// Link returns BaseURL with the token set as its query parameter. Other
// query parameters on BaseURL are kept.
func (l Linker) Link(token string) (string, error) {
	if token == "" {
		return "", ErrNoToken
	}
	u, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", fmt.Errorf("base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", l.BaseURL)
	}
	q := u.Query()
	q.Set(l.param(), token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// TokenFromLink accepts a full link, a bare "?q=..." query, or a bare token.
func (l Linker) TokenFromLink(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrNoToken
	}
	if !strings.Contains(s, "?") && !strings.Contains(s, "://") {
		return s, nil
	}
	query := s
	if i := strings.IndexByte(s, '?'); i >= 0 {
		query = s[i+1:]
	} else {
		return "", ErrNoToken
	}
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}
	vals, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("parse link: %w", err)
	}
	tok := vals.Get(l.param())
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}
