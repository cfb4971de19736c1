// Package codec turns a quiz into a URL-safe token and back.
//
// Tokens are unpadded base64url over a JSON document with named fields, so
// older decoders ignore fields they do not know about.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/mind-engage/quizlink/internal/quiz"
)

const DefaultMaxTokenBytes = 64 << 10

var (
	errEmptyToken  = errors.New("empty token")
	errInvalidUTF8 = errors.New("invalid UTF-8")
	errTrailing    = errors.New("trailing data after document")
)

type Option func(*config)

type config struct {
	maxTokenBytes int
	newID         func() string
}

// WithMaxTokenBytes caps the accepted token length. n <= 0 keeps the default.
func WithMaxTokenBytes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxTokenBytes = n
		}
	}
}

// WithIDGenerator replaces the generator used for questions without an ID.
func WithIDGenerator(f func() string) Option {
	return func(c *config) {
		if f != nil {
			c.newID = f
		}
	}
}

// Codec is stateless after construction and safe for concurrent use.
type Codec struct {
	cfg config
}

func New(opts ...Option) *Codec {
	cfg := config{maxTokenBytes: DefaultMaxTokenBytes, newID: quiz.NewID}
	for _, o := range opts {
		o(&cfg)
	}
	return &Codec{cfg: cfg}
}

var std = New()

func Encode(q quiz.Quiz) (string, error) { return std.Encode(q) }

func Decode(token string) (quiz.Quiz, error) { return std.Decode(token) }

// Encode serializes q. Questions without an ID get a fresh one in the token;
// q itself is left untouched.
func (c *Codec) Encode(q quiz.Quiz) (string, error) {
	if err := checkUTF8(q); err != nil {
		return "", err
	}
	doc := document{
		Title:        q.Title,
		Questions:    make([]docQuestion, len(q.Questions)),
		FinalMessage: q.FinalMessage,
	}
	for i, qq := range q.Questions {
		id := qq.ID
		if id == "" {
			id = c.cfg.newID()
		}
		opts := qq.Options
		if opts == nil {
			opts = []string{}
		}
		doc.Questions[i] = docQuestion{
			ID:           id,
			Text:         qq.Text,
			Options:      opts,
			CorrectIndex: qq.CorrectIndex,
			RightMessage: qq.RightMessage,
			WrongMessage: qq.WrongMessage,
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", &EncodingError{Err: err}
	}
	return base64.RawURLEncoding.EncodeToString(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// Decode parses a token produced by Encode. Percent-escaped and padded
// standard base64 tokens are accepted as well.
func (c *Codec) Decode(token string) (quiz.Quiz, error) {
	raw, err := c.unwrap(token)
	if err != nil {
		return quiz.Quiz{}, err
	}
	if !utf8.Valid(raw) {
		return quiz.Quiz{}, corrupt(errInvalidUTF8)
	}

	var doc rawDocument
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return quiz.Quiz{}, corrupt(err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errTrailing
		}
		return quiz.Quiz{}, corrupt(err)
	}
	return doc.quiz(c.cfg.newID)
}

func (c *Codec) unwrap(token string) ([]byte, error) {
	s := strings.TrimSpace(token)
	if s == "" {
		return nil, malformed(errEmptyToken)
	}
	if len(s) > c.cfg.maxTokenBytes {
		return nil, malformed(fmt.Errorf("token is %d bytes, limit %d", len(s), c.cfg.maxTokenBytes))
	}
	if strings.Contains(s, "%") {
		u, err := url.PathUnescape(s)
		if err != nil {
			return nil, malformed(err)
		}
		s = u
	}
	// form decoding turns '+' into ' '; spaces are never part of base64.
	s = strings.ReplaceAll(s, " ", "+")
	s = strings.TrimRight(s, "=")
	if s == "" {
		return nil, malformed(errEmptyToken)
	}

	enc := base64.RawURLEncoding
	if strings.ContainsAny(s, "+/") {
		enc = base64.RawStdEncoding
	}
	raw, err := enc.DecodeString(s)
	if err != nil {
		return nil, malformed(err)
	}
	return raw, nil
}

func checkUTF8(q quiz.Quiz) error {
	bad := func(field string) error {
		return &EncodingError{Field: field, Err: errInvalidUTF8}
	}
	if !utf8.ValidString(q.Title) {
		return bad("title")
	}
	if !utf8.ValidString(q.FinalMessage) {
		return bad("finalMessage")
	}
	for i, qq := range q.Questions {
		p := fmt.Sprintf("questions[%d]", i)
		switch {
		case !utf8.ValidString(qq.ID):
			return bad(p + ".id")
		case !utf8.ValidString(qq.Text):
			return bad(p + ".question")
		case !utf8.ValidString(qq.RightMessage):
			return bad(p + ".rightMessage")
		case !utf8.ValidString(qq.WrongMessage):
			return bad(p + ".wrongMessage")
		}
		for j, o := range qq.Options {
			if !utf8.ValidString(o) {
				return bad(fmt.Sprintf("%s.options[%d]", p, j))
			}
		}
	}
	return nil
}
