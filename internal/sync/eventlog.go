package syncx

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/crypto/blake2b"
)

const (
	TypeQuizShared     = "QuizShared"
	TypeQuizOpened     = "QuizOpened"
	TypeQuizScored     = "QuizScored"
	TypeDecodeRejected = "DecodeRejected"
)

type Event struct {
	Seq       int64  `json:"seq"`
	SiteID    string `json:"site_id"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

// TokenDigest identifies a token in the log without storing its content.
func TokenDigest(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

type EventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db, now: time.Now} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	if e.DataJSON == "" {
		e.DataJSON = "{}"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, r.now().Unix())
	return err
}

// Recent lists the newest events first.
func (r *EventRepo) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Appender is the write side of an event store.
type Appender interface {
	Append(ctx context.Context, e Event) error
}

// Recorder writes share activity on a best-effort basis: failures are logged
// and never returned. A nil *Recorder records nothing.
type Recorder struct {
	sink   Appender
	siteID string
}

func NewRecorder(sink Appender, siteID string) *Recorder {
	return &Recorder{sink: sink, siteID: siteID}
}

// Record logs an event of typ for token with data marshalled as JSON.
func (r *Recorder) Record(ctx context.Context, typ, token string, data any) {
	if r == nil || r.sink == nil {
		return
	}
	payload := "{}"
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			log.Printf("event %s: marshal: %v", typ, err)
			return
		}
		payload = string(b)
	}
	e := Event{SiteID: r.siteID, Type: typ, Key: TokenDigest(token), DataJSON: payload}
	if err := r.sink.Append(ctx, e); err != nil {
		log.Printf("event %s: append: %v", typ, err)
	}
}
