package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/quizlink/internal/codec"
	"github.com/mind-engage/quizlink/internal/generator"
	"github.com/mind-engage/quizlink/internal/grading"
	"github.com/mind-engage/quizlink/internal/share"
	syncx "github.com/mind-engage/quizlink/internal/sync"
)

type Deps struct {
	Codec       *codec.Codec
	Scorer      *grading.Scorer
	Linker      share.Linker
	Catalog     generator.Catalog
	QRSize      int
	CORSOrigins []string

	Recorder *syncx.Recorder  // nil disables activity recording
	Events   *syncx.EventRepo // nil hides /events
}

func NewRouter(d Deps) chi.Router {
	if d.Codec == nil {
		d.Codec = codec.New()
	}
	if d.Scorer == nil {
		d.Scorer = grading.NewScorer()
	}
	if d.Catalog.Fallback == nil {
		d.Catalog = generator.DefaultCatalog()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Route("/quizzes", func(qr chi.Router) {
		qr.Post("/encode", EncodeHandler(d.Codec, d.Linker, d.Recorder))
		qr.Post("/decode", DecodeHandler(d.Codec, d.Linker, d.Recorder))
		qr.Post("/score", ScoreHandler(d.Codec, d.Linker, d.Scorer, d.Recorder))
		qr.Get("/qr", QRHandler(d.Codec, d.Linker, d.QRSize))
	})
	r.Post("/questions/generate", GenerateHandler(d.Catalog))
	if d.Events != nil {
		r.Get("/events", ListEventsHandler(d.Events))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}
