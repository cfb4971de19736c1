package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/mind-engage/quizlink/internal/api/http"
	"github.com/mind-engage/quizlink/internal/codec"
	"github.com/mind-engage/quizlink/internal/config"
	"github.com/mind-engage/quizlink/internal/db"
	"github.com/mind-engage/quizlink/internal/generator"
	"github.com/mind-engage/quizlink/internal/grading"
	"github.com/mind-engage/quizlink/internal/share"
	syncx "github.com/mind-engage/quizlink/internal/sync"
)

func main() {
	cfg := config.FromEnv()

	deps := api.Deps{
		Codec:       codec.New(codec.WithMaxTokenBytes(cfg.MaxTokenBytes)),
		Scorer:      grading.NewScorer(grading.WithPassRatio(cfg.PassRatio())),
		Linker:      share.Linker{BaseURL: cfg.ShareBaseURL, Param: cfg.ShareParam},
		QRSize:      cfg.QRSize,
		CORSOrigins: cfg.CORSOrigins,
	}

	if cfg.TemplateCatalog != "" {
		cat, err := generator.LoadCatalog(cfg.TemplateCatalog)
		if err != nil {
			log.Fatalf("template catalog: %v", err)
		}
		deps.Catalog = cat
	}

	// --- DB (share activity log only) ---
	if cfg.EnableEventLog {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		defer dbh.Close()
		repo := syncx.NewEventRepo(dbh)
		deps.Events = repo
		deps.Recorder = syncx.NewRecorder(repo, cfg.SiteID)
	}

	r := api.NewRouter(deps)

	log.Printf("listening on %s (share=%s, event_log=%v, db=%s)", cfg.HTTPAddr, cfg.ShareBaseURL, cfg.EnableEventLog, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
