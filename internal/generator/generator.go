// Package generator drafts quiz questions for a topic from a template catalog.
package generator

import (
	"math/rand"
	"time"

	"github.com/mind-engage/quizlink/internal/quiz"
)

const DefaultCount = 5

type Option func(*Generator)

func WithRand(r *rand.Rand) Option { return func(g *Generator) { g.rnd = r } }

func WithCatalog(c Catalog) Option { return func(g *Generator) { g.catalog = c } }

// WithIDs replaces the question ID source.
func WithIDs(f func() string) Option { return func(g *Generator) { g.newID = f } }

// Generator is not safe for concurrent use because of its random source.
type Generator struct {
	catalog Catalog
	rnd     *rand.Rand
	newID   func() string
}

func New(opts ...Option) *Generator {
	g := &Generator{newID: quiz.NewID}
	for _, o := range opts {
		o(g)
	}
	if g.catalog.Fallback == nil {
		g.catalog = DefaultCatalog()
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// Generate returns up to count questions for topic. Each gets a random correct
// option, shuffled options and random feedback messages.
func (g *Generator) Generate(topic string, count int) []quiz.Question {
	if count <= 0 {
		count = DefaultCount
	}
	ts := g.catalog.templatesFor(topic)
	if count > len(ts) {
		count = len(ts)
	}
	out := make([]quiz.Question, 0, count)
	for _, t := range ts[:count] {
		correct := g.rnd.Intn(len(t.Options))
		perm := g.rnd.Perm(len(t.Options))
		opts := make([]string, len(t.Options))
		newCorrect := 0
		for dst, src := range perm {
			opts[dst] = t.Options[src]
			if src == correct {
				newCorrect = dst
			}
		}
		out = append(out, quiz.Question{
			ID:           g.newID(),
			Text:         t.Question,
			Options:      opts,
			CorrectIndex: newCorrect,
			RightMessage: g.pick(g.catalog.Messages.Right, quiz.DefaultRightMessage),
			WrongMessage: g.pick(g.catalog.Messages.Wrong, quiz.DefaultWrongMessage),
		})
	}
	return out
}

func (g *Generator) pick(list []string, def string) string {
	if len(list) == 0 {
		return def
	}
	return list[g.rnd.Intn(len(list))]
}
