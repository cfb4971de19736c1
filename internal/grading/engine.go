package grading

import (
	"fmt"

	"github.com/mind-engage/quizlink/internal/quiz"
)

// Outcome is the grading of a single question.
type Outcome struct {
	IsCorrect bool   `json:"is_correct"`
	Message   string `json:"message"`  // right or wrong feedback text
	Answer    int    `json:"answer"`   // submitted index, quiz.Unanswered if none
	Answered  bool   `json:"answered"` // false when padded or out of the option range
}

// Result is the score for a whole quiz.
type Result struct {
	CorrectCount int       `json:"correct_count"`
	Total        int       `json:"total"`
	PerQuestion  []Outcome `json:"per_question"`
	FinalMessage string    `json:"final_message"`
	Percent      int       `json:"percent"`
	Passed       bool      `json:"passed"`
}

// Summary renders the results line shown to the recipient.
func (r Result) Summary() string {
	return fmt.Sprintf("You got %d/%d correct! %s", r.CorrectCount, r.Total, r.FinalMessage)
}

// Engine options

type Option func(*config)

type config struct {
	PassRatio float64 // fraction of correct answers needed to pass
}

// WithPassRatio sets the pass threshold; values outside [0,1] are clamped.
func WithPassRatio(r float64) Option {
	return func(c *config) {
		switch {
		case r < 0:
			r = 0
		case r > 1:
			r = 1
		}
		c.PassRatio = r
	}
}

// Scorer is immutable and safe for concurrent use.
type Scorer struct {
	cfg config
}

func NewScorer(opts ...Option) *Scorer {
	cfg := config{PassRatio: 0.5}
	for _, o := range opts {
		o(&cfg)
	}
	return &Scorer{cfg: cfg}
}

var defaultScorer = NewScorer()

func Compute(q quiz.Quiz, answers quiz.AnswerVector) Result {
	return defaultScorer.Compute(q, answers)
}

// Compute grades answers against q. Missing trailing answers count as
// unanswered and extra answers are ignored.
func (s *Scorer) Compute(q quiz.Quiz, answers quiz.AnswerVector) Result {
	res := Result{
		Total:        len(q.Questions),
		PerQuestion:  make([]Outcome, len(q.Questions)),
		FinalMessage: q.FinalMessage,
	}
	for i, qq := range q.Questions {
		a := quiz.Unanswered
		if i < len(answers) {
			a = answers[i]
		}
		o := grade(qq, a)
		if o.IsCorrect {
			res.CorrectCount++
		}
		res.PerQuestion[i] = o
	}
	if res.Total > 0 {
		res.Percent = res.CorrectCount * 100 / res.Total
		res.Passed = float64(res.CorrectCount) >= s.cfg.PassRatio*float64(res.Total)
	}
	return res
}

// grade never marks a question correct when its key is outside the options.
func grade(q quiz.Question, answer int) Outcome {
	o := Outcome{Answer: answer, Answered: answer >= 0 && answer < len(q.Options)}
	keyValid := q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options)
	if keyValid && o.Answered && answer == q.CorrectIndex {
		o.IsCorrect = true
		o.Message = q.RightMessage
		return o
	}
	o.Message = q.WrongMessage
	return o
}
