package quiz

import "github.com/google/uuid"

// Unanswered marks an answer slot where no option was selected.
const Unanswered = -1

type Question struct {
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"` // list-diffing key only; not part of scoring
	Text         string   `json:"question" yaml:"question"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correctIndex"`
	RightMessage string   `json:"rightMessage" yaml:"rightMessage"`
	WrongMessage string   `json:"wrongMessage" yaml:"wrongMessage"`
}

type Quiz struct {
	Title        string     `json:"title" yaml:"title"`
	Questions    []Question `json:"questions" yaml:"questions"`
	FinalMessage string     `json:"finalMessage" yaml:"finalMessage"`
}

// AnswerVector holds one option index (or Unanswered) per question, in question order.
type AnswerVector []int

// NewID returns a fresh question identifier.
func NewID() string { return uuid.NewString() }

// Clone returns a deep copy of q.
func (q Quiz) Clone() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		out.Questions[i] = qq.Clone()
	}
	return out
}

func (q Question) Clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	return out
}

// Equal reports field-for-field equality. Nil and empty slices compare equal.
// IDs are compared only when compareIDs is set.
func (q Quiz) Equal(o Quiz, compareIDs bool) bool {
	if q.Title != o.Title || q.FinalMessage != o.FinalMessage || len(q.Questions) != len(o.Questions) {
		return false
	}
	for i := range q.Questions {
		if !q.Questions[i].Equal(o.Questions[i], compareIDs) {
			return false
		}
	}
	return true
}

func (q Question) Equal(o Question, compareIDs bool) bool {
	if compareIDs && q.ID != o.ID {
		return false
	}
	if q.Text != o.Text || q.CorrectIndex != o.CorrectIndex ||
		q.RightMessage != o.RightMessage || q.WrongMessage != o.WrongMessage {
		return false
	}
	if len(q.Options) != len(o.Options) {
		return false
	}
	for i := range q.Options {
		if q.Options[i] != o.Options[i] {
			return false
		}
	}
	return true
}
