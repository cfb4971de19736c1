package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("question index out of range")

	ErrEmptyText    = errors.New("question text is empty")
	ErrNoOptions    = errors.New("question has no options")
	ErrEmptyOption  = errors.New("question has an empty option")
	ErrCorrectIndex = errors.New("correct index does not point at an option")
)

const (
	DefaultTitle        = "How Well Do You Know Me?"
	DefaultFinalMessage = "Thanks for playing!"

	DefaultRightMessage = "You got it right!"
	DefaultWrongMessage = "Oops, try harder."
)

// Draft is an authoring session. It is owned by a single author and is not
// safe for concurrent use.
type Draft struct {
	Title        string
	FinalMessage string
	questions    []Question
}

func NewDraft() *Draft {
	return &Draft{Title: DefaultTitle, FinalMessage: DefaultFinalMessage}
}

// DraftFrom starts a session from an existing quiz, e.g. one decoded from a link.
func DraftFrom(q Quiz) *Draft {
	c := q.Clone()
	return &Draft{Title: c.Title, FinalMessage: c.FinalMessage, questions: c.Questions}
}

func (d *Draft) Len() int { return len(d.questions) }

func (d *Draft) At(i int) (Question, error) {
	if i < 0 || i >= len(d.questions) {
		return Question{}, fmt.Errorf("at %d: %w", i, ErrIndexOutOfRange)
	}
	return d.questions[i].Clone(), nil
}

// Append adds q at the end and returns the stored ID.
func (d *Draft) Append(q Question) string {
	q = q.Clone()
	if q.ID == "" {
		q.ID = NewID()
	}
	d.questions = append(d.questions, q)
	return q.ID
}

// Update replaces the question at i. A replacement without an ID keeps the old one.
func (d *Draft) Update(i int, q Question) error {
	if i < 0 || i >= len(d.questions) {
		return fmt.Errorf("update %d: %w", i, ErrIndexOutOfRange)
	}
	q = q.Clone()
	if q.ID == "" {
		q.ID = d.questions[i].ID
	}
	d.questions[i] = q
	return nil
}

func (d *Draft) Delete(i int) error {
	if i < 0 || i >= len(d.questions) {
		return fmt.Errorf("delete %d: %w", i, ErrIndexOutOfRange)
	}
	d.questions = append(d.questions[:i], d.questions[i+1:]...)
	return nil
}

// Move relocates the question at from so it ends up at position to.
func (d *Draft) Move(from, to int) error {
	n := len(d.questions)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d->%d: %w", from, to, ErrIndexOutOfRange)
	}
	q := d.questions[from]
	d.questions = append(d.questions[:from], d.questions[from+1:]...)
	d.questions = append(d.questions[:to], append([]Question{q}, d.questions[to:]...)...)
	return nil
}

// Build snapshots the session. Later edits to the draft do not affect the result.
func (d *Draft) Build() Quiz {
	return Quiz{
		Title:        d.Title,
		Questions:    Quiz{Questions: d.questions}.Clone().Questions,
		FinalMessage: d.FinalMessage,
	}
}

// Validate applies the editor's save rules. The codec does not call it.
func (q Question) Validate() error {
	if q.Text == "" {
		return ErrEmptyText
	}
	if len(q.Options) == 0 {
		return ErrNoOptions
	}
	for _, o := range q.Options {
		if o == "" {
			return ErrEmptyOption
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ErrCorrectIndex
	}
	return nil
}
