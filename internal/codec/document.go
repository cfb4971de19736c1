package codec

import (
	"fmt"

	"github.com/mind-engage/quizlink/internal/quiz"
)

// document is the encoded shape. Field order here is the byte order of the token.
type document struct {
	Title        string        `json:"title"`
	Questions    []docQuestion `json:"questions"`
	FinalMessage string        `json:"finalMessage"`
}

type docQuestion struct {
	ID           string   `json:"id"`
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	RightMessage string   `json:"rightMessage"`
	WrongMessage string   `json:"wrongMessage"`
}

// rawDocument is the decoded shape; nil pointers are absent (or null) fields.
type rawDocument struct {
	Title        *string        `json:"title"`
	Questions    *[]rawQuestion `json:"questions"`
	FinalMessage *string        `json:"finalMessage"`
}

type rawQuestion struct {
	ID           *string   `json:"id"`
	Text         *string   `json:"question"`
	Options      *[]string `json:"options"`
	CorrectIndex *int      `json:"correctIndex"`
	RightMessage *string   `json:"rightMessage"`
	WrongMessage *string   `json:"wrongMessage"`
}

func (d rawDocument) quiz(newID func() string) (quiz.Quiz, error) {
	switch {
	case d.Title == nil:
		return quiz.Quiz{}, missing("title")
	case d.Questions == nil:
		return quiz.Quiz{}, missing("questions")
	case d.FinalMessage == nil:
		return quiz.Quiz{}, missing("finalMessage")
	}

	qs := make([]quiz.Question, len(*d.Questions))
	for i, rq := range *d.Questions {
		q, err := rq.question(fmt.Sprintf("questions[%d]", i), newID)
		if err != nil {
			return quiz.Quiz{}, err
		}
		qs[i] = q
	}
	return quiz.Quiz{Title: *d.Title, Questions: qs, FinalMessage: *d.FinalMessage}, nil
}

func (r rawQuestion) question(path string, newID func() string) (quiz.Question, error) {
	switch {
	case r.Text == nil:
		return quiz.Question{}, missing(path + ".question")
	case r.Options == nil:
		return quiz.Question{}, missing(path + ".options")
	case r.CorrectIndex == nil:
		return quiz.Question{}, missing(path + ".correctIndex")
	case r.RightMessage == nil:
		return quiz.Question{}, missing(path + ".rightMessage")
	case r.WrongMessage == nil:
		return quiz.Question{}, missing(path + ".wrongMessage")
	}
	id := ""
	if r.ID != nil {
		id = *r.ID
	}
	if id == "" {
		id = newID()
	}
	return quiz.Question{
		ID:           id,
		Text:         *r.Text,
		Options:      append([]string{}, (*r.Options)...),
		CorrectIndex: *r.CorrectIndex,
		RightMessage: *r.RightMessage,
		WrongMessage: *r.WrongMessage,
	}, nil
}
