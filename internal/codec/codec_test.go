package codec

import (
	"encoding/base64"
	"errors"
	"math/rand"
	"net/url"
	"strings"
	"testing"

	"github.com/mind-engage/quizlink/internal/quiz"
)

func fullQuiz() quiz.Quiz {
	return quiz.Quiz{
		Title: "How Well Do You Know Me? 💖",
		Questions: []quiz.Question{
			{
				ID:           "q-1",
				Text:         "What’s my favorite chocolate?",
				Options:      []string{"Dairy Milk", "KitKat", "Ferrero Rocher"},
				CorrectIndex: 2,
				RightMessage: "Okay wow, you really know me 😌",
				WrongMessage: "That hurt… I expected better 💔",
			},
			{
				ID:           "q-2",
				Text:         "Duplicate options <&>",
				Options:      []string{"same", "same", "same"},
				CorrectIndex: 1,
			},
			{
				ID:           "q-3",
				Text:         "日本語の質問?",
				Options:      []string{""},
				CorrectIndex: 7,
				RightMessage: "",
				WrongMessage: "\u0000 control \t chars \n",
			},
		},
		FinalMessage: "You passed the love test 💘",
	}
}

func rawToken(doc string) string { return base64.RawURLEncoding.EncodeToString([]byte(doc)) }

func TestRoundTrip(t *testing.T) {
	cases := map[string]quiz.Quiz{
		"full":           fullQuiz(),
		"zero questions": {Title: "t", Questions: []quiz.Question{}, FinalMessage: "f"},
		"nil questions":  {Title: "t", FinalMessage: "f"},
		"empty strings":  {Questions: []quiz.Question{{ID: "x"}}},
		"negative index": {Title: "t", Questions: []quiz.Question{{ID: "x", Options: []string{"a"}, CorrectIndex: -3}}},
	}
	for name, q := range cases {
		tok, err := Encode(q)
		if err != nil {
			t.Fatalf("%s: encode: %v", name, err)
		}
		got, err := Decode(tok)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if !got.Equal(q, true) {
			t.Fatalf("%s: round trip mismatch\n got %+v\nwant %+v", name, got, q)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	q := fullQuiz()
	a, err := Encode(q)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, _ := Encode(q)
	if a != b {
		t.Fatalf("tokens differ:\n%s\n%s", a, b)
	}
}

// Empty IDs are the one allowed source of non-determinism.
func TestEncodeGeneratesMissingIDs(t *testing.T) {
	q := fullQuiz()
	q.Questions[0].ID = ""

	a, _ := Encode(q)
	b, _ := Encode(q)
	if a == b {
		t.Fatalf("expected fresh ids to make tokens differ")
	}
	if q.Questions[0].ID != "" {
		t.Fatalf("encode mutated its input")
	}
	got, err := Decode(a)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Questions[0].ID == "" {
		t.Fatalf("expected generated id in decoded quiz")
	}
	if !got.Equal(q, false) {
		t.Fatalf("structural mismatch: %+v", got)
	}

	seq := 0
	c := New(WithIDGenerator(func() string { seq++; return "fixed" }))
	x, _ := c.Encode(q)
	y, _ := c.Encode(q)
	if x != y || seq != 2 {
		t.Fatalf("injected generator not used: %q %q seq=%d", x, y, seq)
	}
}

func TestTokenAlphabetIsQuerySafe(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		var sb strings.Builder
		for j := 0; j < 40; j++ {
			sb.WriteRune(rune(r.Intn(0x2FFFF)))
		}
		s := strings.ToValidUTF8(sb.String(), "?")
		q := quiz.Quiz{Title: s, FinalMessage: s, Questions: []quiz.Question{{ID: "i", Text: s, Options: []string{s, "&q=1#x"}}}}
		tok, err := Encode(q)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if esc := url.QueryEscape(tok); esc != tok {
			t.Fatalf("token needs escaping: %q", tok)
		}
		got, err := Decode(tok)
		if err != nil || !got.Equal(q, true) {
			t.Fatalf("round trip failed: %v", err)
		}
	}
}

func TestEncodeRejectsInvalidUTF8(t *testing.T) {
	q := fullQuiz()
	q.Questions[1].Options[2] = "bad\xff"
	_, err := Encode(q)
	var ee *EncodingError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EncodingError, got %v", err)
	}
	if ee.Field != "questions[1].options[2]" {
		t.Fatalf("field=%q", ee.Field)
	}
}

func TestDecodeLegacyTokens(t *testing.T) {
	doc := `{"title":"How Well Do You Know Me? 💖","questions":[{"id":"E621E1F8-C36C-495A-93FC-0C247A3E6E5F",` +
		`"question":"What’s my favorite chocolate???>>>","options":["Dairy Milk","KitKat","Ferrero Rocher"],` +
		`"correctIndex":2,"rightMessage":"Okay wow","wrongMessage":"That hurt"}],"finalMessage":"You passed \/ the test"}`
	std := base64.StdEncoding.EncodeToString([]byte(doc))
	variants := map[string]string{
		"std":           std,
		"url raw":       rawToken(doc),
		"percent":       url.QueryEscape(std),
		"plus as space": strings.ReplaceAll(std, "+", " "),
		"padded spaces": "  " + std + "\n",
	}
	for name, tok := range variants {
		got, err := Decode(tok)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got.Questions[0].ID != "E621E1F8-C36C-495A-93FC-0C247A3E6E5F" || got.Questions[0].CorrectIndex != 2 {
			t.Fatalf("%s: unexpected quiz %+v", name, got)
		}
		if got.FinalMessage != "You passed / the test" {
			t.Fatalf("%s: final message %q", name, got.FinalMessage)
		}
	}
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	tok := rawToken(`{"v":3,"title":"t","theme":{"color":"pink"},"questions":[{"question":"q","options":["a"],` +
		`"correctIndex":0,"rightMessage":"r","wrongMessage":"w","timeLimit":30}],"finalMessage":"f"}`)
	got, err := Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Questions[0].ID == "" {
		t.Fatalf("absent id should be regenerated")
	}
	if got.Title != "t" || got.Questions[0].Text != "q" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestDecodeErrorKinds(t *testing.T) {
	cases := []struct {
		name  string
		token string
		kind  Kind
		field string
	}{
		{"empty", "", MalformedToken, ""},
		{"blank", "   ", MalformedToken, ""},
		{"only padding", "====", MalformedToken, ""},
		{"bad alphabet", "not*base64!", MalformedToken, ""},
		{"mixed alphabets", "ab-c+d", MalformedToken, ""},
		{"bad escape", "abc%zz", MalformedToken, ""},
		{"single char", "A", MalformedToken, ""},
		{"not json", rawToken("hello world"), CorruptPayload, ""},
		{"array", rawToken(`[1,2]`), CorruptPayload, ""},
		{"wrong type", rawToken(`{"title":5,"questions":[],"finalMessage":""}`), CorruptPayload, ""},
		{"fractional index", rawToken(`{"title":"","questions":[{"question":"","options":[],"correctIndex":1.5,"rightMessage":"","wrongMessage":""}],"finalMessage":""}`), CorruptPayload, ""},
		{"trailing garbage", rawToken(`{"title":"","questions":[],"finalMessage":""}xyz`), CorruptPayload, ""},
		{"two documents", rawToken(`{"title":"","questions":[],"finalMessage":""} {}`), CorruptPayload, ""},
		{"invalid utf8", rawToken("{\"title\":\"\xff\",\"questions\":[],\"finalMessage\":\"\"}"), CorruptPayload, ""},
		{"null document", rawToken(`null`), MissingField, "title"},
		{"no title", rawToken(`{"questions":[],"finalMessage":""}`), MissingField, "title"},
		{"null questions", rawToken(`{"title":"","questions":null,"finalMessage":""}`), MissingField, "questions"},
		{"no final", rawToken(`{"title":"","questions":[]}`), MissingField, "finalMessage"},
		{"no options", rawToken(`{"title":"","questions":[{"question":"q","correctIndex":0,"rightMessage":"","wrongMessage":""}],"finalMessage":""}`), MissingField, "questions[0].options"},
		{"no index", rawToken(`{"title":"","questions":[{"question":"q","options":[],"rightMessage":"","wrongMessage":""}],"finalMessage":""}`), MissingField, "questions[0].correctIndex"},
		{"null question", rawToken(`{"title":"","questions":[{"question":"q","options":[],"correctIndex":0,"rightMessage":"","wrongMessage":""},null],"finalMessage":""}`), MissingField, "questions[1].question"},
	}
	for _, c := range cases {
		got, err := Decode(c.token)
		if err == nil {
			t.Fatalf("%s: expected error, got %+v", c.name, got)
		}
		var de *DecodingError
		if !errors.As(err, &de) {
			t.Fatalf("%s: expected DecodingError, got %T %v", c.name, err, err)
		}
		if de.Kind != c.kind || de.Field != c.field {
			t.Fatalf("%s: kind=%s field=%q, want %s %q (%v)", c.name, de.Kind, de.Field, c.kind, c.field, err)
		}
		if !got.Equal(quiz.Quiz{}, true) {
			t.Fatalf("%s: partial quiz returned: %+v", c.name, got)
		}
	}
}

func TestDecodingErrorSentinels(t *testing.T) {
	_, err := Decode("")
	if !errors.Is(err, ErrMalformedToken) || errors.Is(err, ErrCorruptPayload) {
		t.Fatalf("sentinel mismatch for %v", err)
	}
	_, err = Decode(rawToken(`{}`))
	if !errors.Is(err, ErrMissingField) || KindOf(err) != MissingField {
		t.Fatalf("sentinel mismatch for %v", err)
	}
	if KindOf(errors.New("other")) != 0 {
		t.Fatalf("foreign errors have no kind")
	}
}

func TestDecodeTruncatedTokens(t *testing.T) {
	tok, _ := Encode(fullQuiz())
	for n := 1; n < len(tok); n++ {
		if _, err := Decode(tok[:n]); KindOf(err) == 0 {
			t.Fatalf("prefix %d: expected typed error, got %v", n, err)
		}
	}
}

func TestDecodeRandomGarbage(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		b := make([]byte, r.Intn(300))
		r.Read(b)
		if _, err := Decode(string(b)); err != nil && KindOf(err) == 0 {
			t.Fatalf("untyped error: %v", err)
		}
		if _, err := Decode(base64.RawURLEncoding.EncodeToString(b)); KindOf(err) == 0 {
			t.Fatalf("expected typed error for garbage payload, got %v", err)
		}
	}
}

func TestDecodeSizeLimit(t *testing.T) {
	tok, _ := Encode(fullQuiz())
	c := New(WithMaxTokenBytes(len(tok) - 1))
	if _, err := c.Decode(tok); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected size limit rejection, got %v", err)
	}
	if _, err := New(WithMaxTokenBytes(len(tok))).Decode(tok); err != nil {
		t.Fatalf("token at limit rejected: %v", err)
	}
}

func FuzzDecode(f *testing.F) {
	tok, _ := Encode(fullQuiz())
	f.Add(tok)
	f.Add("")
	f.Add("%%%")
	f.Add(rawToken(`{"title":"","questions":[null],"finalMessage":""}`))
	f.Fuzz(func(t *testing.T, s string) {
		q, err := Decode(s)
		if err != nil {
			if KindOf(err) == 0 {
				t.Fatalf("untyped error %v", err)
			}
			return
		}
		again, err := Encode(q)
		if err != nil {
			t.Fatalf("re-encode decoded quiz: %v", err)
		}
		back, err := Decode(again)
		if err != nil || !back.Equal(q, true) {
			t.Fatalf("decoded quiz does not round trip: %v", err)
		}
	})
}
