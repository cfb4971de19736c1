package generator

import (
	"math/rand"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func seeded(seed int64) *Generator {
	return New(WithRand(rand.New(rand.NewSource(seed))), WithIDs(func() string { return "id" }))
}

func TestGeneratePicksCategory(t *testing.T) {
	cat := DefaultCatalog()
	cases := map[string]string{
		"Favorite FOODS":    "What's my favorite type of cuisine?",
		"my hobbies":        "What's my favorite hobby?",
		"our life together": "What's my favorite thing about our relationship?",
	}
	for topic, first := range cases {
		qs := seeded(1).Generate(topic, 1)
		if len(qs) != 1 || qs[0].Text != first {
			t.Fatalf("%s: got %+v", topic, qs)
		}
	}
	qs := seeded(1).Generate("hiking", 2)
	if qs[0].Text != "What's my favorite thing about hiking?" || qs[1].Text != "How important is hiking to me?" {
		t.Fatalf("fallback not substituted: %+v", qs)
	}
	if len(cat.Categories) != 3 {
		t.Fatalf("unexpected default categories: %d", len(cat.Categories))
	}
}

func TestGenerateShufflesConsistently(t *testing.T) {
	cat := DefaultCatalog()
	tmpl := cat.Categories[1].Templates
	for seed := int64(0); seed < 50; seed++ {
		r := rand.New(rand.NewSource(seed))
		g := seeded(seed)
		qs := g.Generate("food", 0)
		if len(qs) != DefaultCount {
			t.Fatalf("count=%d, want %d", len(qs), DefaultCount)
		}
		for i, q := range qs {
			// replay the generator's draws to learn which option it chose
			correct := r.Intn(len(tmpl[i].Options))
			r.Perm(len(tmpl[i].Options))
			r.Intn(len(cat.Messages.Right))
			r.Intn(len(cat.Messages.Wrong))

			if q.Options[q.CorrectIndex] != tmpl[i].Options[correct] {
				t.Fatalf("seed %d q%d: correct option %q, want %q", seed, i, q.Options[q.CorrectIndex], tmpl[i].Options[correct])
			}
			got := append([]string(nil), q.Options...)
			want := append([]string(nil), tmpl[i].Options...)
			sort.Strings(got)
			sort.Strings(want)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("options are not a permutation: %v vs %v", q.Options, tmpl[i].Options)
			}
			if q.ID != "id" || q.RightMessage == "" || q.WrongMessage == "" {
				t.Fatalf("incomplete question %+v", q)
			}
		}
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := seeded(9).Generate("hobby", 7)
	b := seeded(9).Generate("hobby", 7)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different questions")
	}
	if got := seeded(9).Generate("hobby", 100); len(got) != 7 {
		t.Fatalf("count not clamped to templates: %d", len(got))
	}
}

func TestParseCatalogErrors(t *testing.T) {
	cases := map[string]string{
		"unknown field": "fallback:\n  - question: q\n    options: [a]\nextra: 1\n",
		"no fallback":   "categories: []\n",
		"two docs":      "fallback:\n  - question: q\n    options: [a]\n---\nfallback: []\n",
		"empty options": "fallback:\n  - question: q\n    options: []\n",
		"no keywords":   "categories:\n  - name: c\n    templates: []\nfallback:\n  - question: q\n    options: [a]\n",
	}
	for name, doc := range cases {
		if _, err := ParseCatalog([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	c, err := ParseCatalog([]byte("fallback:\n  - question: \"About {{topic}}\"\n    options: [a, b]\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	qs := New(WithCatalog(c), WithRand(rand.New(rand.NewSource(1)))).Generate("cats", 3)
	if len(qs) != 1 || !strings.HasSuffix(qs[0].Text, "cats") {
		t.Fatalf("custom catalog not used: %+v", qs)
	}
	if qs[0].RightMessage == "" || qs[0].WrongMessage == "" {
		t.Fatalf("default messages missing: %+v", qs[0])
	}
}
