package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/quizlink/internal/codec"
	"github.com/mind-engage/quizlink/internal/config"
	"github.com/mind-engage/quizlink/internal/generator"
	"github.com/mind-engage/quizlink/internal/grading"
	"github.com/mind-engage/quizlink/internal/quiz"
	"github.com/mind-engage/quizlink/internal/share"
)

var stdin io.Reader = os.Stdin

// parseFlags handles help and flag errors the same way for every command.
// It returns ok=false with the exit code when the command should stop.
func parseFlags(cmd *Command, flags *flag.FlagSet, args []string, nargs int, stdout, stderr io.Writer) (int, bool) {
	flags.SetOutput(stderr)
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	if flags.NArg() != nargs {
		fmt.Fprintf(stderr, "expected %d argument(s), got %d\n", nargs, flags.NArg())
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}

func linker(base string) share.Linker {
	cfg := config.FromEnv()
	if base == "" {
		base = cfg.ShareBaseURL
	}
	return share.Linker{BaseURL: base, Param: cfg.ShareParam}
}

func printDecodeError(stderr io.Writer, err error) int {
	var de *codec.DecodingError
	switch {
	case errors.As(err, &de):
		fmt.Fprintln(stderr, de.Kind.UserMessage())
		fmt.Fprintf(stderr, "(%v)\n", err)
	case errors.Is(err, share.ErrNoToken):
		fmt.Fprintln(stderr, codec.MalformedToken.UserMessage())
	default:
		fmt.Fprintln(stderr, err)
	}
	return ExitError
}

func decodeArg(raw string) (quiz.Quiz, error) {
	tok, err := linker("").TokenFromLink(raw)
	if err != nil {
		return quiz.Quiz{}, err
	}
	return codec.Decode(tok)
}

func readQuizFile(path string) (quiz.Quiz, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("read quiz: %w", err)
	}
	var q quiz.Quiz
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &q)
	default:
		err = json.Unmarshal(data, &q)
	}
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("parse quiz: %w", err)
	}
	return q, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func runEncode(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		asLink := flags.Bool("link", false, "Print the full share link instead of the token")
		base := flags.String("base", "", "Share base URL (default: $SHARE_BASE_URL)")
		if code, ok := parseFlags(cmd, flags, args, 1, stdout, stderr); !ok {
			return code
		}
		q, err := readQuizFile(flags.Arg(0))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitError
		}
		tok, err := codec.Encode(q)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create link: %v\n", err)
			return ExitError
		}
		if !*asLink {
			fmt.Fprintln(stdout, tok)
			return ExitOK
		}
		link, err := linker(*base).Link(tok)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitError
		}
		fmt.Fprintln(stdout, link)
		return ExitOK
	}
}

func runDecode(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		if code, ok := parseFlags(cmd, flags, args, 1, stdout, stderr); !ok {
			return code
		}
		q, err := decodeArg(flags.Arg(0))
		if err != nil {
			return printDecodeError(stderr, err)
		}
		if err := writeJSON(stdout, q); err != nil {
			fmt.Fprintln(stderr, err)
			return ExitError
		}
		return ExitOK
	}
}

// parseAnswers reads "1,0,-" style answer lists.
func parseAnswers(s string) (quiz.AnswerVector, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make(quiz.AnswerVector, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == "-" {
			out = append(out, quiz.Unanswered)
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("answer %q is not a number", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func runScore(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		pass := flags.Int("pass", config.FromEnv().PassRatioPercent, "Percent of correct answers needed to pass")
		if code, ok := parseFlags(cmd, flags, args, 2, stdout, stderr); !ok {
			return code
		}
		q, err := decodeArg(flags.Arg(0))
		if err != nil {
			return printDecodeError(stderr, err)
		}
		answers, err := parseAnswers(flags.Arg(1))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		res := grading.NewScorer(grading.WithPassRatio(float64(*pass)/100)).Compute(q, answers)
		for i, o := range res.PerQuestion {
			mark := "✗"
			if o.IsCorrect {
				mark = "✓"
			}
			fmt.Fprintf(stdout, "%s %d. %s: %s\n", mark, i+1, q.Questions[i].Text, o.Message)
		}
		fmt.Fprintln(stdout, res.Summary())
		verdict := "not passed"
		if res.Passed {
			verdict = "passed"
		}
		fmt.Fprintf(stdout, "%d%% (%s)\n", res.Percent, verdict)
		return ExitOK
	}
}

func runQR(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		out := flags.String("o", "", "Output PNG path")
		size := flags.Int("size", config.FromEnv().QRSize, "Image size in pixels")
		base := flags.String("base", "", "Share base URL (default: $SHARE_BASE_URL)")
		if code, ok := parseFlags(cmd, flags, args, 1, stdout, stderr); !ok {
			return code
		}
		if *out == "" {
			fmt.Fprintln(stderr, "-o is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		l := linker(*base)
		tok, err := l.TokenFromLink(flags.Arg(0))
		if err != nil {
			return printDecodeError(stderr, err)
		}
		if _, err := codec.Decode(tok); err != nil {
			return printDecodeError(stderr, err)
		}
		link, err := l.Link(tok)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitError
		}
		png, err := share.QRCode(link, *size)
		if err != nil {
			fmt.Fprintf(stderr, "Could not render QR code: %v\n", err)
			return ExitError
		}
		if err := os.WriteFile(*out, png, 0o644); err != nil {
			fmt.Fprintf(stderr, "write %s: %v\n", *out, err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Wrote %s\n", *out)
		return ExitOK
	}
}

func runGenerate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		n := flags.Int("n", generator.DefaultCount, "Number of questions")
		seed := flags.Int64("seed", 0, "Random seed (default: time based)")
		title := flags.String("title", quiz.DefaultTitle, "Quiz title")
		catalogPath := flags.String("catalog", config.FromEnv().TemplateCatalog, "Template catalog YAML")
		if code, ok := parseFlags(cmd, flags, args, 1, stdout, stderr); !ok {
			return code
		}
		opts := []generator.Option{}
		if *catalogPath != "" {
			cat, err := generator.LoadCatalog(*catalogPath)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return ExitError
			}
			opts = append(opts, generator.WithCatalog(cat))
		}
		s := *seed
		if s == 0 {
			s = time.Now().UnixNano()
		}
		opts = append(opts, generator.WithRand(rand.New(rand.NewSource(s))))

		d := quiz.NewDraft()
		d.Title = *title
		for _, q := range generator.New(opts...).Generate(flags.Arg(0), *n) {
			d.Append(q)
		}
		if err := writeJSON(stdout, d.Build()); err != nil {
			fmt.Fprintln(stderr, err)
			return ExitError
		}
		return ExitOK
	}
}
