package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/promptquest/internal/catalog"
	"github.com/abhisek/promptquest/internal/ui/components"
)

type quizResult struct {
	correct int
	total   int
}

// runQuiz plays the entry's exercises on a plain terminal. Answers are an
// option letter or number; an empty line skips.
func runQuiz(e *catalog.Entry, in io.Reader, out io.Writer) quizResult {
	scanner := bufio.NewScanner(in)
	res := quizResult{total: len(e.Exercises)}

	fmt.Fprintf(out, "%s\n\n", e.Title)
	for i, ex := range e.Exercises {
		fmt.Fprintf(out, "── Question %d/%d ──\n", i+1, res.total)
		fmt.Fprintln(out, ex.Content.Question)
		for j, o := range ex.Content.Options {
			fmt.Fprintf(out, "  %s) %s\n", components.OptionLabel(j), o)
		}

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			break
		}
		choice, ok := parseChoice(scanner.Text(), len(ex.Content.Options))
		switch {
		case !ok:
			fmt.Fprintln(out, "(skipped)")
		case ex.IsCorrect(choice):
			res.correct++
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		default:
			fmt.Fprintf(out, "\033[31m✗ Wrong.\033[0m Answer: %s\n", components.OptionLabel(ex.CorrectAnswer.CorrectIndex))
		}

		if ex.Content.Explanation != "" {
			fmt.Fprintf(out, "Explanation: %s\n", ex.Content.Explanation)
		}
		fmt.Fprintln(out)
	}
	return res
}

// parseChoice accepts "B", "b" or "2" for the second option.
func parseChoice(s string, n int) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i - 1, i >= 1 && i <= n
	}
	if len(s) == 1 {
		c := strings.ToUpper(s)[0]
		if i := int(c - 'A'); c >= 'A' && i < n {
			return i, true
		}
	}
	return 0, false
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
