package cmd

import (
	"strings"
	"testing"

	"github.com/abhisek/promptquest/internal/catalog"
	"github.com/abhisek/promptquest/internal/records"
)

func quizEntry() *catalog.Entry {
	ex := func(q string, correct int) records.Exercise {
		return records.Exercise{
			Content: records.ExerciseContent{
				Question:    q,
				Options:     []string{"one", "two", "three"},
				Explanation: "because " + q,
			},
			CorrectAnswer: records.Answer{CorrectIndex: correct},
		}
	}
	return &catalog.Entry{
		Lesson:    records.Lesson{Title: "Few-shot prompts"},
		Exercises: []records.Exercise{ex("q1", 1), ex("q2", 0), ex("q3", 2)},
	}
}

func TestRunQuiz(t *testing.T) {
	var out strings.Builder
	res := runQuiz(quizEntry(), strings.NewReader("b\n2\n\n"), &out)

	if res.correct != 1 || res.total != 3 {
		t.Errorf("result = %+v, want 1/3", res)
	}
	text := out.String()
	for _, want := range []string{"Question 1/3", "Correct!", "Answer: A", "(skipped)", "because q3"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRunQuizInputClosed(t *testing.T) {
	var out strings.Builder
	res := runQuiz(quizEntry(), strings.NewReader("a\n"), &out)
	if res.correct != 0 {
		t.Errorf("correct = %d, want 0", res.correct)
	}
	if !strings.Contains(out.String(), "(input closed)") {
		t.Error("expected input closed notice")
	}
}

func TestParseChoice(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"A", 0, true},
		{"c", 2, true},
		{" 2 ", 1, true},
		{"4", 3, false},
		{"0", -1, false},
		{"D", 0, false},
		{"", 0, false},
		{"yes", 0, false},
	}
	for _, c := range cases {
		got, ok := parseChoice(c.in, 3)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("parseChoice(%q) = %d, %v; want %d, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestRedactKey(t *testing.T) {
	if got := redactKey(""); got != "(none)" {
		t.Errorf("empty key = %q", got)
	}
	if got := redactKey("short"); got != "*****" {
		t.Errorf("short key = %q", got)
	}
	got := redactKey("sk-ant-abcdefghijkl1234")
	if !strings.HasPrefix(got, "sk-a") || !strings.HasSuffix(got, "1234") || strings.Contains(got, "abcdef") {
		t.Errorf("long key = %q", got)
	}
}
