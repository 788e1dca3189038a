package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/attempt"
	"github.com/abhisek/promptquest/internal/progress"
	"github.com/abhisek/promptquest/internal/ui/components"
	"github.com/abhisek/promptquest/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	switch {
	case s.loadErr != nil:
		return components.Center(s.renderLoadError(cw), width, height)
	case s.attempt == nil:
		return components.Center(theme.Hint.Render("Loading lesson..."), width, height)
	case s.noticeOpen:
		return components.Center(components.Notice("Progress not saved",
			"We could not save this lesson to your profile. Your result is shown next, but it may not appear on your dashboard.", cw), width, height)
	case s.confirmingQuit:
		return components.Center(renderQuitConfirm(cw), width, height)
	}

	var body string
	switch s.attempt.Phase() {
	case attempt.PhaseIntro:
		body = s.renderIntro(cw)
	case attempt.PhaseExercise:
		body = s.renderExercise(cw)
	case attempt.PhaseCompleting:
		body = theme.Hint.Render("Saving your progress...")
	case attempt.PhaseComplete:
		body = s.renderComplete(cw)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *LessonScreen) renderLoadError(cw int) string {
	if s.notFound() {
		return components.Notice("Lesson not found", "This lesson does not exist or was removed.", cw)
	}
	return components.Notice("Could not load this lesson", "Check your connection and try again from the dashboard.", cw)
}

func renderQuitConfirm(cw int) string {
	body := lipgloss.NewStyle().Bold(true).Foreground(theme.Warning).Render("Leave this lesson?") + "\n\n" +
		theme.Body.Render("Answers in this attempt will not be saved.") + "\n\n" +
		theme.Hint.Render("y to leave, n to keep going")
	return components.Card("", body, min(cw, 56))
}

func (s *LessonScreen) progressBar(cw int) string {
	return components.NewProgressBar("", s.attempt.ProgressFraction(), false, cw).View()
}

func (s *LessonScreen) renderIntro(cw int) string {
	l := s.attempt.Lesson()
	var b strings.Builder

	b.WriteString(theme.Title.Render(l.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d min  •  ", l.DurationMinutes)))
	b.WriteString(theme.XP.Render(fmt.Sprintf("%d XP", l.XPReward)))
	b.WriteString("\n\n")
	b.WriteString(s.progressBar(cw))
	b.WriteString("\n\n")

	text := lipgloss.NewStyle().Width(cw).Foreground(theme.Text)
	if l.Content.Intro != nil && l.Content.Intro.Content != "" {
		b.WriteString(text.Render(l.Content.Intro.Content))
		b.WriteString("\n\n")
	}
	for _, sec := range l.Content.Sections {
		b.WriteString(theme.Selected.Render(sec.Title))
		b.WriteString("\n")
		b.WriteString(text.Render(sec.Content))
		b.WriteString("\n\n")
	}

	if s.attempt.Total() == 0 {
		b.WriteString(theme.Hint.Render("No exercises in this lesson. Press enter to finish."))
	} else {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d questions ahead. Press enter to start.", s.attempt.Total())))
	}
	return b.String()
}

func (s *LessonScreen) renderExercise(cw int) string {
	ex, _ := s.attempt.Exercise()
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d/%d", s.attempt.Step(), s.attempt.Total())))
	b.WriteString("\n")
	b.WriteString(s.progressBar(cw))
	b.WriteString("\n\n")

	chosen, ok := s.attempt.Selected()
	if !ok {
		chosen = -1
	}
	mc := components.MultiChoice{
		Question: ex.Content.Question,
		Options:  ex.Content.Options,
		Cursor:   s.cursor,
		Chosen:   chosen,
		Reveal:   s.attempt.Answered(),
		Correct:  ex.CorrectAnswer.CorrectIndex,
		Width:    cw,
	}
	b.WriteString(mc.View())
	b.WriteString("\n\n")

	if s.attempt.Answered() {
		if s.attempt.LastCorrect() {
			b.WriteString(theme.Correct.Render("Correct!"))
			if ex.XPReward > 0 {
				b.WriteString("  " + theme.XP.Render(fmt.Sprintf("+%d XP", ex.XPReward)))
			}
		} else {
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Not quite. The answer is %s.",
				components.OptionLabel(ex.CorrectAnswer.CorrectIndex))))
		}
		if ex.Content.Explanation != "" {
			b.WriteString("\n\n")
			b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(ex.Content.Explanation))
		}
		b.WriteString("\n\n")
	} else if s.hint != "" {
		b.WriteString(theme.ErrorText.Render(s.hint))
		b.WriteString("\n\n")
	}

	b.WriteString(theme.Subtitle.Render("XP this lesson: "))
	b.WriteString(theme.XP.Render(fmt.Sprintf("%d", s.attempt.XP())))
	return b.String()
}

func (s *LessonScreen) renderComplete(cw int) string {
	r := s.result
	var parts []string

	parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(theme.Success).Render("Lesson complete!"), "")
	parts = append(parts, components.StatCard(fmt.Sprintf("%d%%", r.Score), "score", min(cw, 40)))
	parts = append(parts, theme.Body.Render(fmt.Sprintf("%d of %d correct", r.Correct, r.Total)))
	parts = append(parts, theme.XP.Render(fmt.Sprintf("+%d XP", r.FinalXP)))

	if o := s.outcome; o != nil {
		if o.LevelUp() {
			parts = append(parts, "", lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).
				Render(fmt.Sprintf("Level up! You are now Lv %d %s", o.Profile.Level, progress.LevelTitle(o.Profile.Level))))
		}
		if o.Profile.StreakDays > 0 {
			parts = append(parts, theme.Subtitle.Render(fmt.Sprintf("%d day streak", o.Profile.StreakDays)))
		}
	} else if s.persistErr != nil {
		parts = append(parts, "", theme.ErrorText.Render("Not saved to your profile."))
	}

	parts = append(parts, "", theme.Hint.Render("Press enter to return to the dashboard."))
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}
