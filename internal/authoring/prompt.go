package authoring

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write lessons for PromptQuest, a short-form course that teaches people how to write better prompts for AI models. Lessons are practical, concrete and free of hype. Exercises are multiple choice with exactly one defensible answer.`

// maxAvoid bounds how many existing titles are listed in the prompt.
const maxAvoid = 20

func userMessage(b Brief) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Topic: %s\n", b.Topic)
	audience := b.Audience
	if audience == "" {
		audience = "curious beginners with no technical background"
	}
	fmt.Fprintf(&sb, "Audience: %s\n", audience)
	if b.Minutes > 0 {
		fmt.Fprintf(&sb, "Target length: about %d minutes of reading\n", b.Minutes)
	}
	fmt.Fprintf(&sb, "Exercises: exactly %d\n", b.Exercises)

	sb.WriteString("\nLessons already in the track:\n")
	sb.WriteString(avoidList(b.Avoid))

	sb.WriteString(`

Instructions:
1. Write a title and a one or two sentence intro.
2. Write 2 to 4 sections. Each section teaches one idea and includes a short before/after prompt example where it helps.
3. Write the exercises. Each has 3 or 4 options, one correct option, and an explanation of why it is correct.
4. Vary the position of the correct option across exercises.
5. Do not repeat a lesson already in the track.
6. Plain text only. No Markdown headings.`)

	return sb.String()
}

// avoidList numbers the most recent titles, or "None".
func avoidList(titles []string) string {
	if len(titles) == 0 {
		return "None"
	}
	if len(titles) > maxAvoid {
		titles = titles[len(titles)-maxAvoid:]
	}
	var sb strings.Builder
	for i, t := range titles {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t)
	}
	return strings.TrimRight(sb.String(), "\n")
}
