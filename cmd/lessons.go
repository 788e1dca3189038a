package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/ui/components"
	"github.com/abhisek/promptquest/internal/loader"
	"github.com/abhisek/promptquest/internal/records"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Browse the lesson track",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lessons in track order",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := open(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := requestContext(cmd, d)
		defer cancel()
		if err := ensureTrack(ctx, d); err != nil {
			return err
		}

		recs, err := d.client.QueryMany(ctx, backend.From(backend.TableLessons).OrderBy(backend.Asc("order_index")))
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}
		lessons, err := records.DecodeLessons(recs)
		if err != nil {
			return err
		}
		if len(lessons) == 0 {
			fmt.Println("No lessons yet. Add some with: promptquest seed <catalog.yaml>")
			return nil
		}

		fmt.Printf("%-5s  %-36s  %-36s  %4s  %4s\n", "Order", "ID", "Title", "Min", "XP")
		fmt.Println(strings.Repeat("─", 93))
		for _, l := range lessons {
			fmt.Printf("%-5d  %-36s  %-36s  %4d  %4d\n",
				l.OrderIndex, l.ID, truncate(l.Title, 36), l.DurationMinutes, l.XPReward)
		}
		fmt.Printf("\n%d lessons\n", len(lessons))
		return nil
	},
}

var lessonsShowCmd = &cobra.Command{
	Use:   "show <lesson-id>",
	Short: "Print a lesson with its exercises and answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := open(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := requestContext(cmd, d)
		defer cancel()
		c, err := loader.Load(ctx, d.client, args[0])
		if err != nil {
			return err
		}
		printLesson(c.Lesson, c.Exercises)
		return nil
	},
}

func printLesson(l records.Lesson, exs []records.Exercise) {
	sep := strings.Repeat("─", 60)

	fmt.Println(l.Title)
	fmt.Printf("%d min, %d XP, position %d\n", l.DurationMinutes, l.XPReward, l.OrderIndex)
	if l.ID != "" {
		fmt.Printf("ID: %s\n", l.ID)
	}
	fmt.Println(sep)
	if l.Content.Intro != nil {
		fmt.Println(l.Content.Intro.Content)
		fmt.Println()
	}
	for _, s := range l.Content.Sections {
		fmt.Printf("## %s\n%s\n\n", s.Title, s.Content)
	}

	for i, ex := range exs {
		fmt.Println(sep)
		fmt.Printf("Question %d/%d (+%d XP)\n", i+1, len(exs), ex.XPReward)
		fmt.Println(ex.Content.Question)
		for j, o := range ex.Content.Options {
			mark := " "
			if j == ex.CorrectAnswer.CorrectIndex {
				mark = "*"
			}
			fmt.Printf(" %s %s) %s\n", mark, components.OptionLabel(j), o)
		}
		if ex.Content.Explanation != "" {
			fmt.Printf("Explanation: %s\n", ex.Content.Explanation)
		}
	}
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}

func init() {
	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsShowCmd)
}
