package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/promptquest/internal/authoring"
	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/catalog"
	"github.com/abhisek/promptquest/internal/llm"
	"github.com/abhisek/promptquest/internal/records"
)

var authorCmd = &cobra.Command{
	Use:   "author",
	Short: "Draft a new lesson with a language model",
	Long: `Generate a lesson and its multiple-choice exercises with the configured
LLM provider. The draft is checked against the lesson schema and written as
catalog YAML to stdout or --out. Pass --seed to load it into the backend.

The provider comes from PROMPTQUEST_LLM_PROVIDER or the first vendor key
found among ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY and
OPENROUTER_API_KEY.`,
	RunE: runAuthor,
}

func init() {
	f := authorCmd.Flags()
	f.String("topic", "", "What the lesson teaches (required)")
	f.String("audience", "", "Who the lesson is for")
	f.Int("exercises", 3, fmt.Sprintf("Number of exercises (1-%d)", authoring.MaxExercises))
	f.Int("minutes", 5, "Expected duration in minutes")
	f.Int("xp", 0, "Lesson XP reward (default from authoring config)")
	f.String("track", "Authored lessons", "Track name written to the catalog")
	f.StringP("out", "o", "", "Write catalog YAML to this file instead of stdout")
	f.Bool("seed", false, "Upsert the generated lesson into the backend")
	f.Bool("preview", false, "Take the generated quiz in the terminal before saving")
	_ = authorCmd.MarkFlagRequired("topic")
}

func runAuthor(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	topic, _ := f.GetString("topic")
	audience, _ := f.GetString("audience")
	count, _ := f.GetInt("exercises")
	minutes, _ := f.GetInt("minutes")
	xp, _ := f.GetInt("xp")
	track, _ := f.GetString("track")
	out, _ := f.GetString("out")
	seed, _ := f.GetBool("seed")
	preview, _ := f.GetBool("preview")

	d, err := open(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	brief := authoring.Brief{
		Topic:     topic,
		Audience:  audience,
		Exercises: count,
		Minutes:   minutes,
		XPReward:  xp,
	}
	if err := brief.Validate(); err != nil {
		return err
	}
	existing := existingLessons(cmd, d)
	for _, l := range existing {
		brief.Avoid = append(brief.Avoid, l.Title)
		brief.OrderIndex = max(brief.OrderIndex, l.OrderIndex+1)
	}

	llmCfg := d.cfg.LLM
	if !llmCfg.Discover() {
		return fmt.Errorf("no LLM provider configured: set PROMPTQUEST_LLM_PROVIDER or a vendor API key")
	}

	attempts := max(llmCfg.Retry.Attempts, 1)
	ctx, cancel := withTimeout(commandContext(cmd), llmCfg.Timeout*time.Duration(attempts))
	defer cancel()

	provider, err := llm.New(ctx, llmCfg, d.log)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Drafting %q with %s (%s)...\n", topic, llmCfg.Provider, provider.Model())
	entry, err := authoring.NewGenerator(provider, authoring.DefaultConfig()).Generate(ctx, brief)
	if err != nil {
		return err
	}

	if preview {
		res := runQuiz(entry, os.Stdin, os.Stderr)
		fmt.Fprintf(os.Stderr, "── Summary: %d/%d correct ──\n\n", res.correct, res.total)
	}

	c := &catalog.Catalog{Track: track, Lessons: []catalog.Entry{*entry}}
	data, err := catalog.Marshal(c)
	if err != nil {
		return err
	}
	if out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write catalog: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	} else if !seed {
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	}

	if seed {
		sctx, scancel := requestContext(cmd, d)
		defer scancel()
		st, err := catalog.Seed(sctx, d.client, c)
		if err != nil {
			return err
		}
		d.log.Info("seeded authored lesson", "lesson", entry.ID, "exercises", st.Exercises)
		fmt.Fprintf(os.Stderr, "Seeded %q (%s) with %d exercises\n", entry.Title, entry.ID, st.Exercises)
	}
	return nil
}

// existingLessons reads the current track so a new lesson can avoid
// repeating a title and go at the end. Failure is not fatal.
func existingLessons(cmd *cobra.Command, d *deps) []records.Lesson {
	ctx, cancel := requestContext(cmd, d)
	defer cancel()

	recs, err := d.client.QueryMany(ctx, backend.From(backend.TableLessons))
	if err == nil {
		var lessons []records.Lesson
		if lessons, err = records.DecodeLessons(recs); err == nil {
			return lessons
		}
	}
	d.log.Warn("could not read existing lessons", "error", err)
	return nil
}
