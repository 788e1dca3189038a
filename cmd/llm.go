package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/promptquest/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM provider used for lesson authoring",
}

var llmConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved provider, model and pricing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		c := cfg.LLM
		if !c.Discover() {
			fmt.Println("No LLM provider configured.")
			fmt.Println("Set PROMPTQUEST_LLM_PROVIDER or one of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY.")
			return nil
		}

		fmt.Printf("Provider:  %s\n", c.Provider)
		fmt.Printf("Model:     %s\n", c.Model)
		fmt.Printf("API key:   %s\n", redactKey(c.APIKey))
		if c.BaseURL != "" {
			fmt.Printf("Base URL:  %s\n", c.BaseURL)
		}
		fmt.Printf("Timeout:   %s\n", c.Timeout)
		fmt.Printf("Retries:   %d attempts, %s initial backoff\n", c.Retry.Attempts, c.Retry.Initial)
		if p, ok := llm.LookupPrice(c.Model); ok {
			fmt.Printf("Pricing:   $%.2f in / $%.2f out per million tokens\n", p.Input, p.Output)
		} else {
			fmt.Println("Pricing:   unknown")
		}
		if err := c.Validate(); err != nil {
			fmt.Printf("\nProblem:   %v\n", err)
		}
		return nil
	},
}

// checkSchema is the smallest structured reply a vendor can give.
var checkSchema = &llm.Schema{
	Name:        "health_check",
	Description: "Connectivity check",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"ok": map[string]any{"type": "boolean"},
		},
		"required":             []any{"ok"},
		"additionalProperties": false,
	},
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Send a tiny request to verify the provider works",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := open(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		c := d.cfg.LLM
		if !c.Discover() {
			return fmt.Errorf("no LLM provider configured: set PROMPTQUEST_LLM_PROVIDER or a vendor API key")
		}
		ctx, cancel := withTimeout(commandContext(cmd), c.Timeout)
		defer cancel()

		p, err := llm.New(ctx, c, d.log)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		resp, err := p.Generate(llm.WithPurpose(ctx, "check"), llm.Request{
			Messages:  llm.UserPrompt(`Reply with {"ok": true}.`),
			Schema:    checkSchema,
			MaxTokens: 32,
		})
		if err != nil {
			return fmt.Errorf("check %s: %w", c.Provider, err)
		}

		fmt.Printf("OK: %s answered (%d in / %d out tokens", resp.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
		if price, ok := llm.LookupPrice(p.Model()); ok {
			fmt.Printf(", %s", formatCost(price.Cost(resp.Usage)))
		}
		fmt.Println(")")
		return nil
	},
}

func redactKey(k string) string {
	switch {
	case k == "":
		return "(none)"
	case len(k) <= 8:
		return strings.Repeat("*", len(k))
	}
	return k[:4] + strings.Repeat("*", 8) + k[len(k)-4:]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmConfigCmd)
	llmCmd.AddCommand(llmCheckCmd)
}
