package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/promptquest/internal/catalog"
)

var seedCmd = &cobra.Command{
	Use:   "seed [catalog.yaml]",
	Short: "Load a lesson catalog into the backend",
	Long: `Validate a YAML lesson catalog and upsert its lessons and exercises.

Without a file the built-in prompt engineering track is seeded. Reseeding
the same catalog updates rows in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *catalog.Catalog
			err error
		)
		if len(args) == 1 {
			c, err = catalog.LoadFile(args[0])
		} else {
			c, err = catalog.Default()
		}
		if err != nil {
			return err
		}

		d, err := open(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := requestContext(cmd, d)
		defer cancel()
		st, err := catalog.Seed(ctx, d.client, c)
		if err != nil {
			d.log.Error("seed failed", "track", c.Track, "error", err)
			return err
		}

		d.log.Info("seeded catalog", "track", c.Track, "lessons", st.Lessons, "exercises", st.Exercises)
		fmt.Printf("Seeded %q: %d lessons, %d exercises\n", c.Track, st.Lessons, st.Exercises)
		return nil
	},
}
