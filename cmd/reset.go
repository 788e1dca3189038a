package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase your progress on the local backend",
	Long: `Delete every completed lesson and reset XP, level and streak for the
signed-in learner. Only the local backend supports this.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		d, err := open(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.local == nil {
			return fmt.Errorf("reset is only supported on the local backend")
		}
		p, err := principal(cmd, d)
		if err != nil {
			return err
		}

		if !yes {
			fmt.Printf("Erase all progress for %s? [y/N] ", p.Email)
			scanner := bufio.NewScanner(os.Stdin)
			if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		ctx, cancel := requestContext(cmd, d)
		defer cancel()
		if err := d.local.ResetUser(ctx, p.ID); err != nil {
			d.log.Error("reset failed", "user", p.ID, "error", err)
			return err
		}
		d.log.Info("progress reset", "user", p.ID)
		fmt.Println("Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
