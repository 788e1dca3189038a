package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/promptquest/internal/account"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := open(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := requestContext(cmd, d)
		defer cancel()
		if err := account.NewService(d.client, d.log).SignOut(ctx); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}
