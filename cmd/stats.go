package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/promptquest/internal/backend"
	"github.com/abhisek/promptquest/internal/dashboard"
	"github.com/abhisek/promptquest/internal/gate"
)

var errNotSignedIn = errors.New("not signed in: run promptquest to sign in")

// principal returns the signed-in learner or errNotSignedIn.
func principal(cmd *cobra.Command, d *deps) (*backend.Principal, error) {
	ctx, cancel := requestContext(cmd, d)
	defer cancel()

	res := gate.New(d.client, d.log).Check(ctx)
	switch res.Status {
	case gate.Authenticated:
		return res.Principal, nil
	case gate.Unavailable:
		return nil, fmt.Errorf("check session: %w", res.Err)
	}
	return nil, errNotSignedIn
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your XP, streak and completed lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := open(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		p, err := principal(cmd, d)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext(cmd, d)
		defer cancel()
		s, err := dashboard.Load(ctx, d.client, p)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		fmt.Printf("%s (%s)\n", s.DisplayName, p.Email)
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Level:    %d %s\n", s.Profile.Level, s.LevelTitle())
		fmt.Printf("XP:       %d\n", s.Profile.XP)
		fmt.Printf("Streak:   %d days\n", s.CurrentStreak(time.Now()))
		fmt.Printf("Track:    %d/%d lessons (%d%%)\n", s.Completed(), s.Total(), s.TrackPercent())

		if s.Completed() > 0 {
			fmt.Println()
			fmt.Println("Completed")
			for _, l := range s.Lessons {
				if l.Completed {
					fmt.Printf("  %-40s  %3d%%\n", truncate(l.Lesson.Title, 40), l.Score)
				}
			}
		}
		if next := s.Next(); next != nil {
			fmt.Printf("\nUp next: %s\n", next.Title)
		}
		return nil
	},
}
