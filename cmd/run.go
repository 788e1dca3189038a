package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/promptquest/internal/app"
)

// runApp opens the backend and launches the TUI. A non-empty lessonID
// starts straight in that lesson.
func runApp(cmd *cobra.Command, lessonID string) error {
	d, err := open(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := requestContext(cmd, d)
	err = ensureTrack(ctx, d)
	cancel()
	if err != nil {
		return err
	}

	d.log.Info("starting tui", "lesson", lessonID)
	return app.Run(app.Options{
		Client:   d.client,
		Log:      d.log,
		Timeout:  d.cfg.RequestTimeout,
		LessonID: lessonID,
	})
}
