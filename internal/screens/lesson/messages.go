package lesson

import (
	"github.com/abhisek/promptquest/internal/gate"
	"github.com/abhisek/promptquest/internal/loader"
	"github.com/abhisek/promptquest/internal/progress"
)

// sessionCheckedMsg carries the gate result taken when the screen opens.
type sessionCheckedMsg struct {
	result gate.Result
}

// contentLoadedMsg is sent when the lesson and its exercises are fetched.
type contentLoadedMsg struct {
	content *loader.Content
	err     error
}

// persistDoneMsg is sent when the completion has been written, or failed to.
type persistDoneMsg struct {
	outcome *progress.Outcome
	err     error
}
