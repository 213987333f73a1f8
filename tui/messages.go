package tui

import (
	"github.com/moyu-x/file-organizer/pkg/progress"
)

type progressMsg progress.Event

type executeDoneMsg struct {
	succeeded int
}
