package dashboard

import (
	"github.com/rileyhilliard/hostwatch/internal/modal"
	"github.com/rileyhilliard/hostwatch/internal/render"
)

// hostUpdateMsg carries a freshly committed view model for one host.
type hostUpdateMsg struct {
	view *render.HostView
}

// hostErrorMsg carries a per-host poll failure for the inline indicator.
// It never affects any other host's display.
type hostErrorMsg struct {
	host int
	err  error
}

// modalLoadedMsg carries a completed expanded-view series load.
type modalLoadedMsg struct {
	res *modal.Result
}

// modalErrorMsg carries a failed expanded-view load.
type modalErrorMsg struct {
	err error
}

// exportedMsg reports the outcome of a CSV export.
type exportedMsg struct {
	path string
	err  error
}
