package dashboard

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyInterval    = "i"
	KeyToggle      = " "
	KeyToggleAlt   = "m"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeyExpand      = "enter"
	KeyCollapse    = "esc"
	KeyDismiss     = "x"
	KeyToggleHelp  = "?"

	// Expanded-view keys
	KeyRange1h     = "1"
	KeyRange6h     = "2"
	KeyRange24h    = "3"
	KeyCycleRange  = "t"
	KeyCycleMetric = "tab"
	KeyExport      = "e"
)
