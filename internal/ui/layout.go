package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which species and the
	// status badge are hidden.
	LayoutCompactWidth = 70

	// DetailPanelWidth is the preferred width of the detail panel.
	DetailPanelWidth = 60
)

// List behaviour.
const (
	// LoadMoreThreshold is how close to the end of the list the cursor has
	// to be before the next page is requested.
	LoadMoreThreshold = 5

	// chromeLines is the number of rows used by header, search bar and
	// footer.
	chromeLines = 3
)
