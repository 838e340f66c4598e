package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
	Min   MinSize
}

// PaneConfig holds pane dimension configuration.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + pane borders (2) + status bar (2) = 6
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// ContentPadding is subtracted from terminal width for item rendering.
	// Accounts for app padding, pane border and pane padding on each side.
	ContentPadding int

	// URIColumnPercent is the share of the item width given to the URI when
	// a title is shown next to it.
	URIColumnPercent int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// HelpKeyColumnWidth: width of the key column in the help overlay.
	HelpKeyColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	SearchCharLimit int
	StandardWidth   int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// MinSize is the smallest usable terminal. Below it only a size notice is
// shown.
type MinSize struct {
	Width  int
	Height int
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction:  6, // app padding (1) + header (1) + pane borders (2) + status bar (2)
			MinHeight:        3,
			ContentPadding:   8,
			URIColumnPercent: 55,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 50,
			MinWidth:            40,
			MaxWidth:            70,
			HelpKeyColumnWidth:  14,
		},
		Input: InputConfig{
			SearchCharLimit: 200,
			StandardWidth:   60,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
		Min: MinSize{
			Width:  80,
			Height: 24,
		},
	}
}

// TooSmall reports whether a terminal of the given size is below min.
func (m MinSize) TooSmall(width, height int) bool {
	return width < m.Width || height < m.Height
}
