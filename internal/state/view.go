package state

// Mode selects which screen is painted.
type Mode int

const (
	ModeMain Mode = iota
	ModeHelp
	ModeListing
)

func (m Mode) String() string {
	switch m {
	case ModeHelp:
		return "help"
	case ModeListing:
		return "listing"
	default:
		return "main"
	}
}

// Default view settings.
const (
	DefaultChatRows = 10
	MinChatRows     = 1
)

// ListingKind controls how a Listing is laid out.
type ListingKind int

const (
	// ListingColumns flows items down then across screen columns.
	ListingColumns ListingKind = iota
	// ListingText prints items as indented rows.
	ListingText
)

// ListingItem is one row of a Listing.
type ListingItem struct {
	Text     string
	Indent   int
	Emphasis bool
	Dim      bool
}

// Listing is a full-screen report such as the skill list or a skill API.
type Listing struct {
	Title string
	Kind  ListingKind
	Items []ListingItem
	Page  int
}

// View is the mutable screen state every worker and the renderer share.
type View struct {
	Mode   Mode
	Width  int
	Height int

	// LogOffset counts lines back from the newest filtered line.
	LogOffset   int
	AutoScroll  bool
	HScroll     int
	LongestLine int
	// LogRows is the height of the log viewport from the last frame.
	LogRows int

	Input         string
	HistoryCursor int

	ChatRows    int
	ShowMeter   bool
	ShowLastKey bool
	LastKey     string

	HelpPage int
	Listing  *Listing
}

// DefaultView returns the view at startup.
func DefaultView() View {
	return View{
		Mode:          ModeMain,
		AutoScroll:    true,
		HistoryCursor: -1,
		ChatRows:      DefaultChatRows,
		ShowMeter:     true,
	}
}

// CommandMode reports whether the input line is a command.
func (v View) CommandMode() bool {
	return len(v.Input) > 0 && v.Input[0] == ':'
}

// MaxChatRows is the tallest chat panel the current height allows.
func (v View) MaxChatRows() int {
	return max(v.Height-7, MinChatRows)
}
