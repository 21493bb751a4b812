package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// escapeTimeout is how long a started escape sequence waits for its next
// byte before it is taken as a lone ESC.
const escapeTimeout = time.Second

type escState int

const (
	escIdle escState = iota
	escSawEscape
	escSawByte1
)

type escAction int

const (
	// escPass hands Key to the normal key handling.
	escPass escAction = iota
	// escHold swallows the key while a sequence is incomplete.
	escHold
	// escClear is ESC ESC: clear the input line.
	escClear
	// escKey is a decoded sequence; Key holds the navigation key.
	escKey
	// escDrop is a finished sequence that means nothing.
	escDrop
)

type escResult struct {
	Action escAction
	Key    tea.KeyMsg
	// Label names what was pressed for the keycode display.
	Label string
}

// Some terminals send keypad keys as ESC O <byte> instead of the sequences
// bubbletea already knows.
var ss3Keys = map[rune]tea.KeyType{
	'x': tea.KeyUp,
	't': tea.KeyLeft,
	'r': tea.KeyDown,
	'v': tea.KeyRight,
	'y': tea.KeyPgUp,
	's': tea.KeyPgDown,
	'w': tea.KeyHome,
	'q': tea.KeyEnd,
}

var csiKeys = map[rune]tea.KeyType{
	'A': tea.KeyUp,
	'B': tea.KeyDown,
	'C': tea.KeyRight,
	'D': tea.KeyLeft,
	'H': tea.KeyHome,
	'F': tea.KeyEnd,
}

// escapeDecoder turns split escape sequences back into keys. Input
// arrives one key at a time: a lone ESC, then 'O' or '[', then the final
// byte. bubbletea reports ESC followed quickly by a rune as alt+rune,
// which is treated the same way.
type escapeDecoder struct {
	state escState
	intro rune
	since time.Time
}

// Pending reports whether a sequence is in progress.
func (d *escapeDecoder) Pending() bool {
	return d.state != escIdle
}

// Expire abandons a sequence older than escapeTimeout. It reports true
// when the abandoned sequence was a lone ESC, which clears the input line.
func (d *escapeDecoder) Expire(now time.Time) bool {
	if d.state == escIdle || now.Sub(d.since) < escapeTimeout {
		return false
	}
	lone := d.state == escSawEscape
	d.state = escIdle
	return lone
}

// Feed advances the state machine with one key. Multi-rune key messages
// must be split before feeding.
func (d *escapeDecoder) Feed(k tea.KeyMsg, now time.Time) escResult {
	switch d.state {
	case escIdle:
		if k.Type == tea.KeyEscape {
			if k.Alt {
				return escResult{Action: escClear, Label: "ESC+ESC"}
			}
			d.state, d.since = escSawEscape, now
			return escResult{Action: escHold, Label: "ESC"}
		}
		if k.Alt && k.Type == tea.KeyRunes && len(k.Runes) == 1 {
			d.state, d.since = escSawEscape, now
			return d.Feed(tea.KeyMsg{Type: tea.KeyRunes, Runes: k.Runes}, now)
		}
		return escResult{Action: escPass, Key: k, Label: k.String()}

	case escSawEscape:
		if k.Type == tea.KeyEscape {
			d.state = escIdle
			return escResult{Action: escClear, Label: "ESC+ESC"}
		}
		d.state = escIdle
		if k.Type != tea.KeyRunes || len(k.Runes) != 1 {
			return escResult{Action: escPass, Key: k, Label: k.String()}
		}
		if r := k.Runes[0]; r == 'O' || r == '[' {
			d.state, d.intro = escSawByte1, r
			return escResult{Action: escHold, Label: "ESC+" + string(r)}
		}
		return escResult{Action: escDrop, Label: "ESC+" + string(k.Runes)}

	default:
		d.state = escIdle
		if k.Type != tea.KeyRunes || len(k.Runes) != 1 {
			return escResult{Action: escPass, Key: k, Label: k.String()}
		}
		label := "ESC+" + string(d.intro) + "+" + string(k.Runes)
		table := ss3Keys
		if d.intro == '[' {
			table = csiKeys
		}
		if t, ok := table[k.Runes[0]]; ok {
			return escResult{Action: escKey, Key: tea.KeyMsg{Type: t}, Label: label}
		}
		return escResult{Action: escDrop, Label: label}
	}
}

// splitKey breaks a multi-rune key message into one message per rune so
// each can be fed to the decoder. Pasted text stays whole.
func splitKey(k tea.KeyMsg) []tea.KeyMsg {
	if k.Type != tea.KeyRunes || len(k.Runes) <= 1 || k.Paste {
		return []tea.KeyMsg{k}
	}
	out := make([]tea.KeyMsg, len(k.Runes))
	for i, r := range k.Runes {
		out[i] = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: k.Alt && i == 0}
	}
	return out
}
