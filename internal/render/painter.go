package render

import (
	"fmt"
	"strings"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/logbuf"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/meter"
	"github.com/OpenVoiceOS/ovos-cli-client/internal/state"
)

// Layout constants of the main screen.
const (
	headerRows = 2
	// mainChrome is every row of the main screen that is not log viewport
	// or chat: two header rows, the panel titles and two command rows.
	mainChrome = 5
)

// LevelSource supplies the microphone meter reading.
type LevelSource interface {
	Reading() meter.Reading
}

// TranscriptSource supplies the chat transcript.
type TranscriptSource interface {
	Entries() []string
}

// Painter lays out frames from the session.
type Painter struct {
	Session    *state.Session
	Chat       TranscriptSource
	Level      LevelSource
	Sources    []string
	ThemeStyle Styles
}

// NewPainter returns a painter using theme.
func NewPainter(session *state.Session, chat TranscriptSource, level LevelSource, sources []string, theme Theme) *Painter {
	return &Painter{
		Session:    session,
		Chat:       chat,
		Level:      level,
		Sources:    sources,
		ThemeStyle: theme.Styles(),
	}
}

// Canvas paints one frame. The transcript and the meter are read first
// under their own locks; the log and the view are read under the session
// lock for the whole layout.
func (p *Painter) Canvas() *Canvas {
	var entries []string
	if p.Chat != nil {
		entries = p.Chat.Entries()
	}
	var reading meter.Reading
	if p.Level != nil {
		reading = p.Level.Reading()
	}

	var c *Canvas
	p.Session.Paint(func(logs *logbuf.Buffer, v *state.View) {
		c = NewCanvas(v.Width, v.Height)
		switch v.Mode {
		case state.ModeHelp:
			drawHelp(c, v.HelpPage)
		case state.ModeListing:
			drawListing(c, v.Listing)
		default:
			p.drawMain(c, logs, v, entries, reading)
		}
	})
	return c
}

// Frame paints and styles one frame.
func (p *Painter) Frame() string {
	return p.Canvas().Render(p.ThemeStyle)
}

// LogRows is the height of the log viewport for a screen height tall with
// chatRows rows of history.
func LogRows(height, chatRows int) int {
	return max(height-(chatRows+mainChrome), 0)
}

func (p *Painter) drawMain(c *Canvas, logs *logbuf.Buffer, v *state.View, entries []string, reading meter.Reading) {
	w, h := c.Width(), c.Height()
	if w <= 0 || h <= 0 {
		return
	}
	chatRows := min(max(v.ChatRows, state.MinChatRows), v.MaxChatRows())

	// The marker row below the newest line counts as one more line.
	total := logs.FilteredLen() + 1
	rows := LogRows(h, chatRows)
	win := ComputeWindow(total, v.LogOffset, rows)
	v.LogOffset = min(win.Offset, logs.FilteredLen())
	v.AutoScroll = win.AutoScroll
	v.LogRows = rows

	p.drawHeader(c, logs, win, total)
	p.drawLogs(c, logs, v, win)

	yPanel := h - (3 + chatRows)
	half := w / 2
	p.drawLegend(c, half+2, yPanel, w-half-2, chatRows)
	if v.ShowMeter && reading.Valid {
		c.Draw(w-14, yPanel, " Mic Level ", ClassHeading)
	}

	chatWidth := half - 2
	c.Draw(0, yPanel, titlebar("History", chatWidth), ClassHeading)
	y := h - (2 + chatRows)
	for _, line := range chatLines(entries, chatWidth, chatRows) {
		c.Draw(1, y, line, chatClass(line))
		y++
	}

	p.drawCommandLine(c, v, reading, chatRows)
}

func (p *Painter) drawHeader(c *Canvas, logs *logbuf.Buffer, win Window, total int) {
	w := c.Width()
	counts := fmt.Sprintf("%d-%d of %d", win.Start, win.End, total)
	if term, searching := logs.Search(); searching {
		x := c.Draw(0, 0, "Search Results: ", ClassHeading)
		x = c.Draw(x, 0, term, ClassFind)
		c.Draw(x, 0, " ctrl+X to end", ClassHeading)
	} else {
		c.Draw(0, 0, "Log Output:", ClassHeading)
	}
	c.Draw(w-len(counts)-1, 0, counts, ClassHeading)

	c.Fill(0, 1, '=', ClassHeading)
	c.Draw(w-1-len(versionBanner), 1, versionBanner, ClassHeading)
	c.Draw(w-1, 1, " ", ClassPlain)
}

func (p *Painter) drawLogs(c *Canvas, logs *logbuf.Buffer, v *state.View, win Window) {
	w := c.Width()
	y := headerRows
	for i := win.Start; i < win.End; i++ {
		if i >= logs.FilteredLen() {
			c.Draw(0, y, newestMarker, ClassLog2)
			y++
			continue
		}
		line := logs.FilteredAt(i)
		text, class := presentLog(line.Text, line.Source)
		if line.IsSystem() {
			class = ClassNotice
		}
		v.LongestLine = max(v.LongestLine, len([]rune(text)))
		c.Draw(0, y, excerpt(text, w, v.HScroll), class)
		y++
	}
}

func (p *Painter) drawLegend(c *Canvas, x, y, width, rows int) {
	c.Draw(x, y, titlebar("Log Output Legend", width), ClassHeading)
	c.Draw(x, y+1, "DEBUG output", ClassLogDebug)
	for i, name := range p.Sources {
		if i+2 > rows {
			break
		}
		if i == 0 && len(p.Sources) > len(sourceClasses) {
			name += ", other"
		}
		c.Draw(x, y+2+i, name, SourceClass(i))
	}
}

func (p *Painter) drawCommandLine(c *Canvas, v *state.View, reading meter.Reading, chatRows int) {
	w, h := c.Width(), c.Height()
	text := v.Input
	if v.CommandMode() {
		c.Draw(0, h-2, "Command ('help' for options):", ClassCommand)
		c.Draw(0, h-1, ":", ClassCommand)
		text = text[1:]
	} else {
		prompt := "Input (':' for command, Ctrl+C to quit)"
		if v.ShowLastKey {
			prompt += " === keycode: " + v.LastKey
		}
		c.Draw(0, h-2, titlebar(prompt, w-1), ClassHeading)
		c.Draw(0, h-1, ">", ClassHeading)
	}

	visible := w - 3
	if v.ShowMeter {
		drawMeter(c, reading, chatRows+2)
		if reading.Valid {
			visible -= meterWidth(reading)
		}
	}
	c.Draw(2, h-1, strings.Repeat(" ", max(visible, 0)), ClassInput)
	c.Draw(2, h-1, tail(text, visible), ClassInput)
}
