package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
)

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Log Scrolling shortcuts", []helpEntry{
		{"Up / Down / PgUp / PgDn", "scroll thru history"},
		{"Ctrl+T / Ctrl+PgUp", "scroll to top of logs (jump to oldest)"},
		{"Ctrl+B / Ctrl+PgDn", "scroll to bottom of logs (jump to newest)"},
		{"Left / Right", "scroll long lines left/right"},
		{"Home / End", "scroll to start/end of long lines"},
	}},
	{"Query History shortcuts", []helpEntry{
		{"Ctrl+P / Ctrl+Left", "previous query"},
		{"Ctrl+N / Ctrl+Right", "next query"},
	}},
	{"General Commands (type ':' to enter command mode)", []helpEntry{
		{":quit or :exit", "exit the program"},
		{":meter (show|hide)", "display the microphone level"},
		{":keycode (show|hide)", "display typed key codes (mainly debugging)"},
		{":history (# lines)", "set size of visible history buffer"},
		{":clear", "flush the logs"},
	}},
	{"Log Manipulation Commands", []helpEntry{
		{":filter 'STR'", "adds a log filter (optional quotes)"},
		{":filter remove 'STR'", "removes a log filter"},
		{":filter (clear|reset)", "reset filters"},
		{":filter (show|list)", "display current filters"},
		{":find 'STR'", "show logs containing 'str'"},
		{":log level (DEBUG|INFO|ERROR)", "set logging level"},
		{":log bus (on|off)", "control logging of messagebus messages"},
	}},
	{"Skill Debugging Commands", []helpEntry{
		{":skills", "list installed Skills"},
		{":api SKILL", "show Skill's public API"},
		{":activate SKILL", "activate Skill, e.g. 'activate skill-wiki'"},
		{":deactivate SKILL", "deactivate Skill"},
		{":keep SKILL", "deactivate all Skills except the indicated Skill"},
	}},
}

// helpHeaderFooter is the number of rows reserved around help text.
const helpHeaderFooter = 4

type styledLine struct {
	text  string
	class Class
}

func helpKeyWidth() int {
	longest := 0
	for _, s := range helpSections {
		for _, e := range s.entries {
			longest = max(longest, len(e.keys))
		}
	}
	return longest
}

// helpLines lays out every help row for a screen width wide.
func helpLines(width int) []styledLine {
	keyWidth := helpKeyWidth()
	rule := strings.Repeat("=", max(width-1, 0))

	var out []styledLine
	for _, s := range helpSections {
		out = append(out, styledLine{s.title, ClassHeading}, styledLine{rule, ClassHeading})
		for _, e := range s.entries {
			line := fmt.Sprintf("%-*s", keyWidth+1, e.keys)
			for _, w := range strings.Fields(e.desc) {
				if len(line)+1+len(w) < width {
					line += " " + w
					continue
				}
				out = append(out, styledLine{line, ClassCommand})
				line = strings.Repeat(" ", keyWidth+2) + w
			}
			out = append(out, styledLine{line, ClassCommand})
		}
		out = append(out, styledLine{" ", ClassCommand})
	}
	return out
}

func helpPaginator(width, height int) (paginator.Model, []styledLine) {
	lines := helpLines(width)
	p := paginator.New()
	p.PerPage = max(height-helpHeaderFooter, 1)
	p.SetTotalPages(len(lines))
	return p, lines
}

// HelpPages is the number of help pages on a width x height screen.
func HelpPages(width, height int) int {
	p, _ := helpPaginator(width, height)
	return max(p.TotalPages, 1)
}

func drawHelp(c *Canvas, page int) {
	p, lines := helpPaginator(c.Width(), c.Height())
	p.Page = min(max(page, 0), max(p.TotalPages-1, 0))

	title := "Mycroft Command Line Help"
	c.Draw(center(c.Width(), 25), 0, title, ClassHeading)
	c.Fill(0, 1, '=', ClassHeading)
	if c.Width() > 0 {
		c.Draw(c.Width()-1, 1, " ", ClassPlain)
	}

	start, end := p.GetSliceBounds(len(lines))
	y := 2
	for _, l := range lines[start:end] {
		c.Draw(0, y, l.text, l.class)
		y++
	}

	footer := fmt.Sprintf("Page %d of %d [ Any key to continue ]", p.Page+1, max(p.TotalPages, 1))
	c.Draw(center(c.Width(), len(footer)), c.Height()-1, footer, ClassHeading)
}
