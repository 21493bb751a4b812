package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Class names the colour role of a cell.
type Class int

const (
	ClassPlain Class = iota
	ClassHeading
	ClassLog1
	ClassLog2
	ClassLogDebug
	ClassLogError
	ClassNotice
	ClassFind
	ClassChatQuery
	ClassChatResponse
	ClassCommand
	ClassInput
	ClassMeter
	ClassMeterLoud
	ClassMeterQuiet
	ClassActive
	ClassInactive
)

// sourceClasses colour log lines by source id.
var sourceClasses = []Class{ClassLog2, ClassLog1}

// SourceClass returns the colour class for lines of source id.
func SourceClass(id int) Class {
	if id < 0 {
		return ClassNotice
	}
	return sourceClasses[id%len(sourceClasses)]
}

type cell struct {
	r     rune
	class Class
	// cont marks the right half of a double-width rune.
	cont bool
}

// Canvas is a fixed-size grid of styled cells. Drawing outside the grid is
// clipped.
type Canvas struct {
	width  int
	height int
	cells  []cell
}

// NewCanvas returns a blank canvas.
func NewCanvas(width, height int) *Canvas {
	width = max(width, 0)
	height = max(height, 0)
	c := &Canvas{width: width, height: height, cells: make([]cell, width*height)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

// Width of the canvas in cells.
func (c *Canvas) Width() int { return c.width }

// Height of the canvas in rows.
func (c *Canvas) Height() int { return c.height }

// Draw writes text starting at column x of row y and returns the column
// after the last cell written. Control characters are drawn as spaces.
func (c *Canvas) Draw(x, y int, text string, class Class) int {
	if y < 0 || y >= c.height {
		return x
	}
	for _, r := range text {
		if x >= c.width {
			break
		}
		if r < ' ' || r == 0x7f {
			r = ' '
		}
		w := ansi.StringWidth(string(r))
		if w == 0 {
			continue
		}
		if x < 0 {
			x += w
			continue
		}
		if x+w > c.width {
			break
		}
		c.set(x, y, cell{r: r, class: class})
		if w == 2 {
			c.set(x+1, y, cell{class: class, cont: true})
		}
		x += w
	}
	return x
}

// Fill pads row y from column x to the right edge with r.
func (c *Canvas) Fill(x, y int, r rune, class Class) {
	if y < 0 || y >= c.height {
		return
	}
	for col := max(x, 0); col < c.width; col++ {
		c.set(col, y, cell{r: r, class: class})
	}
}

func (c *Canvas) set(x, y int, v cell) {
	c.cells[y*c.width+x] = v
}

// Lines returns the unstyled rows with trailing spaces removed.
func (c *Canvas) Lines() []string {
	lines := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		var b strings.Builder
		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if !cl.cont {
				b.WriteRune(cl.r)
			}
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

// String joins Lines with newlines.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

// Render styles runs of equal class with the theme and joins the rows.
func (c *Canvas) Render(styles Styles) string {
	var out strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		var (
			run   strings.Builder
			class = ClassPlain
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			out.WriteString(styles.For(class).Render(run.String()))
			run.Reset()
		}
		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if cl.cont {
				continue
			}
			if cl.class != class {
				flush()
				class = cl.class
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return out.String()
}
