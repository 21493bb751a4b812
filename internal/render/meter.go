package render

import (
	"fmt"
	"strings"

	"github.com/OpenVoiceOS/ovos-cli-client/internal/meter"
)

// drawMeter paints the level meter into the bottom right corner, height
// rows tall. The left column holds the current level at its height, the
// right column the threshold behind a "---" marker, and the bar between
// them fills up to the current level.
//
//	8     *
//	      *
//	     -*- 2.40
//	      *
func drawMeter(c *Canvas, r meter.Reading, height int) {
	if !r.Valid || height <= 0 {
		return
	}
	scale := r.Scale()
	if scale <= 0 {
		scale = 1
	}
	hCur := min(max(int(r.Current/scale*float64(height)), 0), height-1)
	hThresh := min(max(int(r.Threshold/scale*float64(height)), 0), height-1)

	level := fmt.Sprintf("%3d ", int(r.Current))
	thresh := fmt.Sprintf("%4.2f", r.Threshold)
	width := len(level) + len(thresh) + 4

	barClass := ClassMeterQuiet
	if r.Loud() {
		barClass = ClassMeterLoud
	}

	for i := 0; i < height; i++ {
		var b strings.Builder
		if i == hCur {
			b.WriteString(level)
		} else {
			b.WriteString(strings.Repeat(" ", len(level)))
		}
		if i == hThresh {
			b.WriteString("--- ")
			b.WriteString(thresh)
		} else {
			b.WriteString("    ")
		}
		row := b.String()
		row += strings.Repeat(" ", width-len(row))

		y := c.Height() - 1 - i
		c.Draw(c.Width()-len(row)-1, y, row, ClassMeter)
		if i <= hCur {
			c.Draw(c.Width()-len(thresh)-4, y, "*", barClass)
		}
	}
}

// meterWidth is the number of columns drawMeter uses.
func meterWidth(r meter.Reading) int {
	return len(fmt.Sprintf("%3d ", int(r.Current))) + len(fmt.Sprintf("%4.2f", r.Threshold)) + 5
}
