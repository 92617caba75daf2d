package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go3d/raster3d/pkg/pipeline"
)

// terminalDisplay composites a pipeline.Framebuffer down to terminal cells
// using the upper-half-block trick (▀ with its foreground/background set to
// two stacked framebuffer rows), writing truecolor ANSI escapes directly to
// stdout rather than going through a cell-grid abstraction.
type terminalDisplay struct {
	cols, rows int
	buf        strings.Builder
}

// newTerminalDisplay sizes a display for a terminal of cols x rows cells.
// Each cell covers two framebuffer rows, so FramebufferSize returns
// (cols, rows*2).
func newTerminalDisplay(cols, rows int) *terminalDisplay {
	return &terminalDisplay{cols: cols, rows: rows}
}

// FramebufferSize returns the pixel dimensions a Framebuffer should be
// allocated at to exactly fill this display.
func (d *terminalDisplay) FramebufferSize() (w, h int) {
	return d.cols, d.rows * 2
}

// Render composites fb into the display's internal buffer. Call Flush to
// write it to the terminal.
func (d *terminalDisplay) Render(fb *pipeline.Framebuffer) {
	d.buf.Reset()
	d.buf.WriteString("\x1b[H") // cursor home, avoids scrolling the alt screen

	for row := 0; row < d.rows; row++ {
		topY := row * 2
		botY := topY + 1
		for col := 0; col < d.cols && col < fb.Width; col++ {
			tr, tg, tb := fb.ReadFramebuffer(col, topY)
			var br, bg, bb float64
			if botY < fb.Height {
				br, bg, bb = fb.ReadFramebuffer(col, botY)
			} else {
				br, bg, bb = tr, tg, tb
			}
			fmt.Fprintf(&d.buf, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				to255(tr), to255(tg), to255(tb), to255(br), to255(bg), to255(bb))
		}
		d.buf.WriteString("\x1b[0m\r\n")
	}
}

// Flush writes the most recently Rendered frame to stdout.
func (d *terminalDisplay) Flush() error {
	_, err := os.Stdout.WriteString(d.buf.String())
	return err
}

func to255(c float64) int {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return int(c*255 + 0.5)
}
