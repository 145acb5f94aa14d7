package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ioutils "github.com/handiism/capture-studio/internal/io"
	"github.com/handiism/capture-studio/internal/model"
)

// meterHeight is the level meter height in rows.
const meterHeight = 8

var partialBlocks = []rune(" ▁▂▃▄▅▆▇█")

// renderMeter draws one vertical bar per level, bottom aligned.
func renderMeter(levels model.Levels) string {
	rows := make([]string, meterHeight)
	for r := range rows {
		// row 0 is the top
		floor := float64(meterHeight-1-r) / meterHeight * 100

		var b strings.Builder
		for i, v := range levels {
			if i > 0 {
				b.WriteByte(' ')
			}
			fill := (v - floor) / (100.0 / meterHeight)
			var cell rune
			switch {
			case fill >= 1:
				cell = partialBlocks[len(partialBlocks)-1]
			case fill <= 0:
				cell = partialBlocks[0]
			default:
				cell = partialBlocks[int(fill*float64(len(partialBlocks)-1))]
			}
			b.WriteString(barStyle(v).Render(strings.Repeat(string(cell), 2)))
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}

func barStyle(v float64) lipgloss.Style {
	switch {
	case v >= 85:
		return errorStyle
	case v >= 60:
		return warningStyle
	default:
		return meterStyle
	}
}

// renderPreview draws img with half blocks, two pixels per cell.
func renderPreview(images *ioutils.ImageService, img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}
	thumb := images.Thumbnail(img, cols, rows*2)
	bounds := thumb.Bounds()

	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := hexColor(thumb, x, y)
			bottom := top
			if y+1 < bounds.Max.Y {
				bottom = hexColor(thumb, x, y+1)
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if y+2 < bounds.Max.Y {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func hexColor(img *image.RGBA, x, y int) string {
	c := img.RGBAAt(x, y)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
