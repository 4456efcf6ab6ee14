package main

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// PNG export rasterizes exactly the logical canvas area against a fixed dark
// background. Connections draw first (red string between item centers, the
// corkboard look), then item cards on top.
const (
	exportScale  = 1.0
	exportWidth  = int(canvasWidth * exportScale)
	exportHeight = int(canvasHeight * exportScale)

	exportFontSize = 18.0
	exportLineGap  = 24.0
	cardPadding    = 14.0
	cardCorner     = 8.0
)

func exportFileName(caseID int64) string {
	return fmt.Sprintf("case-%d-board.png", caseID)
}

// cardLineLimit is how many text lines fit between a card's paddings.
func cardLineLimit() int {
	avail := itemHeight - 2*cardPadding
	return int(avail / exportLineGap)
}

func exportBoardPNG(state BoardState, path string) error {
	dc := gg.NewContext(exportWidth, exportHeight)

	// Background: fixed dark board color.
	dc.SetRGB255(0x23, 0x28, 0x31)
	dc.Clear()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return &ExportError{Reason: "parse font", Err: err}
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    exportFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for _, conn := range state.Connections {
		x1, y1, x2, y2, ok := connectionEndpoints(conn, state.Items)
		if !ok {
			// Dangling edge: skipped, never an error.
			continue
		}
		dc.SetRGB255(0xC0, 0x39, 0x2B)
		dc.SetLineWidth(3.0)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	for _, item := range state.Items {
		drawItemCard(dc, item)
	}

	if err := dc.SavePNG(path); err != nil {
		return &ExportError{Reason: "write png", Err: err}
	}
	return nil
}

func drawItemCard(dc *gg.Context, item BoardItem) {
	x := item.Position.X
	y := item.Position.Y

	// Pin at the card's top center.
	defer func() {
		dc.SetRGB255(0xE7, 0x4C, 0x3C)
		dc.DrawCircle(x+itemWidth/2, y+8, 6)
		dc.Fill()
	}()

	if item.Kind == KindNote {
		dc.SetRGB255(0xF5, 0xD7, 0x6E)
	} else {
		dc.SetRGB255(0xEC, 0xF0, 0xF1)
	}
	dc.DrawRoundedRectangle(x, y, itemWidth, itemHeight, cardCorner)
	dc.Fill()
	dc.SetRGB255(0x1C, 0x28, 0x33)
	dc.SetLineWidth(1.5)
	dc.DrawRoundedRectangle(x, y, itemWidth, itemHeight, cardCorner)
	dc.Stroke()

	var lines []string
	if item.Kind == KindEvidence && item.Evidence != nil {
		lines = append(lines, fmt.Sprintf("[%s]", item.Evidence.Type))
		lines = append(lines, wrapText(item.Evidence.Title, 20)...)
	} else {
		lines = wrapText(item.NoteText, 20)
	}
	if limit := cardLineLimit(); len(lines) > limit {
		lines = lines[:limit]
	}

	dc.SetRGB255(0x1C, 0x28, 0x33)
	textY := y + cardPadding + exportFontSize
	for _, line := range lines {
		dc.DrawString(line, x+cardPadding, textY)
		textY += exportLineGap
	}
}

// wrapText splits text into lines of at most width runes, breaking on
// whitespace where possible. Good enough for card labels.
func wrapText(text string, width int) []string {
	var lines []string
	for _, para := range splitLines(text) {
		runes := []rune(para)
		for len(runes) > width {
			cut := width
			for i := width; i > 0; i-- {
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			lines = append(lines, string(runes[:cut]))
			for cut < len(runes) && runes[cut] == ' ' {
				cut++
			}
			runes = runes[cut:]
		}
		lines = append(lines, string(runes))
	}
	return lines
}

func splitLines(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, text[start:i])
			start = i + 1
		}
	}
	out = append(out, text[start:])
	return out
}
