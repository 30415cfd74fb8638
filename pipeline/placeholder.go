package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"tooncraft/config"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var placeholderBackground = color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}

// Placeholder renders a dark 16:9 frame with a centered label. It stands in
// for a scene whose visual generation failed so playback never breaks on a
// missing asset.
func Placeholder(text string) []byte {
	bounds := image.Rect(0, 0, config.PlaceholderWidth, config.PlaceholderHeight)
	img := image.NewRGBA(bounds)
	draw.Draw(img, bounds, image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(config.PlaceholderWidth) - width) / 2,
		Y: fixed.I(config.PlaceholderHeight / 2),
	}
	d.DrawString(text)

	var buf bytes.Buffer
	// Encoding a valid in-memory image to a bytes.Buffer cannot fail.
	_ = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	return buf.Bytes()
}
