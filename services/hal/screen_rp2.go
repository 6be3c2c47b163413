//go:build rp2040 || rp2350

package hal

import (
	"image/color"

	qrcode "github.com/skip2/go-qrcode"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"

	"trackercode-go/services/display"
	"trackercode-go/types"
	"trackercode-go/x/conv"
	"trackercode-go/x/mathx"
)

const (
	oledWidth  = 128
	oledHeight = 64
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// OledScreen renders pages onto a 128x64 SSD1306 over I2C. The QR matrix is
// cached between draws; it only regenerates when the coordinator says so.
type OledScreen struct {
	dev ssd1306.Device
	qr  [][]bool
}

func NewOledScreen(bus drivers.I2C) *OledScreen {
	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Address: 0x3C,
		Width:   oledWidth,
		Height:  oledHeight,
	})
	dev.ClearDisplay()
	return &OledScreen{dev: dev}
}

// Draw implements display.Renderer.
func (s *OledScreen) Draw(page types.Page, ctx display.RenderContext) {
	s.dev.ClearBuffer()
	switch page {
	case types.PageGps:
		s.drawGps(ctx)
	case types.PageQr:
		s.drawQr(ctx)
	case types.PageStatus:
		s.drawStatus(ctx)
	}
	if ctx.HoldMs > 0 {
		s.drawHoldBar(ctx)
	}
	if err := s.dev.Display(); err != nil {
		println("[hal] oled display error")
	}
}

func (s *OledScreen) text(x, y int16, str string) {
	tinyfont.WriteLine(&s.dev, &tinyfont.Org01, x, y, str, white)
}

func (s *OledScreen) drawGps(ctx display.RenderContext) {
	if !ctx.Fix.Valid {
		s.text(4, 28, "acquiring fix ...")
	} else {
		s.text(4, 12, "LAT "+conv.CoordString(ctx.Fix.Lat))
		s.text(4, 24, "LON "+conv.CoordString(ctx.Fix.Lon))
		s.text(4, 36, "SATS "+conv.ItoaString(int64(ctx.Fix.Satellites)))
	}
	s.text(4, 52, linkGlyph(ctx))
}

func (s *OledScreen) drawQr(ctx display.RenderContext) {
	if ctx.RegenQR || s.qr == nil {
		q, err := qrcode.New(ctx.QRPayload, qrcode.Medium)
		if err != nil {
			s.text(4, 28, "qr unavailable")
			return
		}
		s.qr = q.Bitmap()
	}
	n := len(s.qr)
	if n == 0 {
		return
	}
	scale := int16(oledHeight / n)
	if scale < 1 {
		scale = 1
	}
	side := int16(n) * scale
	x0 := (oledWidth - side) / 2
	y0 := (oledHeight - side) / 2
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if !s.qr[row][col] {
				continue
			}
			for dy := int16(0); dy < scale; dy++ {
				for dx := int16(0); dx < scale; dx++ {
					x := x0 + int16(col)*scale + dx
					y := y0 + int16(row)*scale + dy
					if x >= 0 && x < oledWidth && y >= 0 && y < oledHeight {
						s.dev.SetPixel(x, y, white)
					}
				}
			}
		}
	}
}

func (s *OledScreen) drawStatus(ctx display.RenderContext) {
	s.text(4, 12, linkGlyph(ctx))
	s.text(4, 24, "UPLOAD "+string(ctx.Upload))
	if ctx.Failure != "" {
		s.text(4, 40, "! "+ctx.Failure)
	}
}

// drawHoldBar shows progress toward the next alert threshold along the
// bottom edge while a touch session is live.
func (s *OledScreen) drawHoldBar(ctx display.RenderContext) {
	target := ctx.NextAlertMs
	w := uint16(oledWidth - 1) // past the last threshold: full bar
	if target > 0 {
		hold := mathx.Clamp(ctx.HoldMs, 0, target)
		w = mathx.MapU16(uint16(hold), 0, uint16(target), 0, oledWidth-1)
	}
	for x := int16(0); x <= int16(w); x++ {
		s.dev.SetPixel(x, oledHeight-2, white)
		s.dev.SetPixel(x, oledHeight-1, white)
	}
}

func linkGlyph(ctx display.RenderContext) string {
	if ctx.Reconnecting {
		return "LINK reconnecting"
	}
	return "LINK " + string(ctx.Mode)
}
