package display

import (
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"wifiwake-go/x/strx"
)

const (
	rowHeight    = 8
	textX        = 12 // two 6 px cells in from the left border
	maxCols      = 19
	selectedMark = " *"
)

var ink = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// SSD1306 renders reports on an SSD1306 OLED over I²C. A scan callback that
// finishes after the wait timed out may still draw while the frame is
// closed, so every buffer access holds mu.
type SSD1306 struct {
	mu   sync.Mutex
	dev  ssd1306.Device
	w, h int16
}

// NewSSD1306 configures the panel at addr on bus.
func NewSSD1306(bus drivers.I2C, addr uint16, w, h int16) *SSD1306 {
	d := &SSD1306{dev: ssd1306.NewI2C(bus), w: w, h: h}
	d.dev.Configure(ssd1306.Config{
		Width:    w,
		Height:   h,
		Address:  addr,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	return d
}

func (d *SSD1306) Size() (int16, int16) { return d.w, d.h }

func (d *SSD1306) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dev.ClearDisplay()
}

func (d *SSD1306) HLine(x, y, w int16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := int16(0); i < w; i++ {
		d.dev.SetPixel(x+i, y, ink)
	}
}

func (d *SSD1306) VLine(x, y, h int16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := int16(0); i < h; i++ {
		d.dev.SetPixel(x, y+i, ink)
	}
}

// WriteRow draws label on text row `row` (8 px rows, row 0 is the top
// border). Rows past the panel are clipped by the driver.
func (d *SSD1306) WriteRow(row int, label string, selected bool) {
	if selected {
		label += selectedMark
	}
	baseline := int16(row)*rowHeight + rowHeight - 1
	d.mu.Lock()
	defer d.mu.Unlock()
	tinyfont.WriteLine(&d.dev, &proggy.TinySZ8pt7b, textX, baseline, strx.Truncate(label, maxCols), ink)
}

func (d *SSD1306) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dev.Display()
}

// Pixel reports whether the buffered pixel at (x, y) is lit.
func (d *SSD1306) Pixel(x, y int16) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dev.GetPixel(x, y)
}
