// Package display renders the per-cycle network list.
package display

// Reporter receives one framed report per cycle: Clear and the two
// horizontal borders before the scan, one WriteRow per retained network
// from the scan callback, then the two vertical borders and Present.
type Reporter interface {
	Size() (w, h int16)
	Clear()
	HLine(x, y, w int16)
	VLine(x, y, h int16)
	WriteRow(row int, label string, selected bool)
	Present() error
}

// OpenFrame clears the panel and draws the top and bottom borders.
func OpenFrame(r Reporter) {
	w, h := r.Size()
	if w <= 0 || h <= 0 {
		return
	}
	r.Clear()
	r.HLine(0, 0, w)
	r.HLine(0, h-1, w)
}

// CloseFrame draws the side borders and pushes the frame to the panel.
func CloseFrame(r Reporter) error {
	w, h := r.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	r.VLine(0, 0, h)
	r.VLine(w-1, 0, h)
	return r.Present()
}

// Nop is the reporter for boards without a display.
type Nop struct{}

func (Nop) Size() (int16, int16)       { return 0, 0 }
func (Nop) Clear()                     {}
func (Nop) HLine(int16, int16, int16)  {}
func (Nop) VLine(int16, int16, int16)  {}
func (Nop) WriteRow(int, string, bool) {}
func (Nop) Present() error             { return nil }
