package display

import (
	"sync"

	"wifiwake-go/x/strconvx"
)

// Recorder is a Reporter that keeps every call. Used by tests and by the
// host runner's dry-run mode.
type Recorder struct {
	W, H int16

	mu    sync.Mutex
	calls []string
	rows  []Row
}

// Row is one WriteRow call.
type Row struct {
	Index    int
	Label    string
	Selected bool
}

func NewRecorder(w, h int16) *Recorder { return &Recorder{W: w, H: h} }

func (r *Recorder) Size() (int16, int16) { return r.W, r.H }

func (r *Recorder) Clear() { r.add("clear") }

func (r *Recorder) HLine(x, y, w int16) {
	r.add("hline " + itoa16(x) + "," + itoa16(y) + "," + itoa16(w))
}

func (r *Recorder) VLine(x, y, h int16) {
	r.add("vline " + itoa16(x) + "," + itoa16(y) + "," + itoa16(h))
}

func (r *Recorder) WriteRow(row int, label string, selected bool) {
	r.mu.Lock()
	r.rows = append(r.rows, Row{Index: row, Label: label, Selected: selected})
	r.calls = append(r.calls, "row "+strconvx.Itoa(row))
	r.mu.Unlock()
}

func (r *Recorder) Present() error {
	r.add("present")
	return nil
}

// Calls returns the call log in order.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Rows returns the rows written so far.
func (r *Recorder) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Row(nil), r.rows...)
}

func (r *Recorder) add(c string) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

func itoa16(v int16) string { return strconvx.Itoa(int(v)) }
