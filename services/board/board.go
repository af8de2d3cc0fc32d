package board

import (
	"strings"

	"tinygo.org/x/drivers"

	"wifiwake-go/errcode"
)

// Variant selects one supported board wiring.
type Variant uint8

const (
	VariantFeatherS2 Variant = iota
	VariantHuzzah32
	VariantNanoRP2040
	VariantLinux
)

var variantNames = [...]string{
	VariantFeatherS2:  "feathers2",
	VariantHuzzah32:   "huzzah32",
	VariantNanoRP2040: "nano_rp2040",
	VariantLinux:      "linux",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// Variants lists every known variant in declaration order.
func Variants() []Variant {
	out := make([]Variant, len(variantNames))
	for i := range variantNames {
		out[i] = Variant(i)
	}
	return out
}

// ParseVariant is case-insensitive and accepts '-' for '_'.
func ParseVariant(s string) (Variant, error) {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, n := range variantNames {
		if n == k {
			return Variant(i), nil
		}
	}
	return 0, &errcode.E{C: errcode.UnknownBoard, Op: "board.parse", Msg: "\"" + s + "\""}
}

// I2CPlan wires one I²C controller to pins and sets its clock.
// On Linux, Bus is the periph bus name (e.g. "1" for /dev/i2c-1) and pins are unused.
type I2CPlan struct {
	Bus      string
	SDA, SCL int
	Hz       uint32
}

type UARTPlan struct {
	ID     string // "uart0", "uart1"
	TX, RX int
	Baud   uint32
}

// NoPin marks an absent optional pin.
const NoPin = -1

// Descriptor is everything the cycle needs to know about a board: the
// display capability and the wiring used to reach it.
type Descriptor struct {
	Variant    Variant
	Name       string
	HasDisplay bool

	I2C            I2CPlan
	DisplayAddr    uint16
	DisplayWidth   int16
	DisplayHeight  int16
	PowerEnablePin int // drives the STEMMA/QT power rail; NoPin if absent

	LogUART *UARTPlan // optional secondary log sink (MCU only)
}

const (
	ssd1306Addr  = 0x3C
	standardMode = 100_000
)

var descriptors = [...]Descriptor{
	VariantFeatherS2: {
		Name:           "Unexpected Maker FeatherS2",
		HasDisplay:     true,
		I2C:            I2CPlan{Bus: "i2c1", SDA: 8, SCL: 9, Hz: standardMode},
		DisplayAddr:    ssd1306Addr,
		DisplayWidth:   128,
		DisplayHeight:  32,
		PowerEnablePin: 21,
	},
	VariantHuzzah32: {
		Name:           "Adafruit HUZZAH32",
		HasDisplay:     true,
		I2C:            I2CPlan{Bus: "i2c1", SDA: 23, SCL: 22, Hz: standardMode},
		DisplayAddr:    ssd1306Addr,
		DisplayWidth:   128,
		DisplayHeight:  32,
		PowerEnablePin: NoPin,
	},
	VariantNanoRP2040: {
		Name:           "Arduino Nano RP2040 Connect",
		HasDisplay:     true,
		I2C:            I2CPlan{Bus: "i2c0", SDA: 12, SCL: 13, Hz: standardMode},
		DisplayAddr:    ssd1306Addr,
		DisplayWidth:   128,
		DisplayHeight:  32,
		PowerEnablePin: NoPin,
		LogUART:        &UARTPlan{ID: "uart0", TX: 0, RX: 1, Baud: 115200},
	},
	VariantLinux: {
		Name:           "Linux host",
		HasDisplay:     true,
		I2C:            I2CPlan{Bus: "1", Hz: standardMode},
		DisplayAddr:    ssd1306Addr,
		DisplayWidth:   128,
		DisplayHeight:  32,
		PowerEnablePin: NoPin,
	},
}

// Resolve returns the descriptor for v.
func Resolve(v Variant) (Descriptor, error) {
	if int(v) >= len(descriptors) {
		return Descriptor{}, &errcode.E{C: errcode.UnknownBoard, Op: "board.resolve", Msg: v.String()}
	}
	d := descriptors[v]
	d.Variant = v
	if d.LogUART != nil {
		u := *d.LogUART
		d.LogUART = &u
	}
	return d, nil
}

// ResolveName is ParseVariant followed by Resolve.
func ResolveName(name string) (Descriptor, error) {
	v, err := ParseVariant(name)
	if err != nil {
		return Descriptor{}, err
	}
	return Resolve(v)
}

// -----------------------------------------------------------------------------
// Platform resources
// -----------------------------------------------------------------------------

// Pin is the slice of GPIO the board layer drives.
type Pin interface {
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// Resources hands out platform buses and pins. Implementations exist for
// TinyGo (machine), Linux (periph.io) and host tests.
type Resources interface {
	I2C(plan I2CPlan) (drivers.I2C, error)
	Pin(n int) (Pin, error)
	Close() error
}
