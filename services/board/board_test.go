package board

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifiwake-go/errcode"
)

func TestParseVariant(t *testing.T) {
	cases := map[string]Variant{
		"feathers2":   VariantFeatherS2,
		"FeatherS2":   VariantFeatherS2,
		"huzzah32":    VariantHuzzah32,
		"nano-rp2040": VariantNanoRP2040,
		"nano_rp2040": VariantNanoRP2040,
		" linux ":     VariantLinux,
	}
	for in, want := range cases {
		got, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseVariant("uno")
	require.Error(t, err)
	assert.Equal(t, errcode.UnknownBoard, errcode.Of(err))
}

func TestVariantNamesRoundTrip(t *testing.T) {
	for _, v := range Variants() {
		got, err := ParseVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	assert.Equal(t, "unknown", Variant(200).String())
}

func TestResolveOriginalWiring(t *testing.T) {
	fs2, err := Resolve(VariantFeatherS2)
	require.NoError(t, err)
	assert.Equal(t, VariantFeatherS2, fs2.Variant)
	assert.True(t, fs2.HasDisplay)
	assert.Equal(t, 21, fs2.PowerEnablePin)
	assert.Equal(t, I2CPlan{Bus: "i2c1", SDA: 8, SCL: 9, Hz: 100_000}, fs2.I2C)
	assert.Equal(t, uint16(0x3C), fs2.DisplayAddr)
	assert.Equal(t, int16(128), fs2.DisplayWidth)
	assert.Equal(t, int16(32), fs2.DisplayHeight)

	hz, err := ResolveName("huzzah32")
	require.NoError(t, err)
	assert.Equal(t, NoPin, hz.PowerEnablePin)
	assert.Equal(t, 23, hz.I2C.SDA)
	assert.Equal(t, 22, hz.I2C.SCL)

	_, err = Resolve(Variant(99))
	assert.Equal(t, errcode.UnknownBoard, errcode.Of(err))
}

func TestResolveCopiesUARTPlan(t *testing.T) {
	a, err := Resolve(VariantNanoRP2040)
	require.NoError(t, err)
	require.NotNil(t, a.LogUART)
	a.LogUART.Baud = 9600

	b, err := Resolve(VariantNanoRP2040)
	require.NoError(t, err)
	assert.Equal(t, uint32(115200), b.LogUART.Baud)
}

func TestOpenPowersRailAndClaimsBus(t *testing.T) {
	d, err := Resolve(VariantFeatherS2)
	require.NoError(t, err)
	res := NewHostResources()

	w, err := Open(d, res)
	require.NoError(t, err)
	require.NotNil(t, w.Bus)

	pin, err := res.FakePin(21)
	require.NoError(t, err)
	assert.True(t, pin.IsOutput())
	assert.True(t, pin.Get())
	assert.Same(t, res.Bus("i2c1"), w.Bus)

	require.NoError(t, w.Close())
	assert.Equal(t, 1, res.Closed())
}

func TestOpenWithoutDisplay(t *testing.T) {
	d, err := Resolve(VariantHuzzah32)
	require.NoError(t, err)
	d.HasDisplay = false

	_, err = Open(d, NewHostResources())
	assert.ErrorIs(t, err, errcode.NoDisplay)
}

func TestOpenUnknownPin(t *testing.T) {
	d, err := Resolve(VariantFeatherS2)
	require.NoError(t, err)
	res := NewHostResources()
	res.MaxPin = 20

	_, err = Open(d, res)
	require.Error(t, err)
	assert.Equal(t, errcode.UnknownPin, errcode.Of(err))
	assert.True(t, errors.Is(err, errcode.UnknownPin))
}

func TestHostI2CRecordsTransfers(t *testing.T) {
	b := &HostI2C{}
	r := []byte{0xFF, 0xFF}
	require.NoError(t, b.Tx(0x3C, []byte{0x00, 0xAE}, r))
	assert.Equal(t, []byte{0, 0}, r)

	txs := b.Transfers()
	require.Len(t, txs, 1)
	assert.Equal(t, uint16(0x3C), txs[0].Addr)
	assert.Equal(t, []byte{0x00, 0xAE}, txs[0].W)
	assert.Equal(t, 2, txs[0].Rn)

	b.Err = errors.New("nack")
	assert.Error(t, b.Tx(0x3C, nil, nil))
}
