package orgb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{DeviceIdx: 3, MessageType: MsgRequestControllerData, BodySize: 42}
	w := NewWriter(headerSize)
	h.Encode(w)
	require.Len(t, w.Bytes(), headerSize)
	assert.Equal(t, []byte("ORGB"), w.Bytes()[:4])

	got, err := DecodeHeader(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestHeaderBadMagic(t *testing.T) {
	buf := make([]byte, headerSize)
	copy(buf, "XXXX")
	_, err := DecodeHeader(NewReader(buf))
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestHeaderUnknownType(t *testing.T) {
	w := NewWriter(headerSize)
	Header{MessageType: MessageType(99999)}.Encode(w)
	_, err := DecodeHeader(NewReader(w.Bytes()))
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestModeDescriptionRoundTrip(t *testing.T) {
	m := ModeDescription{
		Name:      "Static",
		Value:     1,
		Flags:     ModeHasSpeed | ModeHasPerLedColor,
		SpeedMin:  0,
		SpeedMax:  100,
		ColorsMin: 1,
		ColorsMax: 1,
		Speed:     50,
		Direction: DirectionLeft,
		ColorMode: ColorModePerLED,
		Colors:    []Color{RGB(255, 0, 0)},
	}
	w := NewWriter(m.CalcSize())
	m.Serialize(w)
	assert.Len(t, w.Bytes(), m.CalcSize())

	var got ModeDescription
	require.NoError(t, got.Deserialize(NewReader(w.Bytes())))
	assert.Equal(t, m, got)
}

func TestModeFlagsSurviveUnknownBits(t *testing.T) {
	flags := ModeFlags(1<<0 | 1<<20)
	m := ModeDescription{Name: "x", Flags: flags}
	w := NewWriter(m.CalcSize())
	m.Serialize(w)
	var got ModeDescription
	require.NoError(t, got.Deserialize(NewReader(w.Bytes())))
	assert.Equal(t, flags, got.Flags)
}

func TestZoneDescriptionWithoutMatrix(t *testing.T) {
	z := ZoneDescription{
		Name:      "Zone 1",
		Type:      ZoneTypeLinear,
		LedsMin:   1,
		LedsMax:   10,
		LedsCount: 10,
	}
	w := NewWriter(z.CalcSize())
	z.Serialize(w)

	var got ZoneDescription
	require.NoError(t, got.Deserialize(NewReader(w.Bytes())))
	assert.Equal(t, z, got)
	assert.Zero(t, got.MatrixLength)
	assert.Nil(t, got.Matrix)
}

func TestZoneDescriptionWithMatrix(t *testing.T) {
	height, width := uint32(2), uint32(3)
	z := ZoneDescription{
		Name:         "Matrix zone",
		Type:         ZoneTypeMatrix,
		LedsCount:    6,
		MatrixLength: uint16(8 + 4*height*width),
		MatrixHeight: height,
		MatrixWidth:  width,
		Matrix:       []uint32{0, 1, 2, 3, 4, 5},
	}
	w := NewWriter(z.CalcSize())
	z.Serialize(w)

	var got ZoneDescription
	require.NoError(t, got.Deserialize(NewReader(w.Bytes())))
	assert.Equal(t, z, got)
}

func TestZoneDescriptionBadMatrixLength(t *testing.T) {
	w := NewWriter(0)
	w.PutString("bad")
	w.PutU32(uint32(ZoneTypeMatrix))
	w.PutU32(0)
	w.PutU32(0)
	w.PutU32(4)
	w.PutU16(99) // does not match 8 + 4*height*width
	w.PutU32(2)
	w.PutU32(2)
	for i := 0; i < 4; i++ {
		w.PutU32(uint32(i))
	}

	var z ZoneDescription
	err := z.Deserialize(NewReader(w.Bytes()))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestLEDDescriptionRoundTrip(t *testing.T) {
	l := LEDDescription{Name: "LED 0", Value: 7}
	w := NewWriter(l.CalcSize())
	l.Serialize(w)

	var got LEDDescription
	require.NoError(t, got.Deserialize(NewReader(w.Bytes())))
	assert.Equal(t, l, got)
}

func buildTestDevice() DeviceDescription {
	return DeviceDescription{
		DeviceType:  DeviceLEDStrip,
		Name:        "Test Strip",
		Vendor:      "Acme",
		Description: "a strip",
		Version:     "1.0",
		Serial:      "SN123",
		Location:    "PCI:0:0",
		ActiveMode:  0,
		Modes: []ModeDescription{
			{Name: "Static", Value: 0, Flags: ModeHasPerLedColor, ColorMode: ColorModePerLED},
		},
		Zones: []ZoneDescription{
			{Name: "Zone 1", Type: ZoneTypeLinear, LedsMin: 2, LedsMax: 2, LedsCount: 2},
		},
		Leds: []LEDDescription{
			{Name: "LED 0", Value: 0},
			{Name: "LED 1", Value: 1},
		},
		Colors: []Color{RGB(255, 0, 0), RGB(0, 255, 0)},
	}
}

func TestDeviceDescriptionRoundTrip(t *testing.T) {
	d := buildTestDevice()
	w := NewWriter(d.CalcSize())
	d.Serialize(w)
	assert.Len(t, w.Bytes(), d.CalcSize())

	var got DeviceDescription
	require.NoError(t, got.Deserialize(NewReader(w.Bytes())))
	assert.Equal(t, d, got)
}

func TestDeviceDescriptionActiveModeOutOfRange(t *testing.T) {
	d := buildTestDevice()
	d.ActiveMode = 5 // only one mode defined
	w := NewWriter(d.CalcSize())
	d.Serialize(w)

	var got DeviceDescription
	err := got.Deserialize(NewReader(w.Bytes()))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDeviceDescriptionColorLedCountMismatch(t *testing.T) {
	d := buildTestDevice()
	d.Colors = d.Colors[:1] // one fewer color than LEDs
	w := NewWriter(d.CalcSize())
	d.Serialize(w)

	var got DeviceDescription
	err := got.Deserialize(NewReader(w.Bytes()))
	assert.ErrorIs(t, err, ErrMalformed)
}
