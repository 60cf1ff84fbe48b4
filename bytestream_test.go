package orgb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(0)
	w.PutU8(0x7F)
	w.PutU16(0x1234)
	w.PutU32(0xDEADBEEF)
	w.PutColor(Color{R: 1, G: 2, B: 3})
	w.PutString("hello")
	w.PutString("")

	r := NewReader(w.Bytes())

	u8, err := r.GetU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)

	u16, err := r.GetU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), u16)

	u32, err := r.GetU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	c, err := r.GetColor()
	require.NoError(t, err)
	assert.Equal(t, Color{R: 1, G: 2, B: 3}, c)

	s, err := r.GetString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	empty, err := r.GetString()
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	assert.Equal(t, 0, r.Remaining())
}

func TestStringEncodingIncludesTerminator(t *testing.T) {
	w := NewWriter(0)
	w.PutString("ab")
	buf := w.Bytes()
	// length prefix must be len("ab")+1 = 3
	require.Len(t, buf, 2+3)
	assert.Equal(t, byte(3), buf[0])
	assert.Equal(t, byte(0), buf[1])
	assert.Equal(t, []byte("ab"), buf[2:4])
	assert.Equal(t, byte(0), buf[4])
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	_, err := r.GetU32()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestReaderTruncatedString(t *testing.T) {
	// length prefix claims 10 bytes follow but none are present
	r := NewReader([]byte{0x0A, 0x00})
	_, err := r.GetString()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestColorPadByteIsIgnoredAndWrittenZero(t *testing.T) {
	w := NewWriter(0)
	w.PutColor(Color{R: 10, G: 20, B: 30})
	buf := w.Bytes()
	require.Len(t, buf, 4)
	assert.Equal(t, byte(0), buf[3])
}
