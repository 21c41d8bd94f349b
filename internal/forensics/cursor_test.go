package forensics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorReadPastEnd(t *testing.T) {
	c, err := newCursor(bytes.NewReader([]byte{1, 2, 3}))
	require.NoError(t, err)

	_, err = c.read("field", 1<<40)
	require.ErrorIs(t, err, ErrTruncated)

	var te *TruncatedDataError
	require.True(t, errors.As(err, &te))
	require.Equal(t, "field", te.Structure)
	require.EqualValues(t, 3, te.Have)
	require.EqualValues(t, 0, c.off)
}

func TestCursorSeekAndSkip(t *testing.T) {
	c, err := newCursor(bytes.NewReader([]byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x00, 0x00}))
	require.NoError(t, err)

	require.NoError(t, c.skip(2))
	v, err := c.u16("u16")
	require.NoError(t, err)
	require.EqualValues(t, 2, v)

	require.NoError(t, c.seek(4))
	w, err := c.u32("u32")
	require.NoError(t, err)
	require.EqualValues(t, 3, w)
	require.EqualValues(t, 0, c.remaining())

	err = c.seek(9)
	require.ErrorIs(t, err, ErrTruncated)
	var te *TruncatedDataError
	require.ErrorAs(t, err, &te)
	require.GreaterOrEqual(t, te.Have, int64(0))
	require.ErrorIs(t, c.skip(-20), ErrTruncated)
}

func TestBufferHelpersBounds(t *testing.T) {
	data := []byte{1, 2, 3, 4}

	_, ok := sliceAt(data, 2, 3)
	require.False(t, ok)
	_, ok = u32At(data, 1)
	require.False(t, ok)
	v, ok := u16At(data, 2)
	require.True(t, ok)
	require.EqualValues(t, 0x0403, v)

	s, ok := cstringAt([]byte("abc"), 0)
	require.True(t, ok)
	require.Equal(t, "abc", string(s))
	_, ok = cstringAt([]byte("abc"), 3)
	require.False(t, ok)
}
