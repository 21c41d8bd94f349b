package forensics

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestDecodeVolumeID(t *testing.T) {
	p := newParser(nil, nil)

	vol, err := p.decodeVolumeID(volumeID(uint32(DriveFixed), 0x1A2B3C4D, "DATA"), 0)
	require.NoError(t, err)
	require.Equal(t, DriveFixed, vol.DriveType)
	require.Equal(t, "1A2B-3C4D", vol.SerialNumber)
	require.Equal(t, "DATA", vol.Label)
	require.Nil(t, vol.LabelOffsetUnicode)
}

func TestDecodeVolumeIDLabelOffsets(t *testing.T) {
	p := newParser(nil, nil)

	// 标签偏移为 0：没有标签，不报错
	vol, err := p.decodeVolumeID(concat(le32(0x10), le32(uint32(DriveRemovable)), le32(0), le32(0)), 0)
	require.NoError(t, err)
	require.Equal(t, "0000-0000", vol.SerialNumber)
	require.Empty(t, vol.Label)
	require.Equal(t, "DRIVE_REMOVABLE", vol.DriveType.String())

	// 0x14 表示后面跟随 Unicode 标签偏移
	vol, err = p.decodeVolumeID(volumeIDUnicode(uint32(DriveRemovable), 1, "U盘"), 0)
	require.NoError(t, err)
	require.NotNil(t, vol.LabelOffsetUnicode)
	require.EqualValues(t, 0x14, *vol.LabelOffsetUnicode)
	require.Equal(t, "U盘", vol.Label)

	// 标签偏移越界只降级为无标签
	vol, err = p.decodeVolumeID(concat(le32(0x10), le32(3), le32(7), le32(0x400)), 0)
	require.NoError(t, err)
	require.Empty(t, vol.Label)
}

func TestDecodeVolumeIDErrors(t *testing.T) {
	p := newParser(nil, nil)

	_, err := p.decodeVolumeID(concat(le32(0x08), le32(3)), 0)
	require.ErrorIs(t, err, ErrFormat)

	_, err = p.decodeVolumeID(concat(le32(0x40), le32(3), le32(0), le32(0)), 0)
	require.ErrorIs(t, err, ErrTruncated)

	_, err = p.decodeVolumeID([]byte{0x10}, 0)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestVolumeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	serialPattern := regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}$`)

	properties.Property("serial formats as XXXX-XXXX and parses back", prop.ForAll(
		func(v uint32) bool {
			s := FormatSerial(v)
			if !serialPattern.MatchString(s) {
				return false
			}
			back, err := strconv.ParseUint(strings.Replace(s, "-", "", 1), 16, 32)
			return err == nil && uint32(back) == v
		},
		gen.UInt32(),
	))

	properties.Property("drive type folds unknown values", prop.ForAll(
		func(v uint32) bool {
			d := DriveTypeFrom(v)
			if v <= uint32(DriveRAMDisk) {
				return uint32(d) == v
			}
			return d == DriveUnknown && d.String() == "DRIVE_UNKNOWN"
		},
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
