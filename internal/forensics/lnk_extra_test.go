package forensics

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decodeExtraBytes(t *testing.T, data []byte) (*ExtraData, error) {
	t.Helper()
	c, err := newCursor(bytes.NewReader(data))
	require.NoError(t, err)
	return newParser(nil, nil).decodeExtraData(c)
}

var (
	volumeDroid = uuid.MustParse("94d3c2a0-5fb1-4b39-9a2e-5e7f7f3d6a10")
	fileDroid   = uuid.MustParse("1c8a3f5e-7d2b-11ee-9c3a-000c29b1a2f3") // v1，节点 00:0c:29:b1:a2:f3
)

func TestExtraDataTracker(t *testing.T) {
	extra, err := decodeExtraBytes(t, concat(trackerBlock("desktop-4f2k", volumeDroid, fileDroid, volumeDroid, fileDroid), terminalBlock()))
	require.NoError(t, err)
	require.Len(t, extra.Blocks, 1)

	tracker, ok := extra.Tracker()
	require.True(t, ok)
	require.Equal(t, "desktop-4f2k", tracker.MachineID)
	require.Equal(t, volumeDroid, tracker.VolumeDroid)
	require.Equal(t, fileDroid, tracker.FileDroid)
	require.Equal(t, "00:0c:29:b1:a2:f3", tracker.MACAddress)
	require.NotNil(t, tracker.DroidTime)
	require.Equal(t, 2023, tracker.DroidTime.Year())
}

func TestExtraDataTrailingGarbage(t *testing.T) {
	extra, err := decodeExtraBytes(t, concat(trackerBlock("host"), []byte{0xAA, 0xBB, 0xCC}))
	require.NoError(t, err)
	require.Len(t, extra.Blocks, 1)
}

func TestExtraDataNone(t *testing.T) {
	_, err := decodeExtraBytes(t, nil)
	require.Error(t, err)

	extra, err := decodeExtraBytes(t, terminalBlock())
	require.NoError(t, err)
	require.Empty(t, extra.Blocks)
}

func TestExtraDataFramingErrors(t *testing.T) {
	// 块大小超出剩余字节
	_, err := decodeExtraBytes(t, concat(le32(0x200), le32(SigTracker), make([]byte, 8)))
	require.ErrorIs(t, err, ErrTruncated)

	// 大小不足以容纳签名
	_, err = decodeExtraBytes(t, concat(le32(6), le32(SigTracker)))
	require.ErrorIs(t, err, ErrFormat)
}

func TestExtraDataUnknownAndDegraded(t *testing.T) {
	data := concat(
		extraBlock(0xDEADBEEF, []byte{1, 2, 3, 4}),
		extraBlock(SigTracker, make([]byte, 0x20)), // 大小不符
		extraBlock(SigPropertyStore, make([]byte, 8)),
		terminalBlock(),
	)
	extra, err := decodeExtraBytes(t, data)
	require.NoError(t, err)
	require.Len(t, extra.Blocks, 3)

	unknown, ok := extra.Blocks[0].(*UnknownBlock)
	require.True(t, ok)
	require.EqualValues(t, 0xDEADBEEF, unknown.Signature())
	require.Equal(t, "Unknown", unknown.Kind())
	require.Equal(t, HexBytes{1, 2, 3, 4}, unknown.Data)

	degraded, ok := extra.Blocks[1].(*UnknownBlock)
	require.True(t, ok)
	require.Equal(t, "TrackerDataBlock", degraded.Kind())
	require.EqualValues(t, SigTracker, degraded.Signature())

	_, ok = extra.Tracker()
	require.False(t, ok)

	require.Equal(t, "PropertyStoreDataBlock", extra.Blocks[2].Kind())
}

func TestExtraDataRecognizedBlocks(t *testing.T) {
	envPayload := make([]byte, fixedANSILen+fixedUnicodeLen)
	copy(envPayload, `%windir%\system32\cmd.exe`)
	copy(envPayload[fixedANSILen:], encodeUTF16(`%windir%\system32\cmd.exe`))

	knownFolder := uuid.MustParse("fdd39ad0-238f-46af-adb4-6c85480369c7")
	data := concat(
		extraBlock(SigEnvironmentVariable, envPayload),
		extraBlock(SigConsoleFE, le32(936)),
		extraBlock(SigSpecialFolder, concat(le32(0x24), le32(0x10))),
		extraBlock(SigKnownFolder, concat(guidBytes(knownFolder), le32(0x14))),
		extraBlock(SigShim, concat(wstr("WinXPSp3"), make([]byte, 0x80-len(wstr("WinXPSp3"))))),
		extraBlock(SigVistaAndAboveIDList, idList(volumeItem(`C:\`))[2:]),
		terminalBlock(),
	)
	extra, err := decodeExtraBytes(t, data)
	require.NoError(t, err)
	require.Len(t, extra.Blocks, 6)

	env := extra.Blocks[0].(*EnvironmentBlock)
	require.Equal(t, `%windir%\system32\cmd.exe`, env.Target())
	require.Equal(t, env.TargetANSI, env.TargetUnicode)

	require.EqualValues(t, 936, extra.Blocks[1].(*ConsoleFEBlock).CodePage)
	require.EqualValues(t, 0x24, extra.Blocks[2].(*SpecialFolderBlock).SpecialFolderID)
	require.Equal(t, knownFolder, extra.Blocks[3].(*KnownFolderBlock).KnownFolderID)
	require.Equal(t, "WinXPSp3", extra.Blocks[4].(*ShimBlock).LayerName)
	require.Len(t, extra.Blocks[5].(*VistaIDListBlock).Items, 1)
}

func TestExtraDataFirstTrackerWins(t *testing.T) {
	extra, err := decodeExtraBytes(t, concat(trackerBlock("first"), trackerBlock("second"), terminalBlock()))
	require.NoError(t, err)
	require.Len(t, extra.Blocks, 2)

	tracker, ok := extra.Tracker()
	require.True(t, ok)
	require.Equal(t, "first", tracker.MachineID)
}

func TestExtraDataSerialization(t *testing.T) {
	extra, err := decodeExtraBytes(t, concat(trackerBlock("ws01", volumeDroid), extraBlock(0x12345678, []byte{0xAB}), terminalBlock()))
	require.NoError(t, err)

	raw, err := json.Marshal(extra)
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "TrackerDataBlock", decoded[0]["type"])
	require.Equal(t, "0xA0000003", decoded[0]["signature"])
	require.Equal(t, "ws01", decoded[0]["block"].(map[string]interface{})["machine_id"])
	require.Equal(t, "ab", decoded[1]["block"].(map[string]interface{})["data"])

	out, err := yaml.Marshal(extra)
	require.NoError(t, err)
	require.Contains(t, string(out), "type: TrackerDataBlock")
	require.Contains(t, string(out), "machine_id: ws01")
}
