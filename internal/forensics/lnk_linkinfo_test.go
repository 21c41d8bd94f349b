package forensics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeLinkInfoBytes(t *testing.T, data []byte) (*LinkInfo, error) {
	t.Helper()
	c, err := newCursor(bytes.NewReader(data))
	require.NoError(t, err)
	return newParser(nil, nil).decodeLinkInfo(c)
}

func TestLinkInfoLocalPath(t *testing.T) {
	info, err := decodeLinkInfoBytes(t, localLinkInfo(volumeID(uint32(DriveFixed), 0xDEADBEEF, "OS"), `C:\tools`, "run.exe"))
	require.NoError(t, err)
	require.True(t, info.Flags.Has(VolumeIDAndLocalBasePath))
	require.Nil(t, info.CommonNetworkRelativeLink)
	require.Equal(t, "DEAD-BEEF", info.VolumeID.SerialNumber)
	require.Equal(t, `C:\tools`, info.LocalBasePath)
	require.Equal(t, "run.exe", info.CommonPathSuffix)

	path, ok := info.Path()
	require.True(t, ok)
	require.Equal(t, `C:\tools\run.exe`, path)
}

func TestLinkInfoEmptySuffix(t *testing.T) {
	info, err := decodeLinkInfoBytes(t, localLinkInfo(volumeID(uint32(DriveFixed), 1, ""), `C:\Windows\System32\cmd.exe`, ""))
	require.NoError(t, err)

	path, ok := info.Path()
	require.True(t, ok)
	require.Equal(t, `C:\Windows\System32\cmd.exe`, path)
}

func TestLinkInfoNetworkPath(t *testing.T) {
	info, err := decodeLinkInfoBytes(t, networkLinkInfo(`\\FILESRV\share`, `docs\report.docx`))
	require.NoError(t, err)
	require.Nil(t, info.VolumeID)
	require.NotNil(t, info.CommonNetworkRelativeLink)
	require.Equal(t, "WNNC_NET_LANMAN", info.CommonNetworkRelativeLink.NetworkProviderType.String())

	path, ok := info.Path()
	require.True(t, ok)
	require.Equal(t, `\\FILESRV\share\docs\report.docx`, path)
}

func TestLinkInfoNetNameOutOfRange(t *testing.T) {
	data := networkLinkInfo(`\\FILESRV\share`, `docs\report.docx`)
	// CNRL 从 0x1C 开始，NetNameOffset 位于其 +8
	copy(data[linkInfoMinSize+8:], le32(0x300))

	info, err := decodeLinkInfoBytes(t, data)
	require.NoError(t, err)
	require.NotNil(t, info.CommonNetworkRelativeLink)
	require.Empty(t, info.CommonNetworkRelativeLink.NetName)
	require.Equal(t, "WNNC_NET_LANMAN", info.CommonNetworkRelativeLink.NetworkProviderType.String())

	_, ok := info.Path()
	require.False(t, ok)
}

func TestLinkInfoLocalWinsOverNetwork(t *testing.T) {
	info := &LinkInfo{
		LocalBasePath:             `E:\mirror`,
		CommonPathSuffix:          "a.txt",
		CommonNetworkRelativeLink: &CommonNetworkRelativeLink{NetName: `\\srv\share`},
	}
	path, ok := info.Path()
	require.True(t, ok)
	require.Equal(t, `E:\mirror\a.txt`, path)

	info.LocalBasePath = ""
	path, _ = info.Path()
	require.Equal(t, `\\srv\share\a.txt`, path)

	_, ok = (&LinkInfo{}).Path()
	require.False(t, ok)
}

func TestLinkInfoUnicodePreferred(t *testing.T) {
	data := unicodeLinkInfo(volumeID(uint32(DriveFixed), 1, ""), `C:\Users\?`, `C:\Users\张三`, "a.txt", "报告.txt")
	info, err := decodeLinkInfoBytes(t, data)
	require.NoError(t, err)
	require.Equal(t, `C:\Users\?`, info.LocalBasePath)
	require.Equal(t, `C:\Users\张三`, info.LocalBasePathUnicode)

	path, ok := info.Path()
	require.True(t, ok)
	require.Equal(t, `C:\Users\张三\报告.txt`, path)
}

func TestLinkInfoErrors(t *testing.T) {
	// 结构大小小于最小头部
	_, err := decodeLinkInfoBytes(t, concat(le32(0x10), make([]byte, 12)))
	require.ErrorIs(t, err, ErrFormat)

	// 声明大小超出剩余数据
	_, err = decodeLinkInfoBytes(t, concat(le32(0x100), make([]byte, 0x20)))
	require.ErrorIs(t, err, ErrTruncated)

	// LocalBasePath 偏移落在结构之外
	data := localLinkInfo(volumeID(uint32(DriveFixed), 1, ""), `C:\x`, "")
	copy(data[16:20], le32(0x200))
	_, err = decodeLinkInfoBytes(t, data)
	require.ErrorIs(t, err, ErrTruncated)

	// 头部大小超出结构大小
	data = localLinkInfo(volumeID(uint32(DriveFixed), 1, ""), `C:\x`, "")
	copy(data[4:8], le32(0x400))
	_, err = decodeLinkInfoBytes(t, data)
	require.ErrorIs(t, err, ErrFormat)
}
