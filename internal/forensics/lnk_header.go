package forensics

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const headerSize = 0x4C // LNK Header is 76 bytes

// LinkCLSID 00021401-0000-0000-C000-000000000046
var LinkCLSID = uuid.MustParse("00021401-0000-0000-c000-000000000046")

// LinkFlags 指定结构体中哪些可选部分存在
type LinkFlags uint32

const (
	HasLinkTargetIDList LinkFlags = 1 << iota
	HasLinkInfo
	HasName
	HasRelativePath
	HasWorkingDir
	HasArguments
	HasIconLocation
	IsUnicode
	ForceNoLinkInfo
	HasExpString
	RunInSeparateProcess
	Unused1
	HasDarwinID
	RunAsUser
	HasExpIcon
	NoPidlAlias
	Unused2
	RunWithShimLayer
	ForceNoLinkTrack
	EnableTargetMetadata
	DisableLinkPathTracking
	DisableKnownFolderTracking
	DisableKnownFolderAlias
	AllowLinkToLink
	UnaliasOnSave
	PreferEnvironmentPath
	KeepLocalIDListForUNCTarget
)

var linkFlagNames = []string{
	"HasLinkTargetIDList", "HasLinkInfo", "HasName", "HasRelativePath", "HasWorkingDir",
	"HasArguments", "HasIconLocation", "IsUnicode", "ForceNoLinkInfo", "HasExpString",
	"RunInSeparateProcess", "Unused1", "HasDarwinID", "RunAsUser", "HasExpIcon",
	"NoPidlAlias", "Unused2", "RunWithShimLayer", "ForceNoLinkTrack", "EnableTargetMetadata",
	"DisableLinkPathTracking", "DisableKnownFolderTracking", "DisableKnownFolderAlias",
	"AllowLinkToLink", "UnaliasOnSave", "PreferEnvironmentPath", "KeepLocalIDListForUNCTarget",
}

func (f LinkFlags) Has(flag LinkFlags) bool { return f&flag == flag }

func (f LinkFlags) String() string { return bitString(uint32(f), linkFlagNames) }

func (f LinkFlags) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// FileAttributes 目标文件在创建快捷方式时的属性
type FileAttributes uint32

const (
	FileAttributeReadonly          FileAttributes = 0x0001
	FileAttributeHidden            FileAttributes = 0x0002
	FileAttributeSystem            FileAttributes = 0x0004
	FileAttributeDirectory         FileAttributes = 0x0010
	FileAttributeArchive           FileAttributes = 0x0020
	FileAttributeNormal            FileAttributes = 0x0080
	FileAttributeTemporary         FileAttributes = 0x0100
	FileAttributeSparseFile        FileAttributes = 0x0200
	FileAttributeReparsePoint      FileAttributes = 0x0400
	FileAttributeCompressed        FileAttributes = 0x0800
	FileAttributeOffline           FileAttributes = 0x1000
	FileAttributeNotContentIndexed FileAttributes = 0x2000
	FileAttributeEncrypted         FileAttributes = 0x4000
)

var fileAttributeNames = []string{
	"FILE_ATTRIBUTE_READONLY", "FILE_ATTRIBUTE_HIDDEN", "FILE_ATTRIBUTE_SYSTEM", "Reserved1",
	"FILE_ATTRIBUTE_DIRECTORY", "FILE_ATTRIBUTE_ARCHIVE", "Reserved2", "FILE_ATTRIBUTE_NORMAL",
	"FILE_ATTRIBUTE_TEMPORARY", "FILE_ATTRIBUTE_SPARSE_FILE", "FILE_ATTRIBUTE_REPARSE_POINT",
	"FILE_ATTRIBUTE_COMPRESSED", "FILE_ATTRIBUTE_OFFLINE", "FILE_ATTRIBUTE_NOT_CONTENT_INDEXED",
	"FILE_ATTRIBUTE_ENCRYPTED",
}

func (a FileAttributes) Has(attr FileAttributes) bool { return a&attr == attr }

func (a FileAttributes) String() string { return bitString(uint32(a), fileAttributeNames) }

func (a FileAttributes) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// bitString 按位输出名称，未命名的位以十六进制余数保留
func bitString(v uint32, names []string) string {
	var parts []string
	var rest uint32
	for bit := 0; bit < 32; bit++ {
		mask := uint32(1) << bit
		if v&mask == 0 {
			continue
		}
		if bit < len(names) {
			parts = append(parts, names[bit])
		} else {
			rest |= mask
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%08X", rest))
	}
	return strings.Join(parts, "|")
}

// ShowCommand 目标程序启动时的窗口状态
type ShowCommand uint32

const (
	ShowNormal      ShowCommand = 0x00000001
	ShowMaximized   ShowCommand = 0x00000003
	ShowMinNoActive ShowCommand = 0x00000007
)

// Valid 只有 1、3、7 是合法取值，其他值按原样保留
func (s ShowCommand) Valid() bool {
	return s == ShowNormal || s == ShowMaximized || s == ShowMinNoActive
}

func (s ShowCommand) String() string {
	switch s {
	case ShowNormal:
		return "SW_SHOWNORMAL"
	case ShowMaximized:
		return "SW_SHOWMAXIMIZED"
	case ShowMinNoActive:
		return "SW_SHOWMINNOACTIVE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(s))
	}
}

func (s ShowCommand) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// HotKey 低字节为虚拟键码，高字节为修饰键
type HotKey struct {
	Key       uint8
	Modifiers uint8
}

const (
	hotkeyShift   = 0x01
	hotkeyControl = 0x02
	hotkeyAlt     = 0x04
)

func (h HotKey) keyName() string {
	switch k := h.Key; {
	case k >= 0x30 && k <= 0x39, k >= 0x41 && k <= 0x5A:
		return string(rune(k))
	case k >= 0x70 && k <= 0x87:
		return fmt.Sprintf("F%d", k-0x6F)
	case k == 0x90:
		return "NUM LOCK"
	case k == 0x91:
		return "SCROLL LOCK"
	default:
		return fmt.Sprintf("0x%02X", k)
	}
}

func (h HotKey) String() string {
	if h.Key == 0 {
		return ""
	}
	var parts []string
	if h.Modifiers&hotkeyControl != 0 {
		parts = append(parts, "CTRL")
	}
	if h.Modifiers&hotkeyAlt != 0 {
		parts = append(parts, "ALT")
	}
	if h.Modifiers&hotkeyShift != 0 {
		parts = append(parts, "SHIFT")
	}
	return strings.Join(append(parts, h.keyName()), "+")
}

func (h HotKey) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// Header 是 76 字节的 ShellLinkHeader，解码后不再修改
type Header struct {
	HeaderSize     uint32         `json:"header_size" yaml:"header_size"`
	LinkCLSID      uuid.UUID      `json:"link_clsid" yaml:"link_clsid"`
	Flags          LinkFlags      `json:"flags" yaml:"flags"`
	FileAttributes FileAttributes `json:"file_attributes" yaml:"file_attributes"`
	CreationTime   time.Time      `json:"ctime,omitzero" yaml:"ctime,omitempty"`
	AccessTime     time.Time      `json:"atime,omitzero" yaml:"atime,omitempty"`
	WriteTime      time.Time      `json:"mtime,omitzero" yaml:"mtime,omitempty"`
	FileSize       uint32         `json:"file_size" yaml:"file_size"`
	IconIndex      int32          `json:"icon_index" yaml:"icon_index"`
	ShowCommand    ShowCommand    `json:"show_command" yaml:"show_command"`
	HotKey         HotKey         `json:"hot_key" yaml:"hot_key"`
}

// IsUnicode 决定后续所有 StringData 的编码
func (h *Header) IsUnicode() bool { return h.Flags.Has(IsUnicode) }

func decodeHeader(c *cursor) (*Header, error) {
	data, err := c.read("ShellLinkHeader", headerSize)
	if err != nil {
		var te *TruncatedDataError
		if errors.As(err, &te) {
			return nil, formatErr("ShellLinkHeader", "need %d bytes, have %d", headerSize, te.Have)
		}
		return nil, err
	}

	// Size: 0x00 (4)
	size := binary.LittleEndian.Uint32(data[0x00:0x04])
	if size != headerSize {
		return nil, formatErr("ShellLinkHeader", "header size 0x%X, want 0x%X", size, headerSize)
	}
	// GUID: 0x04 (16)
	clsid := guidFromBytes(data[0x04:0x14])
	if clsid != LinkCLSID {
		return nil, formatErr("ShellLinkHeader", "class id %s", clsid)
	}

	hotkey := binary.LittleEndian.Uint16(data[0x40:0x42])
	return &Header{
		HeaderSize:     size,
		LinkCLSID:      clsid,
		Flags:          LinkFlags(binary.LittleEndian.Uint32(data[0x14:0x18])),
		FileAttributes: FileAttributes(binary.LittleEndian.Uint32(data[0x18:0x1C])),
		// Times: Creation(0x1C), Access(0x24), Write(0x2C)
		CreationTime: filetimeToTime(binary.LittleEndian.Uint64(data[0x1C:0x24])),
		AccessTime:   filetimeToTime(binary.LittleEndian.Uint64(data[0x24:0x2C])),
		WriteTime:    filetimeToTime(binary.LittleEndian.Uint64(data[0x2C:0x34])),
		FileSize:     binary.LittleEndian.Uint32(data[0x34:0x38]),
		IconIndex:    int32(binary.LittleEndian.Uint32(data[0x38:0x3C])),
		ShowCommand:  ShowCommand(binary.LittleEndian.Uint32(data[0x3C:0x40])),
		HotKey:       HotKey{Key: uint8(hotkey), Modifiers: uint8(hotkey >> 8)},
		// 0x42..0x4C reserved
	}, nil
}
