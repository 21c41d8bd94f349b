package forensics

import (
	"encoding/binary"
	"strings"
)

// LinkInfoFlags 两个独立的位，可以同时存在
type LinkInfoFlags uint32

const (
	VolumeIDAndLocalBasePath               LinkInfoFlags = 0x00000001
	CommonNetworkRelativeLinkAndPathSuffix LinkInfoFlags = 0x00000002
)

var linkInfoFlagNames = []string{"VolumeIDAndLocalBasePath", "CommonNetworkRelativeLinkAndPathSuffix"}

func (f LinkInfoFlags) Has(flag LinkInfoFlags) bool { return f&flag == flag }

func (f LinkInfoFlags) String() string { return bitString(uint32(f), linkInfoFlagNames) }

func (f LinkInfoFlags) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

const (
	linkInfoMinSize       = 0x1C // 旧版头部，只有 4 个偏移
	linkInfoUnicodeHeader = 0x24 // 扩展头部，附带两个 Unicode 偏移
)

// LinkInfo 目标的位置信息；所有偏移都相对于 LinkInfo 起始位置
type LinkInfo struct {
	Size                            uint32        `json:"size" yaml:"size"`
	HeaderSize                      uint32        `json:"header_size" yaml:"header_size"`
	Flags                           LinkInfoFlags `json:"flags" yaml:"flags"`
	VolumeIDOffset                  uint32        `json:"-" yaml:"-"`
	LocalBasePathOffset             uint32        `json:"-" yaml:"-"`
	CommonNetworkRelativeLinkOffset uint32        `json:"-" yaml:"-"`
	CommonPathSuffixOffset          uint32        `json:"-" yaml:"-"`
	LocalBasePathOffsetUnicode      uint32        `json:"-" yaml:"-"`
	CommonPathSuffixOffsetUnicode   uint32        `json:"-" yaml:"-"`

	VolumeID                  *VolumeID                  `json:"volume_id,omitempty" yaml:"volume_id,omitempty"`
	LocalBasePath             string                     `json:"local_base_path,omitempty" yaml:"local_base_path,omitempty"`
	LocalBasePathUnicode      string                     `json:"local_base_path_unicode,omitempty" yaml:"local_base_path_unicode,omitempty"`
	CommonNetworkRelativeLink *CommonNetworkRelativeLink `json:"common_network_relative_link,omitempty" yaml:"common_network_relative_link,omitempty"`
	CommonPathSuffix          string                     `json:"common_path_suffix,omitempty" yaml:"common_path_suffix,omitempty"`
	CommonPathSuffixUnicode   string                     `json:"common_path_suffix_unicode,omitempty" yaml:"common_path_suffix_unicode,omitempty"`
}

// Path 本地路径优先于网络路径：
// LocalBasePath + CommonPathSuffix，其次 NetName + CommonPathSuffix
func (l *LinkInfo) Path() (string, bool) {
	if l == nil {
		return "", false
	}
	suffix := firstNonEmpty(l.CommonPathSuffixUnicode, l.CommonPathSuffix)
	if local := firstNonEmpty(l.LocalBasePathUnicode, l.LocalBasePath); local != "" {
		return joinWindowsPath(local, suffix), true
	}
	if l.CommonNetworkRelativeLink != nil {
		if share := l.CommonNetworkRelativeLink.ShareName(); share != "" {
			return joinWindowsPath(share, suffix), true
		}
	}
	return "", false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinWindowsPath(base, suffix string) string {
	if suffix == "" {
		return base
	}
	if strings.HasSuffix(base, `\`) {
		return base + suffix
	}
	return base + `\` + suffix
}

// decodeLinkInfo 先按声明的大小缓冲整个结构，之后所有偏移都只在缓冲区内寻址
func (p parser) decodeLinkInfo(c *cursor) (*LinkInfo, error) {
	start := c.off
	head, err := c.read("LinkInfo", 4)
	if err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(head)
	if size < linkInfoMinSize {
		return nil, formatErr("LinkInfo", "size 0x%X below minimum 0x%X", size, linkInfoMinSize)
	}
	rest, err := c.read("LinkInfo", int64(size)-4)
	if err != nil {
		return nil, err
	}
	region := append(head, rest...)

	headerSize, _ := u32At(region, 4)
	if headerSize < linkInfoMinSize || headerSize > size {
		return nil, formatErr("LinkInfo", "header size 0x%X (structure size 0x%X)", headerSize, size)
	}
	flags, _ := u32At(region, 8)
	info := &LinkInfo{
		Size:       size,
		HeaderSize: headerSize,
		Flags:      LinkInfoFlags(flags),
	}
	info.VolumeIDOffset, _ = u32At(region, 12)
	info.LocalBasePathOffset, _ = u32At(region, 16)
	info.CommonNetworkRelativeLinkOffset, _ = u32At(region, 20)
	info.CommonPathSuffixOffset, _ = u32At(region, 24)
	if headerSize >= linkInfoUnicodeHeader {
		info.LocalBasePathOffsetUnicode, _ = u32At(region, 28)
		info.CommonPathSuffixOffsetUnicode, _ = u32At(region, 32)
	}

	if info.Flags.Has(VolumeIDAndLocalBasePath) {
		if info.VolumeID, err = p.decodeVolumeID(region, int(info.VolumeIDOffset)); err != nil {
			return nil, err
		}
		if info.LocalBasePath, err = p.requiredString(region, start, info.LocalBasePathOffset, false, "LocalBasePath"); err != nil {
			return nil, err
		}
		if info.LocalBasePathOffsetUnicode != 0 {
			if info.LocalBasePathUnicode, err = p.requiredString(region, start, info.LocalBasePathOffsetUnicode, true, "LocalBasePathUnicode"); err != nil {
				return nil, err
			}
		}
	}

	if info.Flags.Has(CommonNetworkRelativeLinkAndPathSuffix) {
		if info.CommonNetworkRelativeLink, err = p.decodeNetworkLink(region, int(info.CommonNetworkRelativeLinkOffset)); err != nil {
			return nil, err
		}
	}

	if info.CommonPathSuffixOffset != 0 {
		if info.CommonPathSuffix, err = p.requiredString(region, start, info.CommonPathSuffixOffset, false, "CommonPathSuffix"); err != nil {
			return nil, err
		}
	}
	if info.CommonPathSuffixOffsetUnicode != 0 {
		if info.CommonPathSuffixUnicode, err = p.requiredString(region, start, info.CommonPathSuffixOffsetUnicode, true, "CommonPathSuffixUnicode"); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// requiredString 偏移越出 LinkInfo 缓冲区时拒绝
func (p parser) requiredString(region []byte, start int64, off uint32, wide bool, field string) (string, error) {
	var raw []byte
	var ok bool
	if wide {
		raw, ok = wstringAt(region, int(off))
	} else {
		raw, ok = cstringAt(region, int(off))
	}
	if !ok {
		return "", &TruncatedDataError{
			Structure: field,
			Offset:    start + int64(off),
			Want:      1,
			Have:      int64(len(region)) - int64(off),
		}
	}
	return p.decode(raw, wide), nil
}
