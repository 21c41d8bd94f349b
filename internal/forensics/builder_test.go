package forensics

import (
	"bytes"
	"encoding/binary"
	"time"
	"unicode/utf16"

	"github.com/google/uuid"
)

// lnkBuilder 在内存中拼装 .lnk 字节，测试不依赖二进制样本
type lnkBuilder struct {
	flags    LinkFlags
	attrs    FileAttributes
	ctime    time.Time
	atime    time.Time
	mtime    time.Time
	fileSize uint32
	showCmd  uint32
	hotKey   uint16

	idList   []byte
	linkInfo []byte
	strs     map[LinkFlags]string
	extra    []byte
}

var stringOrder = []LinkFlags{HasName, HasRelativePath, HasWorkingDir, HasArguments, HasIconLocation}

func newLnk() *lnkBuilder {
	return &lnkBuilder{showCmd: uint32(ShowNormal), strs: map[LinkFlags]string{}}
}

func (b *lnkBuilder) withString(flag LinkFlags, s string) *lnkBuilder {
	b.strs[flag] = s
	return b
}

func (b *lnkBuilder) build() []byte {
	flags := b.flags
	if b.idList != nil {
		flags |= HasLinkTargetIDList
	}
	if b.linkInfo != nil {
		flags |= HasLinkInfo
	}
	for flag := range b.strs {
		flags |= flag
	}
	unicode := flags.Has(IsUnicode)

	var buf bytes.Buffer
	h := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(h[0x00:], headerSize)
	copy(h[0x04:0x14], clsidOnDisk)
	binary.LittleEndian.PutUint32(h[0x14:], uint32(flags))
	binary.LittleEndian.PutUint32(h[0x18:], uint32(b.attrs))
	binary.LittleEndian.PutUint64(h[0x1C:], toFiletime(b.ctime))
	binary.LittleEndian.PutUint64(h[0x24:], toFiletime(b.atime))
	binary.LittleEndian.PutUint64(h[0x2C:], toFiletime(b.mtime))
	binary.LittleEndian.PutUint32(h[0x34:], b.fileSize)
	binary.LittleEndian.PutUint32(h[0x3C:], b.showCmd)
	binary.LittleEndian.PutUint16(h[0x40:], b.hotKey)
	buf.Write(h)

	buf.Write(b.idList)
	buf.Write(b.linkInfo)
	for _, flag := range stringOrder {
		if s, ok := b.strs[flag]; ok {
			buf.Write(stringData(s, unicode))
		}
	}
	buf.Write(b.extra)
	return buf.Bytes()
}

func toFiletime(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	return uint64(t.Unix()+11644473600)*10000000 + uint64(t.Nanosecond()/100)
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func encodeUTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, le16(u)...)
	}
	return out
}

func cstr(s string) []byte { return append([]byte(s), 0) }

func wstr(s string) []byte { return append(encodeUTF16(s), 0, 0) }

func stringData(s string, unicode bool) []byte {
	if unicode {
		units := utf16.Encode([]rune(s))
		return append(le16(uint16(len(units))), encodeUTF16(s)...)
	}
	return append(le16(uint16(len(s))), s...)
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// shellItem 2 字节长度 + class + body
func shellItem(class byte, body []byte) []byte {
	return concat(le16(uint16(3+len(body))), []byte{class}, body)
}

func volumeItem(name string) []byte {
	return shellItem(0x2F, cstr(name))
}

func fileEntryItem(name string, wide bool) []byte {
	class := byte(0x32)
	meta := make([]byte, fileEntryNameOffset-1) // unknown + size + fat time + attributes
	if wide {
		return shellItem(class|fileEntryWide, concat(meta, wstr(name)))
	}
	return shellItem(class, concat(meta, cstr(name)))
}

func idList(items ...[]byte) []byte {
	body := concat(append(items, []byte{0, 0})...)
	return concat(le16(uint16(len(body))), body)
}

func volumeID(drive, serial uint32, label string) []byte {
	body := concat(le32(drive), le32(serial), le32(0x10), cstr(label))
	return concat(le32(uint32(4+len(body))), body)
}

func volumeIDUnicode(drive, serial uint32, label string) []byte {
	body := concat(le32(drive), le32(serial), le32(volumeLabelUnicodeTag), le32(0x14), wstr(label))
	return concat(le32(uint32(4+len(body))), body)
}

// localLinkInfo 旧版 0x1C 头部：VolumeID、LocalBasePath、CommonPathSuffix 依次排列
func localLinkInfo(vol []byte, base, suffix string) []byte {
	volOff := uint32(linkInfoMinSize)
	baseOff := volOff + uint32(len(vol))
	suffixOff := baseOff + uint32(len(base)) + 1
	size := suffixOff + uint32(len(suffix)) + 1
	return concat(
		le32(size), le32(linkInfoMinSize), le32(uint32(VolumeIDAndLocalBasePath)),
		le32(volOff), le32(baseOff), le32(0), le32(suffixOff),
		vol, cstr(base), cstr(suffix),
	)
}

func networkLink(netName string) []byte {
	body := concat(le32(cnrlValidNetType), le32(cnrlMinSize), le32(0), le32(0x00020000), cstr(netName))
	return concat(le32(uint32(4+len(body))), body)
}

func networkLinkInfo(netName, suffix string) []byte {
	cnrl := networkLink(netName)
	cnrlOff := uint32(linkInfoMinSize)
	suffixOff := cnrlOff + uint32(len(cnrl))
	size := suffixOff + uint32(len(suffix)) + 1
	return concat(
		le32(size), le32(linkInfoMinSize), le32(uint32(CommonNetworkRelativeLinkAndPathSuffix)),
		le32(0), le32(0), le32(cnrlOff), le32(suffixOff),
		cnrl, cstr(suffix),
	)
}

// unicodeLinkInfo 0x24 头部，ANSI 与 Unicode 路径同时存在
func unicodeLinkInfo(vol []byte, base, baseW, suffix, suffixW string) []byte {
	volOff := uint32(linkInfoUnicodeHeader)
	baseOff := volOff + uint32(len(vol))
	suffixOff := baseOff + uint32(len(base)) + 1
	baseWOff := suffixOff + uint32(len(suffix)) + 1
	suffixWOff := baseWOff + uint32(len(wstr(baseW)))
	size := suffixWOff + uint32(len(wstr(suffixW)))
	return concat(
		le32(size), le32(linkInfoUnicodeHeader), le32(uint32(VolumeIDAndLocalBasePath)),
		le32(volOff), le32(baseOff), le32(0), le32(suffixOff), le32(baseWOff), le32(suffixWOff),
		vol, cstr(base), cstr(suffix), wstr(baseW), wstr(suffixW),
	)
}

func guidBytes(u uuid.UUID) []byte {
	b := make([]byte, 16)
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	copy(b[8:], u[8:])
	return b
}

func extraBlock(sig uint32, payload []byte) []byte {
	return concat(le32(uint32(extraBlockHeaderSize+len(payload))), le32(sig), payload)
}

func trackerBlock(machine string, droids ...uuid.UUID) []byte {
	name := make([]byte, 16)
	copy(name, machine)
	ids := make([]byte, 0, 64)
	for i := 0; i < 4; i++ {
		var u uuid.UUID
		if i < len(droids) {
			u = droids[i]
		}
		ids = append(ids, guidBytes(u)...)
	}
	return extraBlock(SigTracker, concat(le32(0x58), le32(0), name, ids))
}

func terminalBlock() []byte { return le32(0) }
