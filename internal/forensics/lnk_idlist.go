package forensics

import (
	"encoding/hex"
	"strings"
)

// HexBytes 以十六进制文本形式序列化原始字节
type HexBytes []byte

func (b HexBytes) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(out, b)
	return out, nil
}

// ShellItem 是 IDList 中的一个不透明 ItemID，Data 不含 2 字节长度前缀
type ShellItem struct {
	Size      uint16   `json:"size" yaml:"size"`
	ClassType uint8    `json:"class_type" yaml:"class_type"`
	Data      HexBytes `json:"data" yaml:"data"`
}

// LinkTargetIDList 按顺序记录从命名空间根到目标的 shell item
type LinkTargetIDList struct {
	Size  uint16      `json:"size" yaml:"size"`
	Items []ShellItem `json:"items" yaml:"items"`

	path string
}

// Path 从 file entry 类型的 shell item 推导的路径片段
func (l *LinkTargetIDList) Path() (string, bool) {
	if l == nil || l.path == "" {
		return "", false
	}
	return l.path, true
}

const (
	classMask      = 0x70
	classFileEntry = 0x30
	fileEntryWide  = 0x04

	fileEntryNameOffset = 12 // class(1) unknown(1) size(4) fat time(4) attributes(2)
)

// volumeClasses 带盘符名称的卷 shell item；0x2E 等委托文件夹只含 GUID
var volumeClasses = map[uint8]bool{0x23: true, 0x25: true, 0x29: true, 0x2F: true}

func (p parser) decodeIDList(c *cursor) (*LinkTargetIDList, error) {
	size, err := c.u16("LinkTargetIDList")
	if err != nil {
		return nil, err
	}
	data, err := c.read("LinkTargetIDList", int64(size))
	if err != nil {
		return nil, err
	}
	items, err := parseItemIDs(data)
	if err != nil {
		return nil, err
	}
	return &LinkTargetIDList{
		Size:  size,
		Items: items,
		path:  p.idListPath(items),
	}, nil
}

// parseItemIDs 遍历 ItemID 序列直到 0 长度终止符；没有终止符时在缓冲区末尾停止
func parseItemIDs(data []byte) ([]ShellItem, error) {
	var items []ShellItem
	off := 0
	for off+2 <= len(data) {
		itemSize, _ := u16At(data, off)
		if itemSize == 0 {
			break
		}
		if itemSize < 2 {
			return nil, formatErr("ItemID", "size %d at offset %d", itemSize, off)
		}
		raw, ok := sliceAt(data, off+2, int(itemSize)-2)
		if !ok {
			return nil, &TruncatedDataError{
				Structure: "ItemID",
				Offset:    int64(off),
				Want:      int64(itemSize),
				Have:      int64(len(data) - off),
			}
		}
		item := ShellItem{Size: itemSize, Data: append(HexBytes(nil), raw...)}
		if len(raw) > 0 {
			item.ClassType = raw[0]
		}
		items = append(items, item)
		off += int(itemSize)
	}
	return items, nil
}

// idListPath 拼接卷名与 file entry 的主名称；没有 file entry 时返回空
func (p parser) idListPath(items []ShellItem) string {
	var parts []string
	hasFile := false
	for _, item := range items {
		if len(item.Data) == 0 {
			continue
		}
		switch {
		case volumeClasses[item.ClassType]:
			if name, ok := cstringAt(item.Data, 1); ok && len(name) > 0 {
				parts = []string{strings.TrimRight(p.ansiString(name), `\`)}
			}
		case item.ClassType&classMask == classFileEntry:
			if name := p.fileEntryName(item); name != "" {
				parts = append(parts, name)
				hasFile = true
			}
		}
	}
	if !hasFile {
		return ""
	}
	return strings.Join(parts, `\`)
}

func (p parser) fileEntryName(item ShellItem) string {
	if item.ClassType&fileEntryWide != 0 {
		name, ok := wstringAt(item.Data, fileEntryNameOffset)
		if !ok {
			return ""
		}
		return p.utf16(name)
	}
	name, ok := cstringAt(item.Data, fileEntryNameOffset)
	if !ok {
		return ""
	}
	return p.ansiString(name)
}
