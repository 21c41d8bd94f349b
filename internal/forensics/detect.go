package forensics

import (
	"bytes"
	"io"
	"os"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
)

// ShortcutMIME .lnk 的 MIME 类型
const ShortcutMIME = "application/x-ms-shortcut"

var shortcutType = filetype.NewType("lnk", ShortcutMIME)

func init() {
	filetype.AddMatcher(shortcutType, shellLinkMatcher)
}

var clsidOnDisk = []byte{
	0x01, 0x14, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46,
}

// shellLinkMatcher 头部大小 0x4C 加 LinkCLSID，改了扩展名的快捷方式也能识别
func shellLinkMatcher(buf []byte) bool {
	return len(buf) >= 0x14 &&
		buf[0] == 0x4C && buf[1] == 0x00 && buf[2] == 0x00 && buf[3] == 0x00 &&
		bytes.Equal(buf[4:0x14], clsidOnDisk)
}

// DetectType 返回内容对应的文件类型
func DetectType(head []byte) (types.Type, error) {
	return filetype.Match(head)
}

// IsShellLink 判断内容是否为 Shell Link
func IsShellLink(head []byte) bool {
	kind, err := filetype.Match(head)
	return err == nil && kind == shortcutType
}

// IsShellLinkFile 只读取文件开头判断
func IsShellLinkFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, &ContainerAccessError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, &ContainerAccessError{Op: "read", Path: path, Err: err}
	}
	return IsShellLink(head[:n]), nil
}
