package forensics

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// StringData 是 StringData 区段中的一个计数字符串（不以 NUL 结尾）
type StringData struct {
	CharCount uint16 `json:"char_count" yaml:"char_count"`
	Value     string `json:"value" yaml:"value"`
}

func (s *StringData) String() string {
	if s == nil {
		return ""
	}
	return s.Value
}

// LookupCodepage 按 WHATWG 标签查找 ANSI 代码页（如 windows-1252、shift_jis、gbk）
func LookupCodepage(name string) (encoding.Encoding, error) {
	if name == "" {
		return charmap.Windows1252, nil
	}
	return htmlindex.Get(name)
}

// parser 持有一次解码共用的 ANSI 代码页与日志
type parser struct {
	ansi encoding.Encoding
	log  *zap.Logger
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// utf16 非法代理对替换为 U+FFFD，不会失败
func (p parser) utf16(b []byte) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

func (p parser) ansiString(b []byte) string {
	enc := p.ansi
	if enc == nil {
		enc = charmap.Windows1252
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

func (p parser) decode(b []byte, isUnicode bool) string {
	if isUnicode {
		return p.utf16(b)
	}
	return p.ansiString(b)
}

// readStringData 读取 2 字节字符数 + 字符数据；Unicode 模式下每个字符 2 字节
func (p parser) readStringData(c *cursor, structure string, isUnicode bool) (*StringData, error) {
	count, err := c.u16(structure)
	if err != nil {
		return nil, err
	}
	n := int64(count)
	if isUnicode {
		n *= 2
	}
	raw, err := c.read(structure, n)
	if err != nil {
		return nil, err
	}
	return &StringData{CharCount: count, Value: p.decode(raw, isUnicode)}, nil
}

// cstringAt 取 off 处以 NUL 结尾的 8 位字符串，缺少 NUL 时截至区域末尾
func cstringAt(data []byte, off int) ([]byte, bool) {
	if off < 0 || off >= len(data) {
		return nil, false
	}
	rest := data[off:]
	if i := bytes.IndexByte(rest, 0); i >= 0 {
		return rest[:i], true
	}
	return rest, true
}

// wstringAt 取 off 处以 0x0000 结尾的 UTF-16LE 字符串
func wstringAt(data []byte, off int) ([]byte, bool) {
	if off < 0 || off >= len(data) {
		return nil, false
	}
	rest := data[off:]
	for i := 0; i+1 < len(rest); i += 2 {
		if rest[i] == 0 && rest[i+1] == 0 {
			return rest[:i], true
		}
	}
	return rest[:len(rest)&^1], true
}
