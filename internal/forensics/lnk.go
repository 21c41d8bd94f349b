package forensics

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
)

// LinkFile 一个完整解码的 .lnk 文件；可选成员是否存在严格由 Header.Flags 决定
type LinkFile struct {
	TargetFullPath string    `json:"target_full_path,omitempty" yaml:"target_full_path,omitempty"`
	Metadata       *Metadata `json:"lnk_file_metadata,omitempty" yaml:"lnk_file_metadata,omitempty"`

	Header       *Header           `json:"shell_link_header" yaml:"shell_link_header"`
	TargetIDList *LinkTargetIDList `json:"link_target_id_list,omitempty" yaml:"link_target_id_list,omitempty"`
	LinkInfo     *LinkInfo         `json:"link_info,omitempty" yaml:"link_info,omitempty"`
	Name         *StringData       `json:"name_string,omitempty" yaml:"name_string,omitempty"`
	RelativePath *StringData       `json:"relative_path,omitempty" yaml:"relative_path,omitempty"`
	WorkingDir   *StringData       `json:"working_dir,omitempty" yaml:"working_dir,omitempty"`
	Arguments    *StringData       `json:"command_line_arguments,omitempty" yaml:"command_line_arguments,omitempty"`
	IconLocation *StringData       `json:"icon_location,omitempty" yaml:"icon_location,omitempty"`
	ExtraData    *ExtraData        `json:"extra_data,omitempty" yaml:"extra_data,omitempty"`
}

// Path 解析目标完整路径：LinkInfo 优先，其次 IDList 推导路径
func (l *LinkFile) Path() (string, bool) {
	if p, ok := l.LinkInfo.Path(); ok {
		return p, true
	}
	return l.TargetIDList.Path()
}

// Hostname 取第一个 TrackerDataBlock 中的 MachineID，没有时为空
func (l *LinkFile) Hostname() string {
	if t, ok := l.ExtraData.Tracker(); ok {
		return t.MachineID
	}
	return ""
}

// Decoder 可复用、并发安全的解码器
type Decoder struct {
	ansi encoding.Encoding
	log  *zap.Logger
}

// Option 配置 Decoder
type Option func(*Decoder)

// WithLogger 记录降级解析的细节
func WithLogger(log *zap.Logger) Option {
	return func(d *Decoder) {
		if log != nil {
			d.log = log
		}
	}
}

// WithCodepage 设置 8 位字符串使用的 ANSI 代码页
func WithCodepage(enc encoding.Encoding) Option {
	return func(d *Decoder) {
		if enc != nil {
			d.ansi = enc
		}
	}
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Decoder) parser() parser {
	return newParser(d.ansi, d.log)
}

func newParser(ansi encoding.Encoding, log *zap.Logger) parser {
	if log == nil {
		log = zap.NewNop()
	}
	return parser{ansi: ansi, log: log}
}

// Decode 从头解码一个 Shell Link 流
func (d *Decoder) Decode(r io.ReadSeeker) (*LinkFile, error) {
	c, err := newCursor(r)
	if err != nil {
		return nil, err
	}
	p := d.parser()

	header, err := decodeHeader(c)
	if err != nil {
		return nil, err
	}
	lnk := &LinkFile{Header: header}
	flags := header.Flags

	if flags.Has(HasLinkTargetIDList) {
		if lnk.TargetIDList, err = p.decodeIDList(c); err != nil {
			return nil, err
		}
	}
	if flags.Has(HasLinkInfo) {
		if lnk.LinkInfo, err = p.decodeLinkInfo(c); err != nil {
			return nil, err
		}
	}

	unicode := header.IsUnicode()
	strs := []struct {
		flag LinkFlags
		name string
		dst  **StringData
	}{
		{HasName, "NameString", &lnk.Name},
		{HasRelativePath, "RelativePath", &lnk.RelativePath},
		{HasWorkingDir, "WorkingDir", &lnk.WorkingDir},
		{HasArguments, "CommandLineArguments", &lnk.Arguments},
		{HasIconLocation, "IconLocation", &lnk.IconLocation},
	}
	for _, s := range strs {
		if !flags.Has(s.flag) {
			continue
		}
		if *s.dst, err = p.readStringData(c, s.name, unicode); err != nil {
			return nil, err
		}
	}

	extra, err := p.decodeExtraData(c)
	if err != nil {
		p.log.Debug("extra data discarded", zap.Int64("offset", c.off), zap.Error(err))
	} else {
		lnk.ExtraData = extra
	}

	if path, ok := lnk.Path(); ok {
		lnk.TargetFullPath = path
	} else {
		p.log.Debug("target path not derivable")
	}
	return lnk, nil
}

// DecodeBytes 解码内存中的 .lnk 内容
func (d *Decoder) DecodeBytes(data []byte) (*LinkFile, error) {
	return d.Decode(bytes.NewReader(data))
}

// DecodeFile 先采集容器文件元数据，再解码其内容
func (d *Decoder) DecodeFile(path string) (*LinkFile, error) {
	meta, err := ReadMetadata(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &ContainerAccessError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	lnk, err := d.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lnk.Metadata = meta
	return lnk, nil
}

// ParseLnk 解析 .lnk 文件（默认代码页 windows-1252）
func ParseLnk(path string) (*LinkFile, error) {
	return NewDecoder().DecodeFile(path)
}

// ParseLnkBytes 解析内存中的 .lnk 内容
func ParseLnkBytes(data []byte) (*LinkFile, error) {
	return NewDecoder().DecodeBytes(data)
}
