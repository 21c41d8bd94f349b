package forensics

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// cursor 是解码器唯一的读取入口，所有长度在分配前都先和剩余字节数比较
type cursor struct {
	r    io.ReadSeeker
	off  int64
	size int64
}

func newCursor(r io.ReadSeeker) (*cursor, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek end: %w", err)
	}
	c := &cursor{r: r, size: end}
	if err := c.seek(0); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cursor) remaining() int64 {
	if c.off >= c.size {
		return 0
	}
	return c.size - c.off
}

// seek 绝对定位
func (c *cursor) seek(off int64) error {
	if off < 0 || off > c.size {
		return &TruncatedDataError{Structure: "seek", Offset: off, Want: 0, Have: c.remaining()}
	}
	if _, err := c.r.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("seek %d: %w", off, err)
	}
	c.off = off
	return nil
}

// skip 相对定位
func (c *cursor) skip(n int64) error {
	return c.seek(c.off + n)
}

// read 读取 n 个字节；n 超过剩余长度时直接失败，不做预分配
func (c *cursor) read(structure string, n int64) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, &TruncatedDataError{Structure: structure, Offset: c.off, Want: n, Have: c.remaining()}
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &TruncatedDataError{Structure: structure, Offset: c.off, Want: n, Have: c.remaining()}
		}
		return nil, fmt.Errorf("read %s: %w", structure, err)
	}
	c.off += n
	return buf, nil
}

func (c *cursor) u16(structure string) (uint16, error) {
	b, err := c.read(structure, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) u32(structure string) (uint32, error) {
	b, err := c.read(structure, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// 以下辅助函数只在已缓冲的区域内按偏移取值

func sliceAt(data []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(data) || n > len(data)-off {
		return nil, false
	}
	return data[off : off+n], true
}

func u16At(data []byte, off int) (uint16, bool) {
	b, ok := sliceAt(data, off, 2)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func u32At(data []byte, off int) (uint32, bool) {
	b, ok := sliceAt(data, off, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}
