package forensics

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat 结构签名或字段取值不符合 Shell Link 格式
	ErrFormat = errors.New("lnk: invalid format")
	// ErrTruncated 声明的长度超出了可读取的字节数
	ErrTruncated = errors.New("lnk: truncated data")
	// ErrContainerAccess 读取 .lnk 文件本身（打开、stat、哈希）失败
	ErrContainerAccess = errors.New("lnk: container access failed")
)

// FormatError 表示致命的格式错误（magic、CLSID 或结构大小非法）
type FormatError struct {
	Structure string
	Reason    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("lnk: invalid %s: %s", e.Structure, e.Reason)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// TruncatedDataError 表示强制结构声明的长度超出剩余数据
type TruncatedDataError struct {
	Structure string
	Offset    int64
	Want      int64
	Have      int64
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("lnk: truncated %s at offset %d: need %d bytes, have %d",
		e.Structure, e.Offset, e.Want, e.Have)
}

func (e *TruncatedDataError) Is(target error) bool { return target == ErrTruncated }

// ContainerAccessError 包装文件系统层面的 I/O 错误，不与格式错误混淆
type ContainerAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *ContainerAccessError) Error() string {
	return fmt.Sprintf("lnk: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ContainerAccessError) Unwrap() error { return e.Err }

func (e *ContainerAccessError) Is(target error) bool { return target == ErrContainerAccess }

func formatErr(structure, format string, args ...interface{}) error {
	return &FormatError{Structure: structure, Reason: fmt.Sprintf(format, args...)}
}
