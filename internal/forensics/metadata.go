package forensics

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"time"

	sha256 "github.com/minio/sha256-simd"
)

// Metadata .lnk 容器文件本身的文件系统元数据
type Metadata struct {
	FullPath     string    `json:"full_path" yaml:"full_path"`
	ModTime      time.Time `json:"mtime" yaml:"mtime"`
	AccessTime   time.Time `json:"atime" yaml:"atime"`
	CreationTime time.Time `json:"ctime" yaml:"ctime"`
	Size         int64     `json:"size" yaml:"size"`
	SHA256       string    `json:"sha256" yaml:"sha256"`
}

// ReadMetadata 采集规范化绝对路径、三个时间戳、大小和 SHA-256
// 创建时间在系统支持时取 birth time，否则取 change time
func ReadMetadata(path string) (*Metadata, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ContainerAccessError{Op: "abs", Path: path, Err: err}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, &ContainerAccessError{Op: "stat", Path: abs, Err: err}
	}
	if fi.IsDir() {
		return nil, &ContainerAccessError{Op: "stat", Path: abs, Err: os.ErrInvalid}
	}

	atime, ctime, err := fileTimes(abs, fi)
	if err != nil {
		return nil, &ContainerAccessError{Op: "stat", Path: abs, Err: err}
	}
	sum, err := hashFile(abs)
	if err != nil {
		return nil, &ContainerAccessError{Op: "hash", Path: abs, Err: err}
	}
	return &Metadata{
		FullPath:     abs,
		ModTime:      fi.ModTime().UTC(),
		AccessTime:   atime.UTC(),
		CreationTime: ctime.UTC(),
		Size:         fi.Size(),
		SHA256:       sum,
	}, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
