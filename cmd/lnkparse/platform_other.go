//go:build !windows

package main

import (
	"os"
	"path/filepath"
	"runtime"
)

func osName() string { return runtime.GOOS }

// defaultRoots 非 Windows 系统上常见的取证镜像挂载点与当前目录
func defaultRoots() []string {
	roots := []string{"/mnt/windows/Users", "/media"}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, "Desktop"))
	}
	if found := existing(roots); len(found) > 0 {
		return found
	}
	return []string{"."}
}
