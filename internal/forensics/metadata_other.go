//go:build !linux && !darwin && !windows

package forensics

import (
	"os"
	"time"
)

// 没有可移植的 atime/btime 接口时全部退回修改时间
func fileTimes(_ string, fi os.FileInfo) (time.Time, time.Time, error) {
	return fi.ModTime(), fi.ModTime(), nil
}
