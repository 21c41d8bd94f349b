//go:build linux

package forensics

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// fileTimes 通过 statx 获取 atime 与 btime；文件系统不提供 btime 时退回 ctime
func fileTimes(path string, _ os.FileInfo) (time.Time, time.Time, error) {
	var stx unix.Statx_t
	mask := unix.STATX_ATIME | unix.STATX_CTIME | unix.STATX_BTIME
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, mask, &stx); err != nil {
		return time.Time{}, time.Time{}, err
	}
	atime := time.Unix(stx.Atime.Sec, int64(stx.Atime.Nsec))
	created := stx.Ctime
	if stx.Mask&unix.STATX_BTIME != 0 {
		created = stx.Btime
	}
	return atime, time.Unix(created.Sec, int64(created.Nsec)), nil
}
