//go:build darwin

package forensics

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

func fileTimes(path string, _ os.FileInfo) (time.Time, time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return time.Unix(st.Atim.Unix()), time.Unix(st.Btim.Unix()), nil
}
