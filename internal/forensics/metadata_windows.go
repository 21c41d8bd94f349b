//go:build windows

package forensics

import (
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

func fileTimes(path string, _ os.FileInfo) (time.Time, time.Time, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	var data windows.Win32FileAttributeData
	if err := windows.GetFileAttributesEx(p, windows.GetFileExInfoStandard, (*byte)(unsafe.Pointer(&data))); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return time.Unix(0, data.LastAccessTime.Nanoseconds()), time.Unix(0, data.CreationTime.Nanoseconds()), nil
}
