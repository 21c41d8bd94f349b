package forensics

import (
	"fmt"

	"go.uber.org/zap"
)

// DriveType 目标所在卷的驱动器类型，未知取值一律折叠为 DRIVE_UNKNOWN
type DriveType uint32

const (
	DriveUnknown DriveType = iota
	DriveNoRootDir
	DriveRemovable
	DriveFixed
	DriveRemote
	DriveCDROM
	DriveRAMDisk
)

var driveTypeNames = [...]string{
	"DRIVE_UNKNOWN", "DRIVE_NO_ROOT_DIR", "DRIVE_REMOVABLE", "DRIVE_FIXED",
	"DRIVE_REMOTE", "DRIVE_CDROM", "DRIVE_RAMDISK",
}

// DriveTypeFrom 映射原始 32 位值
func DriveTypeFrom(v uint32) DriveType {
	if v > uint32(DriveRAMDisk) {
		return DriveUnknown
	}
	return DriveType(v)
}

func (d DriveType) String() string {
	if d > DriveRAMDisk {
		return driveTypeNames[DriveUnknown]
	}
	return driveTypeNames[d]
}

func (d DriveType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// FormatSerial 将卷序列号格式化为 XXXX-XXXX
func FormatSerial(serial uint32) string {
	return fmt.Sprintf("%04X-%04X", serial>>16, serial&0xFFFF)
}

const (
	volumeIDMinSize       = 0x10
	volumeLabelUnicodeTag = 0x14 // VolumeLabelOffset == 0x14 时紧跟一个 Unicode 偏移
)

// VolumeID 创建快捷方式时目标所在卷的信息
type VolumeID struct {
	Size               uint32    `json:"-" yaml:"-"`
	DriveType          DriveType `json:"drive_type" yaml:"drive_type"`
	DriveSerialNumber  uint32    `json:"-" yaml:"-"`
	SerialNumber       string    `json:"serial_number" yaml:"serial_number"`
	LabelOffset        uint32    `json:"-" yaml:"-"`
	LabelOffsetUnicode *uint32   `json:"-" yaml:"-"`
	Label              string    `json:"volume_label,omitempty" yaml:"volume_label,omitempty"`
}

// decodeVolumeID 在 LinkInfo 缓冲区内解析 off 处的 VolumeID；标签解析失败只降级为无标签
func (p parser) decodeVolumeID(region []byte, off int) (*VolumeID, error) {
	size, ok := u32At(region, off)
	if !ok {
		return nil, &TruncatedDataError{Structure: "VolumeID", Offset: int64(off), Want: 4, Have: int64(len(region) - off)}
	}
	if size < volumeIDMinSize {
		return nil, formatErr("VolumeID", "size 0x%X below minimum 0x%X", size, volumeIDMinSize)
	}
	data, ok := sliceAt(region, off, int(size))
	if !ok {
		return nil, &TruncatedDataError{Structure: "VolumeID", Offset: int64(off), Want: int64(size), Have: int64(len(region) - off)}
	}

	driveType, _ := u32At(data, 4)
	serial, _ := u32At(data, 8)
	labelOffset, _ := u32At(data, 12)
	vol := &VolumeID{
		Size:              size,
		DriveType:         DriveTypeFrom(driveType),
		DriveSerialNumber: serial,
		SerialNumber:      FormatSerial(serial),
		LabelOffset:       labelOffset,
	}

	if labelOffset == volumeLabelUnicodeTag {
		uniOffset, ok := u32At(data, 16)
		if !ok {
			p.log.Debug("volume label unicode offset missing", zap.Uint32("size", size))
			return vol, nil
		}
		vol.LabelOffsetUnicode = &uniOffset
		vol.Label = p.optionalString(data, uniOffset, true, "VolumeLabelUnicode")
		return vol, nil
	}
	vol.Label = p.optionalString(data, labelOffset, false, "VolumeLabel")
	return vol, nil
}
