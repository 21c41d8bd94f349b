package forensics

import (
	"strconv"
	"time"
)

// TimeLayout 扁平记录中所有时间戳的格式
const TimeLayout = "2006-01-02T15:04:05Z"

// 扁平取证记录的键
const (
	KeyTargetFullPath         = "target_full_path"
	KeyTargetModificationTime = "target_modification_time"
	KeyTargetAccessTime       = "target_access_time"
	KeyTargetCreationTime     = "target_creation_time"
	KeyTargetSize             = "target_size"
	KeyTargetHostname         = "target_hostname"
	KeyLnkFullPath            = "lnk_full_path"
	KeyLnkModificationTime    = "lnk_modification_time"
	KeyLnkAccessTime          = "lnk_access_time"
	KeyLnkCreationTime        = "lnk_creation_time"
)

// NormalizedKeys 固定的列顺序，CSV 时间线使用
var NormalizedKeys = []string{
	KeyTargetFullPath,
	KeyTargetModificationTime,
	KeyTargetAccessTime,
	KeyTargetCreationTime,
	KeyTargetSize,
	KeyTargetHostname,
	KeyLnkFullPath,
	KeyLnkModificationTime,
	KeyLnkAccessTime,
	KeyLnkCreationTime,
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}

// Normalize 生成恰好 10 个键的扁平记录；缺失的值为空串
// 目标时间戳来自 Header，记录的是创建快捷方式时目标的状态
func (l *LinkFile) Normalize() map[string]string {
	fields := make(map[string]string, len(NormalizedKeys))
	for _, k := range NormalizedKeys {
		fields[k] = ""
	}

	fields[KeyTargetFullPath], _ = l.Path()
	if h := l.Header; h != nil {
		fields[KeyTargetModificationTime] = formatTime(h.WriteTime)
		fields[KeyTargetAccessTime] = formatTime(h.AccessTime)
		fields[KeyTargetCreationTime] = formatTime(h.CreationTime)
		fields[KeyTargetSize] = strconv.FormatUint(uint64(h.FileSize), 10)
	}
	fields[KeyTargetHostname] = l.Hostname()

	if m := l.Metadata; m != nil {
		fields[KeyLnkFullPath] = m.FullPath
		fields[KeyLnkModificationTime] = formatTime(m.ModTime)
		fields[KeyLnkAccessTime] = formatTime(m.AccessTime)
		fields[KeyLnkCreationTime] = formatTime(m.CreationTime)
	}
	return fields
}

// Row 按 NormalizedKeys 顺序输出
func (l *LinkFile) Row() []string {
	fields := l.Normalize()
	row := make([]string, len(NormalizedKeys))
	for i, k := range NormalizedKeys {
		row[i] = fields[k]
	}
	return row
}
