package forensics

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// filetimeToTime 将 Windows FILETIME 转换为 Go Time；0 表示未设置，返回零值
func filetimeToTime(ft uint64) time.Time {
	if ft == 0 {
		return time.Time{}
	}
	// 100-nanosecond intervals since January 1, 1601 (UTC)
	// 1601 to 1970 偏移秒数: 11644473600
	const epochDiff = 11644473600

	// 转换为秒和纳秒，避免溢出
	// ft 是 100ns 单位
	seconds := int64(ft / 10000000)
	nanos := int64((ft % 10000000) * 100)

	// time.Unix 需要 1970 后的秒数
	return time.Unix(seconds-epochDiff, nanos).UTC()
}

// guidFromBytes 将磁盘上的 GUID（前三段小端）转换为 RFC 4122 字节序
func guidFromBytes(b []byte) uuid.UUID {
	var u uuid.UUID
	if len(b) < 16 {
		return u
	}
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:], b[8:16])
	return u
}

// CalculateEntropy 计算数据的香农熵
func CalculateEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	freq := make(map[byte]float64)
	for _, b := range data {
		freq[b]++
	}

	total := float64(len(data))
	entropy := 0.0
	for _, count := range freq {
		p := count / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
