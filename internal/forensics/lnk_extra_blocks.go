package forensics

import (
	"net"
	"time"

	"github.com/google/uuid"
)

// TrackerBlock 分布式链接跟踪信息：创建快捷方式的主机名与 droid 标识
type TrackerBlock struct {
	Length           uint32    `json:"length" yaml:"length"`
	Version          uint32    `json:"version" yaml:"version"`
	MachineID        string    `json:"machine_id" yaml:"machine_id"`
	VolumeDroid      uuid.UUID `json:"volume_droid" yaml:"volume_droid"`
	FileDroid        uuid.UUID `json:"file_droid" yaml:"file_droid"`
	BirthVolumeDroid uuid.UUID `json:"birth_volume_droid" yaml:"birth_volume_droid"`
	BirthFileDroid   uuid.UUID `json:"birth_file_droid" yaml:"birth_file_droid"`

	// 仅当 FileDroid 是 v1 UUID 时才有意义
	MACAddress string     `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	DroidTime  *time.Time `json:"droid_time,omitempty" yaml:"droid_time,omitempty"`
	BirthMAC   string     `json:"birth_mac_address,omitempty" yaml:"birth_mac_address,omitempty"`
	BirthTime  *time.Time `json:"birth_droid_time,omitempty" yaml:"birth_droid_time,omitempty"`
}

func (*TrackerBlock) Signature() uint32 { return SigTracker }
func (*TrackerBlock) Kind() string      { return "TrackerDataBlock" }

func decodeTrackerBlock(p parser, payload []byte) (ExtraDataBlock, error) {
	length, _ := u32At(payload, 0)
	version, _ := u32At(payload, 4)
	machine, _ := cstringAt(payload[8:24], 0)
	t := &TrackerBlock{
		Length:           length,
		Version:          version,
		MachineID:        p.ansiString(machine),
		VolumeDroid:      guidFromBytes(payload[24:40]),
		FileDroid:        guidFromBytes(payload[40:56]),
		BirthVolumeDroid: guidFromBytes(payload[56:72]),
		BirthFileDroid:   guidFromBytes(payload[72:88]),
	}
	t.MACAddress, t.DroidTime = droidOrigin(t.FileDroid)
	t.BirthMAC, t.BirthTime = droidOrigin(t.BirthFileDroid)
	return t, nil
}

// droidOrigin v1 UUID 中嵌入了生成主机的 MAC 地址和 60 位时间戳
func droidOrigin(u uuid.UUID) (string, *time.Time) {
	if u.Version() != 1 {
		return "", nil
	}
	sec, nsec := u.Time().UnixTime()
	ts := time.Unix(sec, nsec).UTC()
	return net.HardwareAddr(u.NodeID()).String(), &ts
}

// EnvironmentBlock 目标路径中的环境变量形式，例如 %windir%\system32\cmd.exe
type EnvironmentBlock struct {
	TargetANSI    string `json:"target_ansi" yaml:"target_ansi"`
	TargetUnicode string `json:"target_unicode" yaml:"target_unicode"`
}

func (*EnvironmentBlock) Signature() uint32 { return SigEnvironmentVariable }
func (*EnvironmentBlock) Kind() string      { return "EnvironmentVariableDataBlock" }

// Target 优先返回 Unicode 版本
func (e *EnvironmentBlock) Target() string { return firstNonEmpty(e.TargetUnicode, e.TargetANSI) }

func decodeEnvironmentBlock(p parser, payload []byte) (ExtraDataBlock, error) {
	ansi, uni := p.fixedPair(payload)
	return &EnvironmentBlock{TargetANSI: ansi, TargetUnicode: uni}, nil
}

// IconEnvironmentBlock 图标路径的环境变量形式
type IconEnvironmentBlock struct {
	TargetANSI    string `json:"target_ansi" yaml:"target_ansi"`
	TargetUnicode string `json:"target_unicode" yaml:"target_unicode"`
}

func (*IconEnvironmentBlock) Signature() uint32 { return SigIconEnvironment }
func (*IconEnvironmentBlock) Kind() string      { return "IconEnvironmentDataBlock" }

func decodeIconEnvironmentBlock(p parser, payload []byte) (ExtraDataBlock, error) {
	ansi, uni := p.fixedPair(payload)
	return &IconEnvironmentBlock{TargetANSI: ansi, TargetUnicode: uni}, nil
}

// DarwinBlock Windows Installer 应用标识
type DarwinBlock struct {
	DataANSI    string `json:"darwin_data_ansi" yaml:"darwin_data_ansi"`
	DataUnicode string `json:"darwin_data_unicode" yaml:"darwin_data_unicode"`
}

func (*DarwinBlock) Signature() uint32 { return SigDarwin }
func (*DarwinBlock) Kind() string      { return "DarwinDataBlock" }

func decodeDarwinBlock(p parser, payload []byte) (ExtraDataBlock, error) {
	ansi, uni := p.fixedPair(payload)
	return &DarwinBlock{DataANSI: ansi, DataUnicode: uni}, nil
}

const (
	fixedANSILen    = 260
	fixedUnicodeLen = 520
)

// fixedPair 解析 260 字节 ANSI + 520 字节 Unicode 的定长字段对
func (p parser) fixedPair(payload []byte) (string, string) {
	ansi, _ := cstringAt(payload[:fixedANSILen], 0)
	uni, _ := wstringAt(payload[fixedANSILen:fixedANSILen+fixedUnicodeLen], 0)
	return p.ansiString(ansi), p.utf16(uni)
}

// ShimBlock 应用兼容性 shim 层名称
type ShimBlock struct {
	LayerName string `json:"layer_name" yaml:"layer_name"`
}

func (*ShimBlock) Signature() uint32 { return SigShim }
func (*ShimBlock) Kind() string      { return "ShimDataBlock" }

func decodeShimBlock(p parser, payload []byte) (ExtraDataBlock, error) {
	name, _ := wstringAt(payload, 0)
	return &ShimBlock{LayerName: p.utf16(name)}, nil
}

// ConsoleFEBlock 控制台代码页
type ConsoleFEBlock struct {
	CodePage uint32 `json:"code_page" yaml:"code_page"`
}

func (*ConsoleFEBlock) Signature() uint32 { return SigConsoleFE }
func (*ConsoleFEBlock) Kind() string      { return "ConsoleFEDataBlock" }

func decodeConsoleFEBlock(_ parser, payload []byte) (ExtraDataBlock, error) {
	cp, _ := u32At(payload, 0)
	return &ConsoleFEBlock{CodePage: cp}, nil
}

// SpecialFolderBlock CSIDL 特殊文件夹及其在 IDList 中的偏移
type SpecialFolderBlock struct {
	SpecialFolderID uint32 `json:"special_folder_id" yaml:"special_folder_id"`
	Offset          uint32 `json:"offset" yaml:"offset"`
}

func (*SpecialFolderBlock) Signature() uint32 { return SigSpecialFolder }
func (*SpecialFolderBlock) Kind() string      { return "SpecialFolderDataBlock" }

func decodeSpecialFolderBlock(_ parser, payload []byte) (ExtraDataBlock, error) {
	id, _ := u32At(payload, 0)
	off, _ := u32At(payload, 4)
	return &SpecialFolderBlock{SpecialFolderID: id, Offset: off}, nil
}

// KnownFolderBlock 已知文件夹 GUID 及其在 IDList 中的偏移
type KnownFolderBlock struct {
	KnownFolderID uuid.UUID `json:"known_folder_id" yaml:"known_folder_id"`
	Offset        uint32    `json:"offset" yaml:"offset"`
}

func (*KnownFolderBlock) Signature() uint32 { return SigKnownFolder }
func (*KnownFolderBlock) Kind() string      { return "KnownFolderDataBlock" }

func decodeKnownFolderBlock(_ parser, payload []byte) (ExtraDataBlock, error) {
	off, _ := u32At(payload, 16)
	return &KnownFolderBlock{KnownFolderID: guidFromBytes(payload[:16]), Offset: off}, nil
}

// VistaIDListBlock 替代 LinkTargetIDList 的 IDList
type VistaIDListBlock struct {
	Items []ShellItem `json:"items" yaml:"items"`
}

func (*VistaIDListBlock) Signature() uint32 { return SigVistaAndAboveIDList }
func (*VistaIDListBlock) Kind() string      { return "VistaAndAboveIDListDataBlock" }

func decodeVistaIDListBlock(_ parser, payload []byte) (ExtraDataBlock, error) {
	items, err := parseItemIDs(payload)
	if err != nil {
		return nil, err
	}
	return &VistaIDListBlock{Items: items}, nil
}

// UnknownBlock 未识别签名或无法解释的已知块，保留原始负载
type UnknownBlock struct {
	Sig  uint32   `json:"-" yaml:"-"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
	Size uint32   `json:"size" yaml:"size"`
	Data HexBytes `json:"data" yaml:"data"`
}

func (u *UnknownBlock) Signature() uint32 { return u.Sig }

func (u *UnknownBlock) Kind() string {
	if u.Name != "" {
		return u.Name
	}
	return "Unknown"
}
