package forensics

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// ExtraData 块签名
const (
	SigEnvironmentVariable uint32 = 0xA0000001
	SigConsole             uint32 = 0xA0000002
	SigTracker             uint32 = 0xA0000003
	SigConsoleFE           uint32 = 0xA0000004
	SigSpecialFolder       uint32 = 0xA0000005
	SigDarwin              uint32 = 0xA0000006
	SigIconEnvironment     uint32 = 0xA0000007
	SigShim                uint32 = 0xA0000008
	SigPropertyStore       uint32 = 0xA0000009
	SigKnownFolder         uint32 = 0xA000000B
	SigVistaAndAboveIDList uint32 = 0xA000000C
)

const (
	extraBlockMinSize    = 4 // 小于该值即终止块
	extraBlockHeaderSize = 8 // size + signature
)

// ExtraDataBlock 是一个已识别或不透明的扩展块
type ExtraDataBlock interface {
	Signature() uint32
	Kind() string
}

// ExtraData 按文件顺序保存的扩展块
type ExtraData struct {
	Blocks []ExtraDataBlock
}

// Tracker 返回第一个 TrackerDataBlock，后续的 tracker 块被忽略
func (e *ExtraData) Tracker() (*TrackerBlock, bool) {
	if e == nil {
		return nil, false
	}
	for _, b := range e.Blocks {
		if t, ok := b.(*TrackerBlock); ok {
			return t, true
		}
	}
	return nil, false
}

type taggedBlock struct {
	Type      string         `json:"type" yaml:"type"`
	Signature string         `json:"signature" yaml:"signature"`
	Block     ExtraDataBlock `json:"block" yaml:"block"`
}

func (e *ExtraData) tagged() []taggedBlock {
	out := make([]taggedBlock, 0, len(e.Blocks))
	for _, b := range e.Blocks {
		out = append(out, taggedBlock{
			Type:      b.Kind(),
			Signature: fmt.Sprintf("0x%08X", b.Signature()),
			Block:     b,
		})
	}
	return out
}

func (e *ExtraData) MarshalJSON() ([]byte, error) { return json.Marshal(e.tagged()) }

func (e *ExtraData) MarshalYAML() (interface{}, error) { return e.tagged(), nil }

// decodeExtraData 读取到流末尾或终止块为止；任何分帧错误都由调用方当作“无扩展数据”
func (p parser) decodeExtraData(c *cursor) (*ExtraData, error) {
	if c.remaining() == 0 {
		return nil, &TruncatedDataError{Structure: "ExtraData", Offset: c.off, Want: extraBlockMinSize}
	}
	extra := &ExtraData{}
	for c.remaining() >= extraBlockMinSize {
		start := c.off
		size, err := c.u32("ExtraDataBlock")
		if err != nil {
			return nil, err
		}
		if size < extraBlockMinSize {
			break
		}
		if size < extraBlockHeaderSize {
			return nil, formatErr("ExtraDataBlock", "size 0x%X at offset %d", size, start)
		}
		sig, err := c.u32("ExtraDataBlock")
		if err != nil {
			return nil, err
		}
		payload, err := c.read("ExtraDataBlock", int64(size)-extraBlockHeaderSize)
		if err != nil {
			return nil, err
		}
		extra.Blocks = append(extra.Blocks, p.decodeBlock(size, sig, payload))
	}
	return extra, nil
}

// decodeBlock 按签名分派；大小与类型不符的已知块降级为不透明块
func (p parser) decodeBlock(size, sig uint32, payload []byte) ExtraDataBlock {
	kind, known := blockKinds[sig]
	if !known {
		return &UnknownBlock{Sig: sig, Size: size, Data: append(HexBytes(nil), payload...)}
	}
	if size < kind.min || (kind.max != 0 && size > kind.max) || kind.decode == nil {
		if kind.decode != nil {
			p.log.Warn("extra data block has unexpected size",
				zap.String("structure", kind.name),
				zap.Uint32("size", size),
				zap.Uint32("min", kind.min))
		}
		return &UnknownBlock{Sig: sig, Name: kind.name, Size: size, Data: append(HexBytes(nil), payload...)}
	}
	block, err := kind.decode(p, payload)
	if err != nil {
		p.log.Warn("extra data block could not be decoded",
			zap.String("structure", kind.name), zap.Error(err))
		return &UnknownBlock{Sig: sig, Name: kind.name, Size: size, Data: append(HexBytes(nil), payload...)}
	}
	return block
}

type blockKind struct {
	name     string
	min, max uint32 // max 为 0 表示不限
	decode   func(p parser, payload []byte) (ExtraDataBlock, error)
}

var blockKinds = map[uint32]blockKind{
	SigEnvironmentVariable: {"EnvironmentVariableDataBlock", 0x314, 0x314, decodeEnvironmentBlock},
	SigConsole:             {"ConsoleDataBlock", 0xCC, 0xCC, nil},
	SigTracker:             {"TrackerDataBlock", 0x60, 0x60, decodeTrackerBlock},
	SigConsoleFE:           {"ConsoleFEDataBlock", 0x0C, 0x0C, decodeConsoleFEBlock},
	SigSpecialFolder:       {"SpecialFolderDataBlock", 0x10, 0x10, decodeSpecialFolderBlock},
	SigDarwin:              {"DarwinDataBlock", 0x314, 0x314, decodeDarwinBlock},
	SigIconEnvironment:     {"IconEnvironmentDataBlock", 0x314, 0x314, decodeIconEnvironmentBlock},
	SigShim:                {"ShimDataBlock", 0x88, 0, decodeShimBlock},
	SigPropertyStore:       {"PropertyStoreDataBlock", 0x0C, 0, nil},
	SigKnownFolder:         {"KnownFolderDataBlock", 0x1C, 0x1C, decodeKnownFolderBlock},
	SigVistaAndAboveIDList: {"VistaAndAboveIDListDataBlock", 0x0A, 0, decodeVistaIDListBlock},
}
