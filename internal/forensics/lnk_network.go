package forensics

import (
	"fmt"

	"go.uber.org/zap"
)

// NetworkProviderType WNNC_NET_* 网络提供者类型
type NetworkProviderType uint32

var networkProviderNames = map[NetworkProviderType]string{
	0x00020000: "WNNC_NET_LANMAN",
	0x001A0000: "WNNC_NET_AVID",
	0x001B0000: "WNNC_NET_DOCUSPACE",
	0x001C0000: "WNNC_NET_MANGOSOFT",
	0x001D0000: "WNNC_NET_SERNET",
	0x001E0000: "WNNC_NET_RIVERFRONT1",
	0x001F0000: "WNNC_NET_RIVERFRONT2",
	0x00200000: "WNNC_NET_DECORB",
	0x00210000: "WNNC_NET_PROTSTOR",
	0x00220000: "WNNC_NET_FJ_REDIR",
	0x00230000: "WNNC_NET_DISTINCT",
	0x00240000: "WNNC_NET_TWINS",
	0x00250000: "WNNC_NET_RDR2SAMPLE",
	0x00260000: "WNNC_NET_CSC",
	0x00270000: "WNNC_NET_3IN1",
	0x00290000: "WNNC_NET_EXTENDNET",
	0x002A0000: "WNNC_NET_STAC",
	0x002B0000: "WNNC_NET_FOXBAT",
	0x002C0000: "WNNC_NET_YAHOO",
	0x002D0000: "WNNC_NET_EXIFS",
	0x002E0000: "WNNC_NET_DAV",
	0x002F0000: "WNNC_NET_KNOWARE",
	0x00300000: "WNNC_NET_OBJECT_DIRE",
	0x00310000: "WNNC_NET_MASFAX",
	0x00320000: "WNNC_NET_HOB_NFS",
	0x00330000: "WNNC_NET_SHIVA",
	0x00340000: "WNNC_NET_IBMAL",
	0x00350000: "WNNC_NET_LOCK",
	0x00360000: "WNNC_NET_TERMSRV",
	0x00370000: "WNNC_NET_SRT",
	0x00380000: "WNNC_NET_QUINCY",
	0x00390000: "WNNC_NET_OPENAFS",
	0x003A0000: "WNNC_NET_AVID1",
	0x003B0000: "WNNC_NET_DFS",
	0x003C0000: "WNNC_NET_KWNP",
	0x003D0000: "WNNC_NET_ZENWORKS",
	0x003E0000: "WNNC_NET_DRIVEONWEB",
	0x003F0000: "WNNC_NET_VMWARE",
	0x00400000: "WNNC_NET_RSFX",
	0x00410000: "WNNC_NET_MFILES",
	0x00420000: "WNNC_NET_MS_NFS",
	0x00430000: "WNNC_NET_GOOGLE",
}

func (n NetworkProviderType) String() string {
	if name, ok := networkProviderNames[n]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(n))
}

func (n NetworkProviderType) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

const (
	cnrlMinSize      = 0x14
	cnrlValidDevice  = 0x00000001
	cnrlValidNetType = 0x00000002
)

// CommonNetworkRelativeLink 目标所在的网络位置
type CommonNetworkRelativeLink struct {
	Size                uint32               `json:"-" yaml:"-"`
	Flags               uint32               `json:"flags" yaml:"flags"`
	NetName             string               `json:"net_name" yaml:"net_name"`
	NetNameUnicode      string               `json:"net_name_unicode,omitempty" yaml:"net_name_unicode,omitempty"`
	DeviceName          string               `json:"device_name,omitempty" yaml:"device_name,omitempty"`
	DeviceNameUnicode   string               `json:"device_name_unicode,omitempty" yaml:"device_name_unicode,omitempty"`
	NetworkProviderType *NetworkProviderType `json:"network_provider_type,omitempty" yaml:"network_provider_type,omitempty"`
}

// ShareName 优先返回 Unicode 版本
func (n *CommonNetworkRelativeLink) ShareName() string {
	if n.NetNameUnicode != "" {
		return n.NetNameUnicode
	}
	return n.NetName
}

func (p parser) decodeNetworkLink(region []byte, off int) (*CommonNetworkRelativeLink, error) {
	size, ok := u32At(region, off)
	if !ok {
		return nil, &TruncatedDataError{Structure: "CommonNetworkRelativeLink", Offset: int64(off), Want: 4, Have: int64(len(region) - off)}
	}
	if size < cnrlMinSize {
		return nil, formatErr("CommonNetworkRelativeLink", "size 0x%X below minimum 0x%X", size, cnrlMinSize)
	}
	data, ok := sliceAt(region, off, int(size))
	if !ok {
		return nil, &TruncatedDataError{Structure: "CommonNetworkRelativeLink", Offset: int64(off), Want: int64(size), Have: int64(len(region) - off)}
	}

	flags, _ := u32At(data, 4)
	netNameOffset, _ := u32At(data, 8)
	deviceNameOffset, _ := u32At(data, 12)
	providerType, _ := u32At(data, 16)

	// NetName 与其他网络标签一样，越界时降级为空
	link := &CommonNetworkRelativeLink{
		Size:    size,
		Flags:   flags,
		NetName: p.optionalString(data, netNameOffset, false, "NetName"),
	}
	if flags&cnrlValidNetType != 0 {
		pt := NetworkProviderType(providerType)
		link.NetworkProviderType = &pt
	}
	if flags&cnrlValidDevice != 0 {
		link.DeviceName = p.optionalString(data, deviceNameOffset, false, "DeviceName")
	}

	// NetNameOffset > 0x14 时存在两个 Unicode 偏移
	if netNameOffset > cnrlMinSize {
		if uniOffset, ok := u32At(data, 20); ok {
			link.NetNameUnicode = p.optionalString(data, uniOffset, true, "NetNameUnicode")
		}
		if uniOffset, ok := u32At(data, 24); ok && flags&cnrlValidDevice != 0 {
			link.DeviceNameUnicode = p.optionalString(data, uniOffset, true, "DeviceNameUnicode")
		}
	}
	return link, nil
}

// optionalString 偏移为 0 或越界时返回空串
func (p parser) optionalString(data []byte, off uint32, wide bool, field string) string {
	if off == 0 {
		return ""
	}
	var raw []byte
	var ok bool
	if wide {
		raw, ok = wstringAt(data, int(off))
	} else {
		raw, ok = cstringAt(data, int(off))
	}
	if !ok {
		p.log.Debug("string offset outside structure",
			zap.String("field", field), zap.Uint32("offset", off), zap.Int("size", len(data)))
		return ""
	}
	return p.decode(raw, wide)
}
