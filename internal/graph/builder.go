package graph

import (
	"strings"

	"github.com/25smoking/lnkparse/internal/core"
	"github.com/25smoking/lnkparse/internal/forensics"
)

// Build 由已解码的快捷方式构建关系图
// 多个快捷方式指向同一目标、卷或主机时共享节点，Windows 路径不区分大小写
func Build(artifacts []core.Artifact) *LinkGraph {
	g := NewLinkGraph()
	for _, a := range artifacts {
		addArtifact(g, a)
	}
	return g
}

func addArtifact(g *LinkGraph, a core.Artifact) {
	lnk := a.Link
	if lnk == nil {
		return
	}
	lnkID := "LNK_" + a.Path
	node := g.AddNode(lnkID, baseName(a.Path), NodeShortcut)
	node.Props["path"] = a.Path
	if args := lnk.Arguments.String(); args != "" {
		node.Props["arguments"] = args
	}

	if host := lnk.Hostname(); host != "" {
		hostID := "HOST_" + strings.ToUpper(host)
		h := g.AddNode(hostID, host, NodeHost)
		if t, ok := lnk.ExtraData.Tracker(); ok && t.MACAddress != "" {
			h.Props["mac"] = t.MACAddress
		}
		g.AddEdge(lnkID, hostID, EdgeCreatedOn)
	}

	target, ok := lnk.Path()
	if !ok {
		return
	}
	fileID := "FILE_" + strings.ToLower(target)
	f := g.AddNode(fileID, target, NodeFile)
	if h := lnk.Header; h != nil && !h.WriteTime.IsZero() {
		f.Props["mtime"] = h.WriteTime.UTC().Format(forensics.TimeLayout)
	}
	g.AddEdge(lnkID, fileID, EdgePointsTo)

	info := lnk.LinkInfo
	if info == nil {
		return
	}
	if v := info.VolumeID; v != nil {
		volID := "VOL_" + v.SerialNumber
		label := v.DriveType.String() + "\n" + v.SerialNumber
		if v.Label != "" {
			label = v.Label + "\n" + label
		}
		g.AddNode(volID, label, NodeVolume)
		g.AddEdge(fileID, volID, EdgeOnVolume)
	}
	if n := info.CommonNetworkRelativeLink; n != nil {
		if share := n.ShareName(); share != "" {
			shareID := "SHARE_" + strings.ToLower(share)
			g.AddNode(shareID, share, NodeShare)
			g.AddEdge(fileID, shareID, EdgeOnShare)
		}
	}
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, `\/`); i >= 0 {
		return p[i+1:]
	}
	return p
}
