package graph

type NodeType string

const (
	NodeShortcut NodeType = "SHORTCUT"
	NodeFile     NodeType = "FILE"
	NodeVolume   NodeType = "VOLUME"
	NodeShare    NodeType = "SHARE"
	NodeHost     NodeType = "HOST"
)

// 边标签
const (
	EdgePointsTo  = "POINTS_TO"
	EdgeOnVolume  = "ON_VOLUME"
	EdgeOnShare   = "ON_SHARE"
	EdgeCreatedOn = "CREATED_ON"
)

type Node struct {
	ID    string
	Label string
	Type  NodeType
	Props map[string]string
}

type Edge struct {
	SourceID string
	TargetID string
	Label    string // POINTS_TO, ON_VOLUME, ON_SHARE, CREATED_ON
}

// LinkGraph 快捷方式与其目标、卷、共享、来源主机之间的关系
type LinkGraph struct {
	Nodes map[string]*Node
	Edges []*Edge

	seen map[Edge]bool
}

func NewLinkGraph() *LinkGraph {
	return &LinkGraph{
		Nodes: make(map[string]*Node),
		Edges: make([]*Edge, 0),
		seen:  make(map[Edge]bool),
	}
}

// AddNode 已存在的节点保持不变，返回该节点
func (g *LinkGraph) AddNode(id, label string, nType NodeType) *Node {
	if n, exists := g.Nodes[id]; exists {
		return n
	}
	n := &Node{
		ID:    id,
		Label: label,
		Type:  nType,
		Props: make(map[string]string),
	}
	g.Nodes[id] = n
	return n
}

// AddEdge 两端都存在时才添加，重复的边忽略
func (g *LinkGraph) AddEdge(src, dst, label string) {
	if _, ok := g.Nodes[src]; !ok {
		return
	}
	if _, ok := g.Nodes[dst]; !ok {
		return
	}
	e := Edge{SourceID: src, TargetID: dst, Label: label}
	if g.seen[e] {
		return
	}
	g.seen[e] = true
	g.Edges = append(g.Edges, &e)
}
