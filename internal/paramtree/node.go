package paramtree

import (
	"fmt"

	"github.com/danmuck/prcctl/internal/paracobn"
	"github.com/danmuck/prcctl/internal/paracobn/hash40"
)

// Node is one display-tree entry: a resolved name, the underlying hash, a
// cloned copy of the canonical value, and materialized children for
// containers. Nodes hold no pointers back into the canonical tree.
type Node struct {
	Name     string
	Hash     uint64
	Value    paracobn.Value
	Children []*Node
}

// FromValue builds a projection top-down. Struct children are named through
// the dictionary; list children are named by index.
func FromValue(hash uint64, v paracobn.Value, labels *hash40.Labels) *Node {
	node := &Node{
		Name:  labels.Resolve(hash),
		Hash:  hash,
		Value: v.Clone(),
	}
	switch v.Kind {
	case paracobn.KindStruct:
		for _, f := range v.Struct.Fields {
			node.Children = append(node.Children, FromValue(f.Hash, f.Value, labels))
		}
	case paracobn.KindList:
		for i, item := range v.List {
			child := FromValue(uint64(i), item, labels)
			child.Name = fmt.Sprintf("[%d]", i)
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// Child walks indices from this node, returning nil when any index is out of
// range.
func (n *Node) Child(indices []int) *Node {
	current := n
	for _, i := range indices {
		if i < 0 || i >= len(current.Children) {
			return nil
		}
		current = current.Children[i]
	}
	return current
}

// TypeName returns the display name of the node's value kind.
func (n *Node) TypeName() string {
	return n.Value.Kind.String()
}

// ValueString renders the node's value for display, resolving Hash leaves
// through the dictionary.
func (n *Node) ValueString(labels *hash40.Labels) string {
	v := n.Value
	switch v.Kind {
	case paracobn.KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case paracobn.KindI8:
		return fmt.Sprintf("%d", v.I8)
	case paracobn.KindU8:
		return fmt.Sprintf("%d", v.U8)
	case paracobn.KindI16:
		return fmt.Sprintf("%d", v.I16)
	case paracobn.KindU16:
		return fmt.Sprintf("%d", v.U16)
	case paracobn.KindI32:
		return fmt.Sprintf("%d", v.I32)
	case paracobn.KindU32:
		return fmt.Sprintf("%d", v.U32)
	case paracobn.KindF32:
		return fmt.Sprintf("%v", v.F32)
	case paracobn.KindHash:
		return labels.Resolve(v.Hash)
	case paracobn.KindString:
		return v.Str
	case paracobn.KindList:
		return fmt.Sprintf("List (%d items)", len(v.List))
	case paracobn.KindStruct:
		return fmt.Sprintf("Struct (%d fields)", len(v.Struct.Fields))
	default:
		return fmt.Sprintf("Unknown (tag %d)", v.RawTag)
	}
}
