package strata

import (
	"fmt"
	"strings"

	"github.com/lex00/strata-aws-go/internal/naming"
)

// Node is a point in the construct tree. Every construct owns exactly one
// Node; the Node tracks the construct's id, its scope (parent) and its
// children in insertion order. Insertion order is preserved because it
// determines synthesis order, which must be deterministic.
type Node struct {
	id        string
	scope     *Node
	construct Construct
	children  []*Node
	index     map[string]*Node
}

// Register creates a Node for construct c under the given scope. It is
// called from construct constructors:
//
//	node, err := strata.Register(scope, id, topic)
//
// Register fails with *DuplicateIDError if a sibling with the same id
// already exists, and fails fast at declaration time.
func Register(scope Construct, id string, c Construct) (*Node, error) {
	if id == "" {
		return nil, fmt.Errorf("construct id must not be empty in scope %q", scope.Node().PathString())
	}
	parent := scope.Node()
	if _, exists := parent.index[id]; exists {
		return nil, &DuplicateIDError{Scope: parent.PathString(), ID: id}
	}
	n := &Node{
		id:        id,
		scope:     parent,
		construct: c,
		index:     make(map[string]*Node),
	}
	parent.children = append(parent.children, n)
	parent.index[id] = n
	return n, nil
}

// newRootNode creates the unparented node owned by an App.
func newRootNode(c Construct) *Node {
	return &Node{construct: c, index: make(map[string]*Node)}
}

// ID returns the node's id, which is unique among its siblings.
func (n *Node) ID() string { return n.id }

// Scope returns the parent node, or nil for the root.
func (n *Node) Scope() *Node { return n.scope }

// Construct returns the construct that owns this node.
func (n *Node) Construct() Construct { return n.construct }

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the direct child with the given id.
func (n *Node) Child(id string) (*Node, bool) {
	c, ok := n.index[id]
	return c, ok
}

// Path returns the id sequence from the root to this node. The root's
// empty id is not included.
func (n *Node) Path() []string {
	var path []string
	for cur := n; cur != nil && cur.id != ""; cur = cur.scope {
		path = append(path, cur.id)
	}
	// reverse into root-first order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathString returns the path joined with "/". Used in diagnostics.
func (n *Node) PathString() string {
	return strings.Join(n.Path(), "/")
}

// UniqueID returns a deterministic identifier derived from the node's
// full path. The same path always yields the same id, so repeated
// synthesis of an unchanged tree generates the same names. Used as the
// fallback resource name when the caller supplies none.
func (n *Node) UniqueID() string {
	return naming.LogicalID(n.Path())
}

// FindAncestor walks the scope chain upward, starting at this node's
// parent, and returns the nearest construct matching pred. It fails with
// *NotFoundError when the root is reached without a match.
func (n *Node) FindAncestor(pred func(Construct) bool) (Construct, error) {
	for cur := n.scope; cur != nil; cur = cur.scope {
		if cur.construct != nil && pred(cur.construct) {
			return cur.construct, nil
		}
	}
	return nil, &NotFoundError{Path: n.PathString(), Target: "matching ancestor"}
}
