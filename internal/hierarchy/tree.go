package hierarchy

import (
	"errors"
	"fmt"

	"github.com/haianh3623/TEAManage/internal/model"
)

// MaxDepth bounds tree construction. Real hierarchies are a handful of
// levels; anything deeper means the parent links are broken.
const MaxDepth = 32

// MalformedHierarchyError reports parent links that do not form a
// forest: a cycle, or nesting past MaxDepth.
type MalformedHierarchyError struct {
	TaskID int64
	Reason string
}

func (e *MalformedHierarchyError) Error() string {
	return fmt.Sprintf(
		"malformed hierarchy at task %d: %s", e.TaskID, e.Reason,
	)
}

// IsMalformed reports whether err is a MalformedHierarchyError.
func IsMalformed(err error) bool {
	var malformed *MalformedHierarchyError
	return errors.As(err, &malformed)
}

// Node is a task with its resolved children, in input order.
type Node struct {
	Task     model.Task
	Children []*Node
}

// HasChildren reports whether the node has any subtasks.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Row is one visible line of the rendered tree.
type Row struct {
	Node  *Node
	Depth int
}

// Tree is the reconstructed task hierarchy plus per-node expand state.
// Expand state is UI-local: it never touches the underlying tasks and
// is discarded when the tree is rebuilt.
type Tree struct {
	Roots []*Node

	// CurrentID is the task the hierarchy was requested for; the UI
	// highlights it.
	CurrentID int64

	expanded map[int64]bool
}

// Build reconstructs the tree implied by ParentID references. The top
// level holds every parent-less task plus the task matching rootID (if
// it has a parent outside the fetched set); each deeper level holds the
// tasks whose ParentID equals an ID one level up. Children keep the
// order they had in the input slice.
//
// Input that is not a forest (a cycle, a task reachable twice, or
// nesting past MaxDepth) yields a MalformedHierarchyError instead of
// unbounded recursion.
func Build(tasks []model.Task, rootID int64) (*Tree, error) {
	childrenOf := make(map[int64][]model.Task)
	parentKnown := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		parentKnown[t.ID] = true
	}
	for _, t := range tasks {
		if t.ParentID != nil {
			childrenOf[*t.ParentID] = append(childrenOf[*t.ParentID], t)
		}
	}

	tree := &Tree{CurrentID: rootID, expanded: make(map[int64]bool)}
	visited := make(map[int64]bool, len(tasks))

	for _, t := range tasks {
		// Level 1 holds the parent-less tasks. A task whose parent lies
		// outside the fetched set (the requested task on a partial
		// fetch, or a stray orphan) also anchors a root.
		isRoot := t.ParentID == nil || !parentKnown[*t.ParentID]
		if !isRoot {
			continue
		}
		node, err := attach(t, childrenOf, visited, 1)
		if err != nil {
			return nil, err
		}
		tree.Roots = append(tree.Roots, node)
	}

	// Every fetched task must be reachable from some root; a leftover
	// means its ancestry loops back on itself.
	for _, t := range tasks {
		if !visited[t.ID] {
			return nil, &MalformedHierarchyError{
				TaskID: t.ID,
				Reason: "unreachable from any root (cycle in parent links)",
			}
		}
	}

	// Nodes start expanded so the full tree is visible on first render.
	tree.expandAll()

	return tree, nil
}

// attach builds the subtree rooted at t.
func attach(
	t model.Task,
	childrenOf map[int64][]model.Task,
	visited map[int64]bool,
	depth int,
) (*Node, error) {
	if depth > MaxDepth {
		return nil, &MalformedHierarchyError{
			TaskID: t.ID,
			Reason: fmt.Sprintf("nesting deeper than %d levels", MaxDepth),
		}
	}
	if visited[t.ID] {
		return nil, &MalformedHierarchyError{
			TaskID: t.ID,
			Reason: "task reachable through more than one parent path",
		}
	}
	visited[t.ID] = true

	node := &Node{Task: t}
	for _, child := range childrenOf[t.ID] {
		childNode, err := attach(child, childrenOf, visited, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}
	return node, nil
}

// IsExpanded reports whether the node's children are currently shown.
func (tr *Tree) IsExpanded(taskID int64) bool {
	return tr.expanded[taskID]
}

// Toggle flips a single node's expand state. Other nodes are untouched.
func (tr *Tree) Toggle(taskID int64) {
	tr.expanded[taskID] = !tr.expanded[taskID]
}

// ExpandAll shows the children of every node that has any.
func (tr *Tree) ExpandAll() {
	tr.expandAll()
}

func (tr *Tree) expandAll() {
	tr.walk(func(n *Node, _ int) {
		if n.HasChildren() {
			tr.expanded[n.Task.ID] = true
		}
	})
}

// CollapseAll hides the children of every node.
func (tr *Tree) CollapseAll() {
	tr.walk(func(n *Node, _ int) {
		if n.HasChildren() {
			tr.expanded[n.Task.ID] = false
		}
	})
}

// Visible flattens the tree into renderable rows, descending only into
// expanded nodes.
func (tr *Tree) Visible() []Row {
	var rows []Row
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		rows = append(rows, Row{Node: n, Depth: depth})
		if !tr.expanded[n.Task.ID] {
			return
		}
		for _, child := range n.Children {
			visit(child, depth+1)
		}
	}
	for _, root := range tr.Roots {
		visit(root, 0)
	}
	return rows
}

// Count returns the total number of nodes in the tree.
func (tr *Tree) Count() int {
	total := 0
	tr.walk(func(*Node, int) { total++ })
	return total
}

// walk visits every node regardless of expand state. Build has already
// verified the structure is a forest, so plain recursion terminates.
func (tr *Tree) walk(fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, child := range n.Children {
			visit(child, depth+1)
		}
	}
	for _, root := range tr.Roots {
		visit(root, 0)
	}
}
