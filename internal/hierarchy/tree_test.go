package hierarchy

import (
	"testing"

	"github.com/haianh3623/TEAManage/internal/model"
)

func ptr(v int64) *int64 { return &v }

// fixture: 1 ── 2 ── 4
//            └─ 3
func fixtureTasks() []model.Task {
	return []model.Task{
		{ID: 1, Title: "root"},
		{ID: 2, ParentID: ptr(1), Title: "child A"},
		{ID: 3, ParentID: ptr(1), Title: "child B"},
		{ID: 4, ParentID: ptr(2), Title: "grandchild"},
	}
}

func TestBuildShape(t *testing.T) {
	tree, err := Build(fixtureTasks(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(tree.Roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(tree.Roots))
	}
	root := tree.Roots[0]
	if root.Task.ID != 1 {
		t.Errorf("root id = %d, want 1", root.Task.ID)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(root.Children))
	}

	// Children keep input order.
	if got := root.Children[0].Task.ID; got != 2 {
		t.Errorf("first child = %d, want 2", got)
	}
	if got := root.Children[1].Task.ID; got != 3 {
		t.Errorf("second child = %d, want 3", got)
	}
	if len(root.Children[0].Children) != 1 ||
		root.Children[0].Children[0].Task.ID != 4 {
		t.Errorf("grandchild not attached under task 2")
	}

	if tree.Count() != 4 {
		t.Errorf("Count = %d, want 4", tree.Count())
	}
}

func TestBuildChildOrderFollowsInput(t *testing.T) {
	// Same tasks, children of 1 listed in reverse.
	tasks := []model.Task{
		{ID: 1},
		{ID: 3, ParentID: ptr(1)},
		{ID: 2, ParentID: ptr(1)},
	}
	tree, err := Build(tasks, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	root := tree.Roots[0]
	if root.Children[0].Task.ID != 3 || root.Children[1].Task.ID != 2 {
		t.Errorf(
			"children = [%d %d], want input order [3 2]",
			root.Children[0].Task.ID, root.Children[1].Task.ID,
		)
	}
}

func TestBuildOrphanBecomesRoot(t *testing.T) {
	// Task 5's parent is outside the fetched set: it anchors its own
	// root instead of disappearing or failing the build.
	tasks := []model.Task{
		{ID: 1},
		{ID: 5, ParentID: ptr(99)},
	}
	tree, err := Build(tasks, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tree.Roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(tree.Roots))
	}
}

func TestBuildEmptyInput(t *testing.T) {
	tree, err := Build(nil, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(tree.Roots) != 0 || tree.Count() != 0 {
		t.Errorf("empty input should yield an empty tree")
	}
}

func TestBuildCycleIsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		tasks []model.Task
	}{
		{
			name: "two-node cycle",
			tasks: []model.Task{
				{ID: 1, ParentID: ptr(2)},
				{ID: 2, ParentID: ptr(1)},
			},
		},
		{
			name: "self parent",
			tasks: []model.Task{
				{ID: 1, ParentID: ptr(1)},
			},
		},
		{
			name: "cycle below a valid root",
			tasks: []model.Task{
				{ID: 1},
				{ID: 2, ParentID: ptr(3)},
				{ID: 3, ParentID: ptr(2)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.tasks, 1)
			if err == nil {
				t.Fatal("Build succeeded, want malformed hierarchy error")
			}
			if !IsMalformed(err) {
				t.Errorf("error %v is not a MalformedHierarchyError", err)
			}
		})
	}
}

func TestBuildDepthLimit(t *testing.T) {
	var tasks []model.Task
	tasks = append(tasks, model.Task{ID: 1})
	for i := int64(2); i <= MaxDepth+2; i++ {
		parent := i - 1
		tasks = append(tasks, model.Task{ID: i, ParentID: ptr(parent)})
	}

	_, err := Build(tasks, 1)
	if err == nil {
		t.Fatal("Build succeeded on over-deep chain, want error")
	}
	if !IsMalformed(err) {
		t.Errorf("error %v is not a MalformedHierarchyError", err)
	}
}

func TestDefaultExpandedAndVisible(t *testing.T) {
	tree, err := Build(fixtureTasks(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rows := tree.Visible()
	if len(rows) != 4 {
		t.Fatalf("visible rows = %d, want 4 (default expanded)", len(rows))
	}

	// DFS order with depths.
	want := []struct {
		id    int64
		depth int
	}{
		{1, 0}, {2, 1}, {4, 2}, {3, 1},
	}
	for i, w := range want {
		if rows[i].Node.Task.ID != w.id || rows[i].Depth != w.depth {
			t.Errorf(
				"row %d = (id %d, depth %d), want (id %d, depth %d)",
				i, rows[i].Node.Task.ID, rows[i].Depth, w.id, w.depth,
			)
		}
	}
}

func TestToggleIsIndependent(t *testing.T) {
	tree, err := Build(fixtureTasks(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Collapse node 2: its subtree hides, node 3 stays visible.
	tree.Toggle(2)
	rows := tree.Visible()
	if len(rows) != 3 {
		t.Fatalf("visible rows = %d, want 3 after collapsing node 2", len(rows))
	}
	for _, row := range rows {
		if row.Node.Task.ID == 4 {
			t.Error("grandchild visible under collapsed parent")
		}
	}
	if tree.IsExpanded(2) {
		t.Error("node 2 still reported expanded after Toggle")
	}

	// Toggling back restores the subtree.
	tree.Toggle(2)
	if got := len(tree.Visible()); got != 4 {
		t.Errorf("visible rows = %d after re-expand, want 4", got)
	}
}

func TestCollapseAllExpandAll(t *testing.T) {
	tree, err := Build(fixtureTasks(), 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	tree.CollapseAll()
	if got := len(tree.Visible()); got != 1 {
		t.Errorf("visible rows = %d after CollapseAll, want 1", got)
	}

	tree.ExpandAll()
	if got := len(tree.Visible()); got != 4 {
		t.Errorf("visible rows = %d after ExpandAll, want 4", got)
	}
}

func TestSampleTasksBuild(t *testing.T) {
	tree, err := Build(SampleTasks(7), 7)
	if err != nil {
		t.Fatalf("sample dataset must build cleanly: %v", err)
	}
	if len(tree.Roots) != 1 {
		t.Errorf("sample roots = %d, want 1", len(tree.Roots))
	}
	if tree.Count() != 4 {
		t.Errorf("sample count = %d, want 4", tree.Count())
	}
}
