package paramtree

import (
	"testing"

	"github.com/danmuck/prcctl/internal/paracobn"
	"github.com/danmuck/prcctl/internal/paracobn/hash40"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		path string
		want []int
		ok   bool
	}{
		{"root", []int{}, true},
		{"root[0]", []int{0}, true},
		{"root[2][17][0]", []int{2, 17, 0}, true},
		{"", nil, false},
		{"root[", nil, false},
		{"root[-1]", nil, false},
		{"root[a]", nil, false},
		{"node[0]", nil, false},
	}
	for _, tc := range cases {
		got, err := ParsePath(tc.path)
		if tc.ok != (err == nil) {
			t.Fatalf("%q: err=%v", tc.path, err)
		}
		if !tc.ok {
			continue
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%q: got %v want %v", tc.path, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%q: got %v want %v", tc.path, got, tc.want)
			}
		}
		if back := FormatPath(got); back != tc.path {
			t.Fatalf("format round trip: %q -> %q", tc.path, back)
		}
	}
}

func TestFromValueProjection(t *testing.T) {
	labels := hash40.NewLabels()
	speed := labels.Register("walk_speed")
	jumps := labels.Register("jump_counts")

	root := paracobn.StructValue(
		paracobn.Field{Hash: speed, Value: paracobn.F32Value(2.2)},
		paracobn.Field{Hash: jumps, Value: paracobn.ListValue(
			paracobn.U8Value(2),
			paracobn.U8Value(3),
		)},
	)
	node := FromValue(0, root, labels)

	if len(node.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(node.Children))
	}
	if node.Children[0].Name != "walk_speed" {
		t.Fatalf("resolved name: %q", node.Children[0].Name)
	}
	list := node.Children[1]
	if list.Name != "jump_counts" || len(list.Children) != 2 {
		t.Fatalf("list projection: %q with %d children", list.Name, len(list.Children))
	}
	if list.Children[1].Name != "[1]" {
		t.Fatalf("list child name: %q", list.Children[1].Name)
	}
}

func TestProjectionOwnsClones(t *testing.T) {
	labels := hash40.NewLabels()
	root := paracobn.StructValue(
		paracobn.Field{Hash: 0x10, Value: paracobn.U32Value(1)},
	)
	node := FromValue(0, root, labels)

	// Mutating the canonical tree must not leak into the projection.
	root.Struct.Fields[0].Value = paracobn.U32Value(99)
	if node.Children[0].Value.U32 != 1 {
		t.Fatalf("projection aliased the canonical tree")
	}
}

func TestChildOutOfRange(t *testing.T) {
	labels := hash40.NewLabels()
	node := FromValue(0, paracobn.StructValue(
		paracobn.Field{Hash: 0x1, Value: paracobn.BoolValue(true)},
	), labels)

	if node.Child([]int{0}) == nil {
		t.Fatalf("expected child at [0]")
	}
	if node.Child([]int{1}) != nil {
		t.Fatalf("expected nil for out-of-range index")
	}
	if node.Child([]int{0, 0}) != nil {
		t.Fatalf("expected nil below a scalar leaf")
	}
}

func TestValueStringResolvesHashLeaves(t *testing.T) {
	labels := hash40.NewLabels()
	kind := labels.Register("fighter_mario")
	node := FromValue(0, paracobn.StructValue(
		paracobn.Field{Hash: 0x1, Value: paracobn.HashValue(kind)},
	), labels)

	if got := node.Children[0].ValueString(labels); got != "fighter_mario" {
		t.Fatalf("hash leaf rendering: %q", got)
	}
	if got := node.Children[0].TypeName(); got != "Hash40" {
		t.Fatalf("type name: %q", got)
	}
}
