package scenario

import (
	"errors"
	"testing"

	"uav-aoi-sim/internal/guard"
)

func TestLoadScenario(t *testing.T) {
	sc, err := Load("testdata/simple.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if sc.Name != "example" {
		t.Fatalf("unexpected name %s", sc.Name)
	}
	if sc.Description != "basic test scenario" {
		t.Fatalf("unexpected description %s", sc.Description)
	}
	if len(sc.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(sc.Nodes))
	}
	if sc.Nodes[1].X != 190 || sc.Nodes[1].Y != 10 {
		t.Fatalf("unexpected node %+v", sc.Nodes[1])
	}
	if sc.StartNode == nil || *sc.StartNode != 1 {
		t.Fatalf("unexpected start node %v", sc.StartNode)
	}
}

func TestLoadRejectsEmptyLayout(t *testing.T) {
	if _, err := Load("testdata/empty.yaml"); !errors.Is(err, guard.ErrInvalidParameter) {
		t.Fatalf("expected invalid parameter, got %v", err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(15, 500, 300, 7)
	b := Generate(15, 500, 300, 7)
	c := Generate(15, 500, 300, 8)
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			t.Fatalf("same seed gave different node %d", i)
		}
		n := a.Nodes[i]
		if n.X < 0 || n.X >= 500 || n.Y < 0 || n.Y >= 300 {
			t.Fatalf("node %d outside field: %+v", i, n)
		}
	}
	if a.Nodes[0] == c.Nodes[0] {
		t.Fatalf("different seeds gave the same layout")
	}
}

func TestBuiltInLayouts(t *testing.T) {
	layouts := BuiltIn(9, 300, 300)
	for _, name := range []string{"grid", "ring", "line"} {
		sc, ok := layouts[name]
		if !ok {
			t.Fatalf("layout %s not found", name)
		}
		if sc.Description == "" {
			t.Fatalf("layout %s missing description", name)
		}
		if len(sc.Nodes) != 9 {
			t.Fatalf("layout %s expected 9 nodes, got %d", name, len(sc.Nodes))
		}
		for i, n := range sc.Nodes {
			if n.X < 0 || n.X > 300 || n.Y < 0 || n.Y > 300 {
				t.Fatalf("layout %s node %d outside field: %+v", name, i, n)
			}
		}
	}
	if g := layouts["grid"].Nodes; g[0].X != 50 || g[0].Y != 50 || g[8].X != 250 {
		t.Fatalf("grid misplaced: %+v", g)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	start := 0
	sc := &Scenario{Name: "x", StartNode: &start, Nodes: Generate(3, 10, 10, 1).Nodes}
	cp := sc.Clone()
	cp.Nodes[0].X = 1e6
	*cp.StartNode = 2
	if sc.Nodes[0].X == 1e6 || *sc.StartNode != 0 {
		t.Fatalf("clone shares state with original")
	}
}

func TestResolve(t *testing.T) {
	sc, err := Resolve("", 4, 100, 100, 1)
	if err != nil || len(sc.Nodes) != 4 {
		t.Fatalf("random resolve: %v %+v", err, sc)
	}
	sc, err = Resolve("ring", 6, 100, 100, 1)
	if err != nil || sc.Name != "ring" || len(sc.Nodes) != 6 {
		t.Fatalf("built-in resolve: %v %+v", err, sc)
	}
	sc, err = Resolve("testdata/simple.yaml", 0, 0, 0, 0)
	if err != nil || sc.Name != "example" {
		t.Fatalf("file resolve: %v %+v", err, sc)
	}
	if _, err := Resolve("", 0, 100, 100, 1); !errors.Is(err, guard.ErrInvalidParameter) {
		t.Fatalf("expected error for zero nodes, got %v", err)
	}
}
