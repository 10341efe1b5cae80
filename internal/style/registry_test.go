package style

import (
	"fmt"
	"reflect"
	"testing"
)

func TestColorFor_StableAcrossCalls(t *testing.T) {
	reg := NewRegistry()

	first := reg.ColorFor(KindNode, "Person")
	for i := 0; i < 10; i++ {
		if got := reg.ColorFor(KindNode, "Person"); got != first {
			t.Fatalf("ColorFor(node, Person) call %d = %+v, want %+v", i, got, first)
		}
	}
}

func TestColorFor_FromPalette(t *testing.T) {
	reg := NewRegistry(WithSeed(1))

	for i := 0; i < 50; i++ {
		label := fmt.Sprintf("L%d", i)
		if !inPalette(NodePalette[:], reg.ColorFor(KindNode, label)) {
			t.Errorf("node color for %s not in node palette", label)
		}
		if !inPalette(EdgePalette[:], reg.ColorFor(KindEdge, label)) {
			t.Errorf("edge color for %s not in edge palette", label)
		}
	}
}

func TestColorFor_SeedIsDeterministic(t *testing.T) {
	a := NewRegistry(WithSeed(42))
	b := NewRegistry(WithSeed(42))

	for i := 0; i < 20; i++ {
		label := fmt.Sprintf("Label%d", i)
		if ca, cb := a.ColorFor(KindNode, label), b.ColorFor(KindNode, label); ca != cb {
			t.Errorf("seeded registries disagree on %s: %+v vs %+v", label, ca, cb)
		}
	}
}

func TestColorFor_KindsAreIndependent(t *testing.T) {
	reg := NewRegistry(WithSeed(7))
	reg.ColorFor(KindNode, "KNOWS")

	if len(reg.Slots(KindEdge)) != len(EdgePalette) {
		t.Fatalf("Slots(edge) returned %d slots", len(reg.Slots(KindEdge)))
	}
	for _, s := range reg.Slots(KindEdge) {
		if len(s.Labels) != 0 {
			t.Errorf("edge slot %d has labels %v after a node lookup", s.Index, s.Labels)
		}
	}
}

func TestSizeFor_Defaults(t *testing.T) {
	reg := NewRegistry()

	if got := reg.SizeFor(KindNode, "Person"); got != 75 {
		t.Errorf("SizeFor(node) = %d, want 75", got)
	}
	if got := reg.SizeFor(KindEdge, "KNOWS"); got != 1 {
		t.Errorf("SizeFor(edge) = %d, want 1", got)
	}
}

func TestSetColor(t *testing.T) {
	reg := NewRegistry(WithSeed(3))
	reg.ColorFor(KindNode, "Person")

	target := NodePalette[5]
	if ok := reg.SetColor(KindNode, "Person", target); !ok {
		t.Fatal("SetColor() = false for a palette color")
	}
	if got := reg.ColorFor(KindNode, "Person"); got != target {
		t.Errorf("ColorFor() after SetColor = %+v, want %+v", got, target)
	}

	held := 0
	for _, s := range reg.Slots(KindNode) {
		for _, l := range s.Labels {
			if l == "Person" {
				held++
				if s.Index != 5 {
					t.Errorf("Person held by slot %d, want 5", s.Index)
				}
			}
		}
	}
	if held != 1 {
		t.Errorf("Person held by %d slots, want 1", held)
	}
}

func TestSetColor_UnknownColorUnbinds(t *testing.T) {
	reg := NewRegistry(WithSeed(3))
	reg.ColorFor(KindEdge, "KNOWS")

	if ok := reg.SetColor(KindEdge, "KNOWS", LabelStyle{Color: "#000000"}); ok {
		t.Error("SetColor() = true for a color outside the palette")
	}
	for _, s := range reg.Slots(KindEdge) {
		if len(s.Labels) != 0 {
			t.Errorf("slot %d still holds %v", s.Index, s.Labels)
		}
	}

	// Next lookup allocates again.
	if !inPalette(EdgePalette[:], reg.ColorFor(KindEdge, "KNOWS")) {
		t.Error("ColorFor() after unbinding returned a color outside the palette")
	}
}

func TestSetSize(t *testing.T) {
	reg := NewRegistry()
	reg.SizeFor(KindNode, "Person")

	if ok := reg.SetSize(KindNode, "Person", 125); !ok {
		t.Fatal("SetSize(125) = false")
	}
	if got := reg.SizeFor(KindNode, "Person"); got != 125 {
		t.Errorf("SizeFor() = %d, want 125", got)
	}

	if ok := reg.SetSize(KindNode, "Person", 80); ok {
		t.Error("SetSize(80) = true for a size outside the buckets")
	}
	if got := reg.SizeFor(KindNode, "Person"); got != 75 {
		t.Errorf("SizeFor() after unbinding = %d, want default 75", got)
	}

	if ok := reg.SetSize(KindEdge, "KNOWS", 16); !ok {
		t.Fatal("SetSize(edge, 16) = false")
	}
	if got := reg.SizeFor(KindEdge, "KNOWS"); got != 16 {
		t.Errorf("SizeFor(edge) = %d, want 16", got)
	}
}

func TestCaptions(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Caption(KindNode, "Person"); ok {
		t.Error("Caption() found a caption before any was set")
	}
	if got := reg.RegisterCaption(KindNode, "Person", "gid"); got != "gid" {
		t.Errorf("RegisterCaption() = %q, want gid", got)
	}
	if got := reg.RegisterCaption(KindNode, "Person", "name"); got != "gid" {
		t.Errorf("second RegisterCaption() = %q, want existing gid", got)
	}

	reg.SetCaption(KindNode, "Person", "email")
	if got, _ := reg.Caption(KindNode, "Person"); got != "email" {
		t.Errorf("Caption() = %q, want email", got)
	}
	if _, ok := reg.Caption(KindEdge, "Person"); ok {
		t.Error("edge caption leaked from node caption")
	}
}

func TestAssignmentsRoundTrip(t *testing.T) {
	src := NewRegistry(WithSeed(9))
	src.ColorFor(KindNode, "Person")
	src.SizeFor(KindNode, "Person")
	src.SetCaption(KindNode, "Person", "name")
	src.ColorFor(KindEdge, "KNOWS")
	src.SetSize(KindEdge, "KNOWS", 11)

	dst := NewRegistry(WithSeed(100))
	if err := dst.Restore(src.Assignments()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if !reflect.DeepEqual(dst.Assignments(), src.Assignments()) {
		t.Errorf("Assignments() after Restore =\n  %+v\nwant\n  %+v", dst.Assignments(), src.Assignments())
	}
	if dst.ColorFor(KindNode, "Person") != src.ColorFor(KindNode, "Person") {
		t.Error("restored registry gave Person a different color")
	}
}

func TestRestore_Invalid(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Restore([]Assignment{{Kind: "vertex", Label: "X", Slot: 0}}); err == nil {
		t.Error("Restore() accepted an unknown kind")
	}
	if err := reg.Restore([]Assignment{{Kind: KindNode, Label: "X", Slot: 12, SizeIndex: -1}}); err == nil {
		t.Error("Restore() accepted an out-of-range slot")
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"node", "edge"} {
		if _, err := ParseKind(s); err != nil {
			t.Errorf("ParseKind(%q) error = %v", s, err)
		}
	}
	if _, err := ParseKind("nodes"); err == nil {
		t.Error("ParseKind(nodes) expected error")
	}
}

func inPalette(p []LabelStyle, s LabelStyle) bool {
	for _, c := range p {
		if c == s {
			return true
		}
	}
	return false
}
