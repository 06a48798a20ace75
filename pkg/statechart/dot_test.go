package statechart

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/setlist/pkg/selection"
)

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(selection.Transitions(), Options{})

	if !strings.Contains(dot, "digraph selection") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, state := range []string{`"Idle"`, `"Active"`, `"ActiveFlipped"`} {
		if !strings.Contains(dot, state) {
			t.Errorf("ToDOT() output missing state %s", state)
		}
	}
	for _, edge := range []string{
		`start -> "Idle"`,
		`"Idle" -> "Active" [label="click(id)"]`,
		`"Active" -> "ActiveFlipped" [label="click(same)"]`,
		`"ActiveFlipped" -> "Active" [label="click(same)"]`,
		`"ActiveFlipped" -> "Idle" [label="dismiss"]`,
	} {
		if !strings.Contains(dot, edge) {
			t.Errorf("ToDOT() output missing edge %s", edge)
		}
	}
}

func TestToDOT_EveryTransition(t *testing.T) {
	dot := ToDOT(selection.Transitions(), Options{})
	if got, want := strings.Count(dot, "[label="), len(selection.Transitions())+3; got != want {
		t.Errorf("label count = %d, want %d (one per state and transition)", got, want)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(selection.Transitions(), Options{Detailed: true})

	if !strings.Contains(dot, "overlay hidden") {
		t.Error("ToDOT() detailed Idle label missing overlay info")
	}
	if !strings.Contains(dot, "active z=50, back face") {
		t.Error("ToDOT() detailed ActiveFlipped label missing layering")
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	if got := fmtLabel(selection.KindActive, false); got != "Active" {
		t.Errorf("fmtLabel() = %q, want %q", got, "Active")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 44.00" width="62" height="44"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("normalizeViewBox() should leave svg without viewBox alone")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz layout in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(selection.Transitions(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "ActiveFlipped") {
		t.Error("RenderSVG() output missing state label")
	}
}
