// Package statechart draws the selection state machine as a diagram.
//
// [ToDOT] turns the symbolic transition table of package selection into
// Graphviz DOT; [RenderSVG] lays it out with an embedded Graphviz.
package statechart

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/setlist/pkg/layering"
	"github.com/matzehuels/setlist/pkg/selection"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed adds the layering of each state (overlay, z-index of the
	// active card) to the state labels.
	Detailed bool
}

var kinds = []selection.Kind{selection.KindIdle, selection.KindActive, selection.KindActiveFlipped}

// ToDOT converts a transition table to DOT. Pass selection.Transitions()
// for the machine's own table.
func ToDOT(transitions []selection.Transition, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph selection {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	buf.WriteString("\n")
	buf.WriteString("  start [shape=point, width=0.15, label=\"\"];\n")

	for _, k := range kinds {
		fmt.Fprintf(&buf, "  %q [%s];\n", k.String(), strings.Join(fmtAttrs(k, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  start -> %q;\n", selection.KindIdle.String())
	for _, t := range transitions {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", t.From.String(), t.To.String(), t.Event)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(k selection.Kind, detailed bool) string {
	if !detailed {
		return k.String()
	}
	if k == selection.KindIdle {
		return k.String() + "\nall cards z=" + strconv.Itoa(layering.NormalZ) + "\noverlay hidden"
	}
	face := "front"
	if k == selection.KindActiveFlipped {
		face = "back"
	}
	return fmt.Sprintf("%s\nactive z=%d, %s face\noverlay z=%d\nothers z=%d",
		k, layering.ElevatedZ, face, layering.OverlayZ, layering.NormalZ)
}

func fmtAttrs(k selection.Kind, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(k, detailed))}
	if k != selection.KindIdle {
		attrs = append(attrs, "fillcolor=\"#cffafe\"", "color=\"#06b6d4\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// that scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
