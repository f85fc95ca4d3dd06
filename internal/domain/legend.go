package domain

import (
	"fmt"
	"html"
	"html/template"
	"strings"
)

// LegendEntry is one row of the depth legend.
type LegendEntry struct {
	Color   string  `json:"color"`
	Label   string  `json:"label"`
	LowerKm float64 `json:"lower_km"`
}

// LegendEntries builds the depth legend from the same bins that color the
// markers, in ascending depth order. Bounded bins are labelled "lower–upper"
// and the last bin "lower+".
func LegendEntries() []LegendEntry {
	entries := make([]LegendEntry, len(depthBins))
	for i, bin := range depthBins {
		label := fmt.Sprintf("%g+", bin.LowerKm)
		if i+1 < len(depthBins) {
			label = fmt.Sprintf("%g–%g", bin.LowerKm, depthBins[i+1].LowerKm)
		}
		entries[i] = LegendEntry{Color: bin.Color, Label: label, LowerKm: bin.LowerKm}
	}
	return entries
}

// LegendHTML renders the legend body placed inside the map's legend control.
func LegendHTML() template.HTML {
	var b strings.Builder
	b.WriteString(`<div class="info legend">`)
	for _, e := range LegendEntries() {
		fmt.Fprintf(&b, `<div class="legend-row"><i style="background:%s"></i> %s</div>`,
			html.EscapeString(e.Color), html.EscapeString(e.Label))
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String()) //nolint:gosec // built from the fixed depth bins, values escaped above
}
