// Package domain models USGS earthquake features and the visual styling
// applied to them on the map.
//
// # Data Sources
//
// Earthquakes come from the USGS real-time GeoJSON summary feeds, e.g.
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// Each feature is a Point whose coordinates are [lon, lat, depth]. Depth is
// in kilometres and may be negative for events located above sea level.
// Magnitude ("mag") and place may be null.
//
// Plate boundaries come from the PB2002 dataset (Bird, 2003) published as
// GeoJSON LineStrings. They carry no styling logic and are rendered with a
// fixed [PlateLineStyle].
//
// # Depth Bins
//
// Marker fill color is a step function over six depth bins. Lower bounds are
// inclusive and upper bounds exclusive; the last bin is unbounded:
//
//	-10–10  #66ff66  light green
//	10–30   #ffff66  yellow
//	30–50   #ffcc66  orange-yellow
//	50–70   #ff9966  coral
//	70–90   #ff6666  red
//	90+     #cc3333  dark red
//
// Depths shallower than -10 still fall into the first bin. The same table
// drives both [ColorForDepth] and [LegendEntries], so the legend cannot drift
// from the markers it explains.
//
// # Marker Radius
//
// Radius is linear in magnitude (mag × 5). A missing or zero magnitude gets
// the floor radius of 1 so the marker stays visible.
package domain
