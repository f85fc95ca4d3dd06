package domain

// Basemap is a background tile layer. Only one basemap is shown at a time.
type Basemap struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Default     bool   `json:"default,omitempty"`
}

// Overlay is an independently toggleable layer backed by a GeoJSON endpoint.
type Overlay struct {
	Name     string `json:"name"`
	DataPath string `json:"data_path"`
}

// MapView is the complete, read-only description of the rendered map: where
// it opens, which basemaps and overlays the layer control offers, and how the
// legend and plate boundaries are drawn.
type MapView struct {
	Center         [2]float64    `json:"center"` // [lat, lon]
	Zoom           int           `json:"zoom"`
	Basemaps       []Basemap     `json:"basemaps"`
	Overlays       []Overlay     `json:"overlays"`
	LegendPosition string        `json:"legend_position"`
	Legend         []LegendEntry `json:"legend"`
	PlateStyle     LineStyle     `json:"plate_style"`
}

// Overlay names as shown in the layer control.
const (
	OverlayEarthquakes = "Earthquakes"
	OverlayPlates      = "Tectonic Plates"
)

// NewMapView assembles the map composition. Every call returns fresh slices.
func NewMapView() MapView {
	return MapView{
		Center: [2]float64{37.09, -95.71},
		Zoom:   5,
		Basemaps: []Basemap{
			{
				Name:        "Satellite View",
				URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
				Attribution: `&copy; <a href="https://www.esri.com/en-us/home">Esri</a> contributors`,
				Default:     true,
			},
			{
				Name:        "Street View",
				URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
				Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
			},
			{
				Name: "Topographic View",
				URL:  "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
				Attribution: `Map data: &copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors, ` +
					`<a href="http://viewfinderpanoramas.org">SRTM</a> | Map style: &copy; <a href="https://opentopomap.org">OpenTopoMap</a> (CC-BY-SA)`,
			},
		},
		Overlays: []Overlay{
			{Name: OverlayEarthquakes, DataPath: "/api/earthquakes"},
			{Name: OverlayPlates, DataPath: "/api/plates"},
		},
		LegendPosition: "bottomright",
		Legend:         LegendEntries(),
		PlateStyle:     PlateLineStyle,
	}
}
