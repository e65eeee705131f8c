package radar

// Style describes how a shape is painted. Empty colors skip that pass.
type Style struct {
	Fill      string
	Stroke    string
	LineWidth float64
	LineJoin  string
}

// TextStyle describes a text run. Align is "left", "center" or "right";
// Baseline is "top", "middle" or "alphabetic".
type TextStyle struct {
	Fill     string
	Size     float64
	Family   string
	Align    string
	Baseline string
}

// Surface is a 2D drawing target addressed in logical pixels.
type Surface interface {
	// Size returns the logical width and height. A zero area means the
	// surface is not laid out yet.
	Size() (w, h float64)
	Clear()
	Path(points []Point, closed bool, style Style)
	Circle(center Point, r float64, style Style)
	Text(at Point, text string, style TextStyle)
}

// Theme holds the chart colors and fonts.
type Theme struct {
	Grid        string
	Axis        string
	AreaFill    string
	AreaStroke  string
	PointFill   string
	PointStroke string
	Label       string
	Muted       string
	FontFamily  string
	LabelSize   float64
	MessageSize float64
	PointRadius float64
}

// DefaultTheme is the dark palette of the editor.
func DefaultTheme() Theme {
	return Theme{
		Grid:        "rgba(108, 112, 134, 0.5)",
		Axis:        "rgba(108, 112, 134, 0.6)",
		AreaFill:    "rgba(137, 180, 250, 0.35)",
		AreaStroke:  "rgba(137, 180, 250, 0.9)",
		PointFill:   "#89b4fa",
		PointStroke: "rgba(255,255,255,0.6)",
		Label:       "#cdd6f4",
		Muted:       "#a6adc8",
		FontFamily:  "system-ui, sans-serif",
		LabelSize:   12,
		MessageSize: 14,
		PointRadius: 4,
	}
}

// PrintTheme is a light palette for exported documents.
func PrintTheme() Theme {
	t := DefaultTheme()
	t.Grid = "rgba(80, 80, 90, 0.35)"
	t.Axis = "rgba(80, 80, 90, 0.5)"
	t.AreaFill = "rgba(30, 102, 245, 0.25)"
	t.AreaStroke = "rgba(30, 102, 245, 0.9)"
	t.PointFill = "#1e66f5"
	t.PointStroke = "#ffffff"
	t.Label = "#1f1f28"
	t.Muted = "#5c5f77"
	return t
}
