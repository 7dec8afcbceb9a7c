package dashboard

// Chart options are plain structs that marshal to the option objects common chart libraries take.

type Tooltip struct {
	Trigger   string `json:"trigger"`
	Formatter string `json:"formatter,omitempty"`
}

type Legend struct {
	Data   []string `json:"data,omitempty"`
	Orient string   `json:"orient,omitempty"`
	Top    string   `json:"top,omitempty"`
	Right  string   `json:"right,omitempty"`
	Icon   string   `json:"icon,omitempty"`
}

type Axis struct {
	Type        string   `json:"type"`
	BoundaryGap *bool    `json:"boundaryGap,omitempty"`
	Data        []string `json:"data,omitempty"`
}

type ItemStyle struct {
	Color string `json:"color,omitempty"`
}

type LineSeries struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Smooth     bool      `json:"smooth"`
	Symbol     string    `json:"symbol"`
	SymbolSize int       `json:"symbolSize"`
	Data       []int     `json:"data"`
	ItemStyle  ItemStyle `json:"itemStyle"`
}

type LineOption struct {
	Tooltip Tooltip      `json:"tooltip"`
	Legend  Legend       `json:"legend"`
	XAxis   Axis         `json:"xAxis"`
	YAxis   Axis         `json:"yAxis"`
	Series  []LineSeries `json:"series"`
}

type PieDatum struct {
	Name      string    `json:"name"`
	Value     int       `json:"value"`
	ItemStyle ItemStyle `json:"itemStyle"`
}

type PieSeries struct {
	Name   string     `json:"name"`
	Type   string     `json:"type"`
	Radius [2]string  `json:"radius"`
	Center [2]string  `json:"center"`
	Data   []PieDatum `json:"data"`
}

type PieOption struct {
	Tooltip Tooltip     `json:"tooltip"`
	Legend  Legend      `json:"legend"`
	Series  []PieSeries `json:"series"`
}

const (
	seriesActivities   = "Activities"
	seriesParticipants = "Participants"
)

// Palette colours pie slices in order, wrapping around
var Palette = []string{"#667eea", "#48bb78", "#ed8936", "#f687b3", "#a0aec0"}

// LineChart plots activities and participants per month
func LineChart(points []MonthPoint) LineOption {
	labels := make([]string, len(points))
	activities := make([]int, len(points))
	participants := make([]int, len(points))
	for i, p := range points {
		labels[i] = p.Month.String()[:3]
		activities[i] = p.Activities
		participants[i] = p.Participants
	}

	boundaryGap := false
	return LineOption{
		Tooltip: Tooltip{Trigger: "axis"},
		Legend:  Legend{Data: []string{seriesActivities, seriesParticipants}, Top: "10"},
		XAxis:   Axis{Type: "category", BoundaryGap: &boundaryGap, Data: labels},
		YAxis:   Axis{Type: "value"},
		Series: []LineSeries{
			{Name: seriesActivities, Type: "line", Smooth: true, Symbol: "circle", SymbolSize: 8, Data: activities, ItemStyle: ItemStyle{Color: "#667eea"}},
			{Name: seriesParticipants, Type: "line", Smooth: true, Symbol: "circle", SymbolSize: 8, Data: participants, ItemStyle: ItemStyle{Color: "#48bb78"}},
		},
	}
}

// PieChart plots a category distribution as a donut
func PieChart(slices []Slice) PieOption {
	data := make([]PieDatum, len(slices))
	for i, s := range slices {
		data[i] = PieDatum{Name: s.Name, Value: s.Value, ItemStyle: ItemStyle{Color: Palette[i%len(Palette)]}}
	}

	return PieOption{
		Tooltip: Tooltip{Trigger: "item", Formatter: "{a} <br/>{b}: {c} ({d}%)"},
		Legend:  Legend{Orient: "vertical", Right: "8%", Top: "center", Icon: "circle"},
		Series: []PieSeries{{
			Name:   "Club categories",
			Type:   "pie",
			Radius: [2]string{"45%", "75%"},
			Center: [2]string{"35%", "50%"},
			Data:   data,
		}},
	}
}
