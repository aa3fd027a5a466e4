package scatter

type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type Layout struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Margin    Margin  `json:"margin"`
	MinRadius float64 `json:"minRadius"`
	MaxRadius float64 `json:"maxRadius"`
}

func DefaultLayout() Layout {
	return Layout{
		Width:     1000,
		Height:    600,
		Margin:    Margin{Top: 10, Right: 10, Bottom: 40, Left: 50},
		MinRadius: 3,
		MaxRadius: 30,
	}
}

func (l Layout) Left() float64 {
	return l.Margin.Left
}

func (l Layout) Right() float64 {
	return l.Width - l.Margin.Right
}

func (l Layout) Top() float64 {
	return l.Margin.Top
}

func (l Layout) Bottom() float64 {
	return l.Height - l.Margin.Bottom
}
