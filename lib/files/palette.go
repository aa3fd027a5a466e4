package files

// Tableau10 is the categorical palette used for line types.
var Tableau10 = []string{
	"#4e79a7",
	"#f28e2c",
	"#e15759",
	"#76b7b2",
	"#59a14f",
	"#edc949",
	"#af7aa1",
	"#ff9da7",
	"#9c755f",
	"#bab0ab",
}

// Palette assigns colors to categories in order of first appearance. Once assigned, a color never changes.
// After the palette runs out colors are reused from the start.
type Palette struct {
	colors   []string
	assigned map[string]string
}

func NewPalette(colors ...string) *Palette {
	if len(colors) == 0 {
		colors = Tableau10
	}

	return &Palette{
		colors:   colors,
		assigned: map[string]string{},
	}
}

func (p *Palette) Color(category string) string {
	if c, ok := p.assigned[category]; ok {
		return c
	}

	c := p.colors[len(p.assigned)%len(p.colors)]
	p.assigned[category] = c
	return c
}

func (p *Palette) Len() int {
	return len(p.assigned)
}
