package model

type FileGroup struct {
	File  string        `json:"file"`
	Lines []*LineRecord `json:"-"`
}

func (g *FileGroup) Count() int {
	return len(g.Lines)
}
