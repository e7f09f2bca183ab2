package entity

type InteractiveElement struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}
