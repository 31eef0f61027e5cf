package domain

type Slide struct {
	Number  int               `json:"number"`
	Title   string            `json:"title"`
	Bullets []string          `json:"bullets"`
	Notes   string            `json:"notes"`
	Extra   map[string]string `json:"extra,omitempty"`
}
