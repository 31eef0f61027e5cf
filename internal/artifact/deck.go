package artifact

import "github.com/kapu/segcraft-go/internal/domain"

const defaultProjectName = "SegCraft"

// slideImages maps slide numbers to the prepared illustrations.
var slideImages = map[int]string{
	5: "assets/flow_diagram.png",
	7: "assets/ui_mock_1.png",
	8: "assets/ui_mock_2.png",
	9: "assets/table_mock.png",
}

type DeckConfig struct {
	Project DeckProject `json:"project"`
	Style   DeckStyle   `json:"style"`
	Slides  []DeckSlide `json:"slides"`
}

type DeckProject struct {
	Name     string `json:"name"`
	Tagline  string `json:"tagline"`
	OneLiner string `json:"one_liner"`
}

type DeckStyle struct {
	BgColor     string `json:"bg_color"`
	TextColor   string `json:"text_color"`
	AccentColor string `json:"accent_color"`
	TitleFont   string `json:"title_font"`
	BodyFont    string `json:"body_font"`
}

type DeckSlide struct {
	Number  int      `json:"number"`
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Notes   string   `json:"notes"`
	Image   string   `json:"image"`
}

// BuildDeckConfig assembles the deck description consumed by the slide renderer.
func BuildDeckConfig(meta map[string]string, slides []domain.Slide) DeckConfig {
	name, ok := meta["name"]
	if !ok {
		name = defaultProjectName
	}

	deckSlides := make([]DeckSlide, 0, len(slides))
	for _, s := range slides {
		bullets := s.Bullets
		if bullets == nil {
			bullets = []string{}
		}
		deckSlides = append(deckSlides, DeckSlide{
			Number:  s.Number,
			Title:   s.Title,
			Bullets: bullets,
			Notes:   s.Notes,
			Image:   slideImages[s.Number],
		})
	}

	return DeckConfig{
		Project: DeckProject{
			Name:     name,
			Tagline:  meta["tagline"],
			OneLiner: meta["one_liner"],
		},
		Style: DeckStyle{
			BgColor:     "FFFFFF",
			TextColor:   "111111",
			AccentColor: "FF3333",
			TitleFont:   "Arial",
			BodyFont:    "Arial",
		},
		Slides: deckSlides,
	}
}
