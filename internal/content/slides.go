package content

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kapu/segcraft-go/internal/constants"
	"github.com/kapu/segcraft-go/internal/domain"
	"github.com/kapu/segcraft-go/internal/util"
	"github.com/kapu/segcraft-go/pkg/errors"
)

const (
	slideMarker    = "SLIDE "
	bulletsKey     = "bullets"
	bulletsDivider = "|"
)

// ParseSlides reads "SLIDE <n>" blocks and returns them sorted by number.
// Numbers must be positive and unique.
func ParseSlides(block string) ([]domain.Slide, error) {
	var (
		slides  []domain.Slide
		current *domain.Slide
	)
	seen := make(map[int]bool)

	flush := func() {
		if current != nil {
			slides = append(slides, *current)
			current = nil
		}
	}

	for _, line := range splitLines(block) {
		stripped := strings.TrimSpace(line)
		if isSkippable(stripped) {
			continue
		}

		if strings.HasPrefix(stripped, slideMarker) {
			flush()
			number, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(stripped, slideMarker)))
			if err != nil || number <= 0 {
				return nil, errors.NewSourceFormatError(
					fmt.Sprintf("[%s] invalid slide number: %s", constants.SectionSlides, stripped),
					[]string{constants.SectionSlides}, 0,
				)
			}
			if seen[number] {
				return nil, errors.NewSourceFormatError(
					fmt.Sprintf("[%s] duplicate slide number: %s", constants.SectionSlides, stripped),
					[]string{constants.SectionSlides}, 0,
				)
			}
			seen[number] = true
			current = &domain.Slide{Number: number, Bullets: []string{}}
			continue
		}

		if current == nil {
			continue
		}
		key, value, ok := splitKeyValue(stripped)
		if !ok {
			continue
		}
		switch key {
		case "title":
			current.Title = value
		case "notes":
			current.Notes = value
		case bulletsKey:
			current.Bullets = util.SplitList(value, bulletsDivider)
		default:
			if current.Extra == nil {
				current.Extra = make(map[string]string)
			}
			current.Extra[key] = value
		}
	}
	flush()

	sort.SliceStable(slides, func(i, j int) bool {
		return slides[i].Number < slides[j].Number
	})
	return slides, nil
}
