package presenter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = slideItem{}

// slideItem wraps a [Slide] to implement [list.Item] in the overview.
type slideItem struct {
	index int
	slide Slide
}

func (i slideItem) FilterValue() string { return i.slide.Label }
func (i slideItem) Title() string {
	if i.slide.Repeat {
		return fmt.Sprintf("%d. %s (repeat)", i.index+1, i.slide.Label)
	}
	return fmt.Sprintf("%d. %s", i.index+1, i.slide.Label)
}
func (i slideItem) Description() string {
	if len(i.slide.Lines) == 0 {
		return ""
	}
	return strings.TrimSpace(i.slide.Lines[0])
}

func newOverview(deck Deck, width, height int) list.Model {
	items := make([]list.Item, len(deck.Slides))
	for i, s := range deck.Slides {
		items[i] = slideItem{index: i, slide: s}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = deck.Title
	l.SetShowHelp(false)
	return l
}
