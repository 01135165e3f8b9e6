package presenter

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#FAFAFA", "#04B575", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	text   lipgloss.Style
	chorus lipgloss.Style
	help   lipgloss.Style
	frame  lipgloss.Style
}

func NewPalette(t, x, c, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		text:   NewStyle(x),
		chorus: NewEm(c),
		help:   NewEm(h),
		frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(1, 4),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
