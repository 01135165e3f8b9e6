package presenter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Mode is what the presentation is showing.
type Mode int

const (
	SlideMode Mode = iota
	OverviewMode
)

// Model is the bubbletea model of a running presentation.
type Model struct {
	deck       Deck
	index      int
	mode       Mode
	fullscreen bool
	width      int
	height     int
	overview   list.Model
	help       help.Model
	keys       keyMap
}

// NewModel creates a model positioned on the first slide.
func NewModel(deck Deck, fullscreen bool) *Model {
	return &Model{
		deck:       deck,
		fullscreen: fullscreen,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Index returns the current slide position.
func (m *Model) Index() int { return m.index }

// Fullscreen reports whether the alternate screen is in use.
func (m *Model) Fullscreen() bool { return m.fullscreen }

// Mode returns the current mode.
func (m *Model) Mode() Mode { return m.mode }

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles key and window messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.mode == OverviewMode {
			m.overview.SetSize(msg.Width-4, msg.Height-4)
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == OverviewMode {
			return m.handleOverviewKeys(msg)
		}
		return m.handleSlideKeys(msg)
	}

	return m, nil
}

func (m *Model) handleSlideKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := max(m.deck.Len()-1, 0)

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.next):
		m.index = min(m.index+1, last)
	case key.Matches(msg, m.keys.prev):
		m.index = max(m.index-1, 0)
	case key.Matches(msg, m.keys.first):
		m.index = 0
	case key.Matches(msg, m.keys.last):
		m.index = last
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.fullscreen):
		m.fullscreen = !m.fullscreen
		if m.fullscreen {
			return m, tea.EnterAltScreen
		}
		return m, tea.ExitAltScreen
	case key.Matches(msg, m.keys.overview):
		m.mode = OverviewMode
		m.overview = newOverview(m.deck, max(m.width-4, 20), max(m.height-4, 10))
		m.overview.Select(m.index)
	}

	return m, nil
}

func (m *Model) handleOverviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overview.FilterState() != list.Filtering {
		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.overview):
			m.mode = SlideMode
			return m, nil
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.overview.SelectedItem().(slideItem); ok {
				m.index = item.index
			}
			m.mode = SlideMode
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.overview, cmd = m.overview.Update(msg)
	return m, cmd
}

// View renders the current slide or the overview.
func (m *Model) View() string {
	if m.mode == OverviewMode {
		return m.overview.View()
	}

	if m.deck.Len() == 0 {
		return styles.help.Render("No slides.\n\nPress q to close")
	}

	footer := fmt.Sprintf("%s  %d/%d", m.help.View(m.keys), m.index+1, m.deck.Len())
	body := renderSlide(m.deck.Slides[m.index])

	if m.width == 0 || m.height == 0 {
		return fmt.Sprintf("%s\n\n%s", body, footer)
	}

	slide := lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center, body)
	return fmt.Sprintf("%s\n%s", slide, footer)
}

func renderSlide(s Slide) string {
	var b strings.Builder
	b.WriteString(styles.title.Render(s.Label))
	b.WriteString("\n")

	lineStyle := styles.text
	if s.Kind == ChorusSlide {
		lineStyle = styles.chorus
	}
	for i, line := range s.Lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(lineStyle.Render(line))
	}

	return styles.frame.Render(lipgloss.JoinVertical(lipgloss.Center, b.String()))
}

// Terminal presents decks as a full terminal program.
type Terminal struct {
	in         io.Reader
	out        io.Writer
	fullscreen bool
}

// NewTerminal creates a [Terminal]. Nil in and out use the process's stdin and stdout.
func NewTerminal(in io.Reader, out io.Writer, fullscreen bool) *Terminal {
	return &Terminal{in: in, out: out, fullscreen: fullscreen}
}

// Present runs the presentation until the user closes it or ctx ends.
func (t *Terminal) Present(ctx context.Context, deck Deck) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	if t.out != nil {
		opts = append(opts, tea.WithOutput(t.out))
	}
	if t.fullscreen {
		opts = append(opts, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(NewModel(deck, t.fullscreen), opts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("presentation failed: %w", err)
	}
	return ctx.Err()
}
