package board

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/departures"
)

// TickRate is how often the board is redrawn
const TickRate = 250 * time.Millisecond

// Source is read on every redraw
type Source interface {
	Snapshot() departures.Snapshot
	Stops() []departures.StopConfig
}

type tickMsg time.Time

// Model is the bubbletea model of the board. It holds no departure state of its own,
// every frame is drawn from the snapshot installed in Source at that moment.
type Model struct {
	Source   Source
	Renderer Renderer
	TickRate time.Duration
}

func (m Model) tick() tea.Cmd {
	tickRate := m.TickRate
	if tickRate <= 0 {
		tickRate = TickRate
	}

	return tea.Tick(tickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tickMsg:
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	var frame strings.Builder
	if err := m.Renderer.Render(&frame, m.Source.Stops(), m.Source.Snapshot()); err != nil {
		log.Error().Err(err).Msg("Failed to render board")
	}

	return frame.String()
}

type Board struct {
	Model Model

	Input  io.Reader
	Output io.Writer

	// AltScreen draws the board on the terminal's alternate screen
	AltScreen bool
}

// Run draws the board until q is pressed or ctx is done. Running out of input does not quit.
func (b *Board) Run(ctx context.Context) error {
	options := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(b.Input),
		tea.WithOutput(b.Output),
	}
	if b.AltScreen {
		options = append(options, tea.WithAltScreen())
	}

	_, err := tea.NewProgram(b.Model, options...).Run()
	if ctx.Err() != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, ctx.Err())) {
		return nil
	}

	return err
}
