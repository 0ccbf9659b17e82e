package board

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/stopwatch/pkg/departures"
)

type fixedSource struct {
	snapshot departures.Snapshot
	stops    []departures.StopConfig
}

func (f fixedSource) Snapshot() departures.Snapshot { return f.snapshot }
func (f fixedSource) Stops() []departures.StopConfig { return f.stops }

func testSource() fixedSource {
	refreshed := time.Date(2026, 5, 4, 12, 0, 5, 0, time.UTC)

	return fixedSource{
		stops: []departures.StopConfig{
			{StopID: "tampere:0835", Accept: departures.AcceptAll()},
			{StopID: "tampere:0001", Accept: departures.AcceptAll()},
		},
		snapshot: departures.NewSnapshot("cycle-1", refreshed, []*departures.StopState{
			{
				StopID:   "tampere:0835",
				StopName: "Keskustori H",
				Departures: []departures.Departure{
					{Line: "3", Destination: "Lentävänniemi", Time: "12:01", MinutesRemaining: 1, SecondsRemaining: 90, Realtime: true},
					{Line: "8A", Destination: "Atala", Time: "12:30", MinutesRemaining: 29, SecondsRemaining: 1740},
				},
				LastRefreshed: refreshed,
			},
		}),
	}
}

func TestRender(t *testing.T) {
	source := testSource()

	var output bytes.Buffer
	require.NoError(t, Renderer{}.Render(&output, source.stops, source.snapshot))

	lines := strings.Split(strings.TrimSuffix(output.String(), "\n"), "\n")
	require.Len(t, lines, 8)

	assert.Equal(t, "┌ Keskustori H (0835) - Updated 12:00:05", lines[0])
	assert.Equal(t, "│ Line   Destination                  Min      Time     Approach", lines[1])
	assert.Equal(t, "│ 3      Lentävänniemi                1 min    12:01    "+strings.Repeat("█", 14)+"░", lines[2])
	assert.Equal(t, "│ 8A     Atala                        29 min   ~12:30   "+strings.Repeat("░", 15), lines[3])
	assert.Equal(t, "└", lines[4])
	assert.Equal(t, "┌ tampere:0001", lines[5])
	assert.Equal(t, "│ Fetching data for stop tampere:0001...", lines[6])
}

func TestRenderColour(t *testing.T) {
	source := testSource()

	var output bytes.Buffer
	require.NoError(t, Renderer{Colour: true}.Render(&output, source.stops, source.snapshot))

	assert.Contains(t, output.String(), colourRed+"1 min   "+colourReset)
	assert.Contains(t, output.String(), colourGreen+"29 min  "+colourReset)
}

func TestMinutesColour(t *testing.T) {
	assert.Equal(t, colourRed, MinutesColour(0))
	assert.Equal(t, colourRed, MinutesColour(2))
	assert.Equal(t, colourYellow, MinutesColour(3))
	assert.Equal(t, colourYellow, MinutesColour(5))
	assert.Equal(t, colourGreen, MinutesColour(6))
}

func TestBarFill(t *testing.T) {
	assert.Equal(t, 15, BarFill(0, BarWindow, BarWidth))
	assert.Equal(t, 8, BarFill(450, BarWindow, BarWidth))
	assert.Equal(t, 0, BarFill(900, BarWindow, BarWidth))
	assert.Equal(t, 0, BarFill(4000, BarWindow, BarWidth))
}

func TestRenderFilteredAndEmptyStops(t *testing.T) {
	refreshed := time.Date(2026, 5, 4, 23, 59, 0, 0, time.UTC)
	stops := []departures.StopConfig{{StopID: "tampere:0500", Accept: departures.NewAcceptSet([]string{"3", "8A"})}}
	snapshot := departures.NewSnapshot("cycle-1", refreshed, []*departures.StopState{
		{StopID: "tampere:0500", StopName: "Hervanta", Departures: []departures.Departure{}, LastRefreshed: refreshed},
	})

	var output bytes.Buffer
	require.NoError(t, Renderer{}.Render(&output, stops, snapshot))

	assert.Equal(t, "┌ Hervanta (0500) [3,8A] - Updated 23:59:00\n│ No upcoming departures\n└\n", output.String())
}

func TestModelQuitsOnKey(t *testing.T) {
	model := Model{Source: testSource()}

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := model.Update(key)
		require.NotNil(t, cmd, key.String())
		assert.IsType(t, tea.QuitMsg{}, cmd(), key.String())
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Nil(t, cmd)
}

func TestModelRedrawsOnTick(t *testing.T) {
	model := Model{Source: testSource(), TickRate: time.Millisecond}

	require.NotNil(t, model.Init())

	_, cmd := model.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.IsType(t, tickMsg{}, cmd())

	assert.Contains(t, model.View(), "Keskustori H (0835) - Updated 12:00:05")
	assert.Contains(t, model.View(), "Fetching data for stop tampere:0001...")
}

func TestRunQuitsOnKeypress(t *testing.T) {
	var output bytes.Buffer
	board := &Board{
		Model:  Model{Source: testSource(), TickRate: time.Millisecond},
		Input:  strings.NewReader("q"),
		Output: &output,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, board.Run(ctx))
	assert.NoError(t, ctx.Err())
	assert.Contains(t, output.String(), "Keskustori H")
}

func TestRunKeepsDrawingAfterInputEnds(t *testing.T) {
	var output bytes.Buffer
	board := &Board{
		Model:  Model{Source: testSource(), TickRate: time.Millisecond},
		Input:  strings.NewReader(""),
		Output: &output,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	startTime := time.Now()
	require.NoError(t, board.Run(ctx))

	assert.GreaterOrEqual(t, time.Since(startTime), 150*time.Millisecond)
	assert.Contains(t, output.String(), "Keskustori H")
}
