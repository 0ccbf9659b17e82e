package board

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/travigo/stopwatch/pkg/departures"
	"github.com/travigo/stopwatch/pkg/util"
)

// BarWindow is how far ahead, in seconds, a departure starts filling its bar
const BarWindow = 900

const BarWidth = 15

const (
	colourReset  = "\033[0m"
	colourBold   = "\033[1m"
	colourRed    = "\033[31m"
	colourGreen  = "\033[32m"
	colourYellow = "\033[33m"
	colourCyan   = "\033[36m"
	colourGrey   = "\033[90m"
)

var columnWidths = []int{6, 28, 8, 8, BarWidth}

var headers = []string{"Line", "Destination", "Min", "Time", "Approach"}

type Renderer struct {
	// Colour enables ANSI escape codes in the output
	Colour bool
}

func (r Renderer) paint(colour string, text string) string {
	if !r.Colour {
		return text
	}

	return colour + text + colourReset
}

// cell pads text to its column, colour codes are added outside of the padding so columns stay aligned
func (r Renderer) cell(column int, colour string, text string) string {
	text = util.PadString(util.TrimString(text, columnWidths[column]), columnWidths[column])
	if colour == "" {
		return text
	}

	return r.paint(colour, text)
}

// MinutesColour picks the colour of the remaining time of a departure
func MinutesColour(minutes int64) string {
	switch {
	case minutes <= 2:
		return colourRed
	case minutes <= 5:
		return colourYellow
	default:
		return colourGreen
	}
}

// BarFill returns how many of width cells are filled for a departure secondsRemaining away
func BarFill(secondsRemaining int64, window int64, width int) int {
	ratio := 1 - math.Max(0, math.Min(1, float64(secondsRemaining)/float64(window)))

	return int(math.Round(ratio * float64(width)))
}

func (r Renderer) bar(departure departures.Departure) string {
	filled := BarFill(departure.SecondsRemaining, BarWindow, BarWidth)

	return r.paint(MinutesColour(departure.MinutesRemaining), strings.Repeat("█", filled)) +
		r.paint(colourGrey, strings.Repeat("░", BarWidth-filled))
}

// Render draws every stop in the given order, stops missing from the snapshot are shown as pending
func (r Renderer) Render(w io.Writer, stops []departures.StopConfig, snapshot departures.Snapshot) error {
	var builder strings.Builder

	for _, stop := range stops {
		state, exists := snapshot.Get(stop.StopID)
		if !exists {
			fmt.Fprintf(&builder, "┌ %s\n│ Fetching data for stop %s...\n└\n", stop.StopID, stop.StopID)
			continue
		}

		r.renderStop(&builder, stop, state)
	}

	_, err := io.WriteString(w, builder.String())
	return err
}

func (r Renderer) renderStop(builder *strings.Builder, stop departures.StopConfig, state *departures.StopState) {
	lines := ""
	if !stop.Accept.IsWildcard() {
		lines = " [" + stop.Accept.String() + "]"
	}

	fmt.Fprintf(builder, "┌ %s (%s)%s - Updated %s\n",
		r.paint(colourBold, state.StopName),
		state.StopCode(),
		lines,
		state.LastRefreshed.Format("15:04:05"),
	)

	if _, ok := state.NextDeparture(); !ok {
		builder.WriteString("│ No upcoming departures\n└\n")
		return
	}

	headerCells := make([]string, len(headers))
	for i, header := range headers {
		headerCells[i] = r.cell(i, colourBold+colourCyan, header)
	}
	builder.WriteString("│ " + strings.TrimRight(strings.Join(headerCells, " "), " ") + "\n")

	for _, departure := range state.Departures {
		clock := departure.Time
		if !departure.Realtime {
			clock = "~" + clock
		}

		cells := []string{
			r.cell(0, colourBold, departure.Line),
			r.cell(1, "", departure.Destination),
			r.cell(2, MinutesColour(departure.MinutesRemaining), fmt.Sprintf("%d min", departure.MinutesRemaining)),
			r.cell(3, "", clock),
			r.bar(departure),
		}
		builder.WriteString("│ " + strings.Join(cells, " ") + "\n")
	}

	builder.WriteString("└\n")
}
