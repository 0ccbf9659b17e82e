package departures

import (
	"strings"

	"golang.org/x/exp/slices"
)

// AllLines is the label that turns an accept-set into the wildcard
const AllLines = "ALL"

// AcceptSet is the set of line labels a stop displays
type AcceptSet struct {
	all   bool
	lines []string
}

func NewAcceptSet(lines []string) AcceptSet {
	accept := AcceptSet{}

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == AllLines {
			accept.all = true
		} else if line != "" && !slices.Contains(accept.lines, line) {
			accept.lines = append(accept.lines, line)
		}
	}

	if accept.all {
		accept.lines = nil
	}

	return accept
}

// ParseAcceptSet reads a comma separated list of line labels,
// an empty list accepts every line
func ParseAcceptSet(lines string) AcceptSet {
	var labels []string
	for _, line := range strings.Split(lines, ",") {
		if line = strings.TrimSpace(line); line != "" {
			labels = append(labels, line)
		}
	}

	if len(labels) == 0 {
		return AcceptAll()
	}

	return NewAcceptSet(labels)
}

// AcceptAll is the wildcard accept-set
func AcceptAll() AcceptSet {
	return AcceptSet{all: true}
}

func (a AcceptSet) IsWildcard() bool {
	return a.all
}

func (a AcceptSet) Accepts(line string) bool {
	return a.all || slices.Contains(a.lines, line)
}

// Lines returns a copy of the accepted labels in configuration order
func (a AcceptSet) Lines() []string {
	if a.all {
		return []string{AllLines}
	}

	return slices.Clone(a.lines)
}

func (a AcceptSet) String() string {
	return strings.Join(a.Lines(), ",")
}

type StopConfig struct {
	StopID string
	Accept AcceptSet
}

// StopCode returns the part of a stop identifier after the feed prefix
func StopCode(stopID string) string {
	_, code, found := strings.Cut(stopID, ":")
	if !found {
		return ""
	}

	return code
}
