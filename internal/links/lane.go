package links

import "strings"

// Lane is a topical column on the front page. Values outside the configured
// lanes are kept on the Entry but never rendered.
type Lane string

const (
	LaneTop         Lane = "top"
	LaneGeopolitics Lane = "geopolitics"
	LaneMarketsTech Lane = "markets-tech"
)

// LaneDef pairs a lane with its column heading.
type LaneDef struct {
	Key   Lane
	Label string
}

// Lanes lists the rendered columns in page order.
var Lanes = []LaneDef{
	{Key: LaneTop, Label: "TOP"},
	{Key: LaneGeopolitics, Label: "GEOPOLITICS"},
	{Key: LaneMarketsTech, Label: "MARKETS + TECH"},
}

var laneAliases = map[string]Lane{
	"top":          LaneTop,
	"geopolitics":  LaneGeopolitics,
	"geo":          LaneGeopolitics,
	"markets-tech": LaneMarketsTech,
	"markets_tech": LaneMarketsTech,
	"mkts":         LaneMarketsTech,
}

// ParseLane canonicalises a raw lane value. An empty value means top. Unknown
// values are returned trimmed with known=false.
func ParseLane(raw string) (lane Lane, known bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return LaneTop, true
	}
	if l, ok := laneAliases[strings.ToLower(trimmed)]; ok {
		return l, true
	}
	return Lane(trimmed), false
}

// Known reports whether l is one of the rendered lanes.
func (l Lane) Known() bool {
	for _, def := range Lanes {
		if def.Key == l {
			return true
		}
	}
	return false
}
