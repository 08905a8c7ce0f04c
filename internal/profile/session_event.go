package profile

// EventColor is the ordinal timeline-event color understood by the dashboard.
type EventColor int

const (
	ColorRed EventColor = iota
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorPurple
	ColorPink
	ColorBrown
	ColorGrey
	ColorBlack
)

// ColorFromInt maps an ordinal to a palette color. Out-of-range values fall
// back to black.
func ColorFromInt(v int) EventColor {
	if v < int(ColorRed) || v > int(ColorBlack) {
		return ColorBlack
	}
	return EventColor(v)
}

// SessionEvent is one entry appended to the visitor's server-side timeline.
type SessionEvent struct {
	Name  string     `json:"name"`
	Color EventColor `json:"color"`
}

// DecodeSessionEvents decodes a batch of timeline events. Entries without a
// name are skipped; a missing color defaults to black. The batch never fails.
func DecodeSessionEvents(payloads []map[string]any) []SessionEvent {
	events := make([]SessionEvent, 0, len(payloads))
	for _, payload := range payloads {
		name, ok := payload["name"].(string)
		if !ok {
			continue
		}
		color := int(ColorBlack)
		switch c := payload["color"].(type) {
		case int:
			color = c
		case int64:
			color = int(c)
		case float64:
			color = int(c)
		}
		events = append(events, SessionEvent{Name: name, Color: ColorFromInt(color)})
	}
	return events
}
