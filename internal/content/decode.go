package content

import "fmt"

// DecodeError kinds. Content decoding is strict: a payload that cannot be
// decoded must be rejected before any SDK call happens.
const (
	KindMissingField = "missing_field"
	KindUnknownType  = "unknown_type"
)

// DecodeError reports why a payload could not be decoded.
type DecodeError struct {
	Kind  string
	Field string // missing field name, or the unrecognized type tag
}

func (e *DecodeError) Error() string {
	if e.Kind == KindUnknownType {
		return fmt.Sprintf("unknown message content type: %s", e.Field)
	}
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func missingField(name string) error {
	return &DecodeError{Kind: KindMissingField, Field: name}
}

// Decode converts an untyped payload into a typed Content variant,
// dispatching on the "type" discriminator.
func Decode(payload map[string]any) (Content, error) {
	typ, ok := payload["type"].(string)
	if !ok {
		return nil, missingField("type")
	}

	switch typ {
	case TypeText:
		return decodeText(payload)
	case TypeFile:
		return decodeFile(payload)
	case TypeAnimation:
		return decodeAnimation(payload)
	case TypeAudio:
		return decodeAudio(payload)
	case TypePicker:
		return decodePicker(payload)
	case TypeField:
		return decodeField(payload)
	case TypeCarousel:
		return decodeCarousel(payload)
	default:
		return nil, &DecodeError{Kind: KindUnknownType, Field: typ}
	}
}

func decodeText(payload map[string]any) (Content, error) {
	text, ok := payload["text"].(string)
	if !ok {
		return nil, missingField("text")
	}
	return Text{Text: text}, nil
}

func decodeFile(payload map[string]any) (Content, error) {
	url, ok := payload["url"].(string)
	if !ok {
		return nil, missingField("url")
	}
	name, ok := payload["name"].(string)
	if !ok {
		return nil, missingField("name")
	}
	mimeType, ok := payload["mimeType"].(string)
	if !ok {
		return nil, missingField("mimeType")
	}
	return File{URL: url, Name: name, MimeType: mimeType}, nil
}

func decodeAnimation(payload map[string]any) (Content, error) {
	url, ok := payload["url"].(string)
	if !ok {
		return nil, missingField("url")
	}
	mimeType, ok := payload["mimeType"].(string)
	if !ok {
		return nil, missingField("mimeType")
	}
	return Animation{URL: url, MimeType: mimeType}, nil
}

func decodeAudio(payload map[string]any) (Content, error) {
	url, ok := payload["url"].(string)
	if !ok {
		return nil, missingField("url")
	}
	mimeType, ok := payload["mimeType"].(string)
	if !ok {
		return nil, missingField("mimeType")
	}
	duration, ok := toInt(payload["duration"])
	if !ok {
		return nil, missingField("duration")
	}
	return Audio{URL: url, MimeType: mimeType, Duration: duration}, nil
}

func decodePicker(payload map[string]any) (Content, error) {
	id, ok := payload["id"].(string)
	if !ok {
		return nil, missingField("id")
	}
	text, ok := payload["text"].(string)
	if !ok {
		return nil, missingField("text")
	}
	rawChoices, ok := toMapSlice(payload["choices"])
	if !ok {
		return nil, missingField("choices")
	}

	// Malformed list elements are dropped, not fatal.
	choices := make([]Choice, 0, len(rawChoices))
	for _, raw := range rawChoices {
		value, ok := raw["value"].(string)
		if !ok {
			continue
		}
		label, ok := raw["label"].(string)
		if !ok {
			continue
		}
		selected, _ := raw["selected"].(bool)
		choices = append(choices, Choice{Value: value, Label: label, Selected: selected})
	}
	return Picker{ID: id, Text: text, Choices: choices}, nil
}

func decodeField(payload map[string]any) (Content, error) {
	id, ok := payload["id"].(string)
	if !ok {
		return nil, missingField("id")
	}
	text, ok := payload["text"].(string)
	if !ok {
		return nil, missingField("text")
	}
	explain, _ := payload["explain"].(string)
	required, _ := payload["required"].(bool)
	return Field{ID: id, Text: text, Explain: explain, Required: required}, nil
}

func decodeCarousel(payload map[string]any) (Content, error) {
	text, ok := payload["text"].(string)
	if !ok {
		return nil, missingField("text")
	}
	rawTargets, ok := toMapSlice(payload["targets"])
	if !ok {
		return nil, missingField("targets")
	}

	targets := make([]Target, 0, len(rawTargets))
	for _, raw := range rawTargets {
		title, ok := raw["title"].(string)
		if !ok {
			continue
		}
		description, _ := raw["description"].(string)
		imageURL, _ := raw["imageUrl"].(string)

		// An actionUrl becomes a single synthesized "Open" action.
		var actions []TargetAction
		if actionURL, ok := raw["actionUrl"].(string); ok && actionURL != "" {
			actions = []TargetAction{{Label: "Open", URL: actionURL}}
		}
		targets = append(targets, Target{
			Title:       title,
			Description: description,
			ImageURL:    imageURL,
			Actions:     actions,
		})
	}
	return Carousel{Text: text, Targets: targets}, nil
}

// toInt accepts the numeric shapes a JSON decode can produce.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// toMapSlice accepts both []map[string]any and the []any a JSON decode produces.
func toMapSlice(v any) ([]map[string]any, bool) {
	switch list := v.(type) {
	case []map[string]any:
		return list, true
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, m)
		}
		return out, true
	default:
		return nil, false
	}
}
