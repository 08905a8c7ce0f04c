// Package content models chat message content as a tagged union and decodes
// it from the untyped key/value payloads crossing the bridge boundary.
package content

// Type is the discriminator carried in the "type" field of a payload.
const (
	TypeText      = "text"
	TypeFile      = "file"
	TypeAnimation = "animation"
	TypeAudio     = "audio"
	TypePicker    = "picker"
	TypeField     = "field"
	TypeCarousel  = "carousel"
)

// Content is one of the seven message content variants.
type Content interface {
	ContentType() string
}

// Text is a plain text message.
type Text struct {
	Text string `json:"text"`
}

func (Text) ContentType() string { return TypeText }

// File is a downloadable file attachment.
type File struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

func (File) ContentType() string { return TypeFile }

// Animation is an animated image (e.g. GIF).
type Animation struct {
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
}

func (Animation) ContentType() string { return TypeAnimation }

// Audio is an audio clip with a playback duration in seconds.
type Audio struct {
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Duration int    `json:"duration"`
}

func (Audio) ContentType() string { return TypeAudio }

// Choice is one selectable option of a Picker.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Picker asks the visitor to pick one of several choices.
type Picker struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Choices []Choice `json:"choices"`
}

func (Picker) ContentType() string { return TypePicker }

// Field asks the visitor for a free-form value.
type Field struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Explain  string `json:"explain"`
	Required bool   `json:"required"`
}

func (Field) ContentType() string { return TypeField }

// TargetAction is a labeled link attached to a carousel target.
type TargetAction struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Target is one card of a Carousel.
type Target struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Actions     []TargetAction `json:"actions,omitempty"`
}

// Carousel is a horizontally scrollable list of cards.
type Carousel struct {
	Text    string   `json:"text"`
	Targets []Target `json:"targets"`
}

func (Carousel) ContentType() string { return TypeCarousel }
