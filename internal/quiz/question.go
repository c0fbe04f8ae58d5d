package quiz

// Option is one selectable answer within a Question.
type Option struct {
	ID           string `yaml:"id" json:"id"`
	Label        string `yaml:"label" json:"label"`
	StyleProfile string `yaml:"style_profile" json:"styleProfile"`

	// VisualPrompt feeds the image model. Empty means "use Label".
	VisualPrompt string `yaml:"visual_prompt,omitempty" json:"visualPrompt,omitempty"`

	// ImagePosition is an optional layout hint for option artwork.
	ImagePosition string `yaml:"image_position,omitempty" json:"imagePosition,omitempty"`
}

// Visual returns the image-model keywords for this option.
func (o Option) Visual() string {
	if o.VisualPrompt != "" {
		return o.VisualPrompt
	}
	return o.Label
}

// Question is one ordered step of the questionnaire.
type Question struct {
	ID          int      `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Multiselect bool     `yaml:"multiselect" json:"multiselect"`
	Options     []Option `yaml:"options" json:"options"`
}

// Option returns the option with the given ID.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Selections holds the chosen options for each step, in selection order.
type Selections [][]Option
