package quiz

import "strings"

const projectionSeparator = ", "

// Projections are the three per-step text views of a Selections value
// that feed the generative clients.
type Projections struct {
	// Labels[i] is the comma-joined labels of step i.
	Labels []string
	// StyleKeywords[i] is the comma-joined style profiles of step i.
	StyleKeywords []string
	// VisualPrompts[i] is the comma-joined visual prompts of step i,
	// using the label where an option has none.
	VisualPrompts []string
}

// Project derives the projections for sel. It is pure: equal inputs give
// equal outputs. Steps without selections project to "".
func Project(sel Selections) Projections {
	p := Projections{
		Labels:        make([]string, len(sel)),
		StyleKeywords: make([]string, len(sel)),
		VisualPrompts: make([]string, len(sel)),
	}
	for i, step := range sel {
		labels := make([]string, len(step))
		styles := make([]string, len(step))
		visuals := make([]string, len(step))
		for j, o := range step {
			labels[j] = o.Label
			styles[j] = o.StyleProfile
			visuals[j] = o.Visual()
		}
		p.Labels[i] = strings.Join(labels, projectionSeparator)
		p.StyleKeywords[i] = strings.Join(styles, projectionSeparator)
		p.VisualPrompts[i] = strings.Join(visuals, projectionSeparator)
	}
	return p
}
