package imagegen

import (
	"bytes"
	"strings"
	"text/template"
)

// Role binds one board element to the quiz step that supplies it and the
// text used when that step is empty.
type Role struct {
	Step        int
	Placeholder string
}

// value returns values[Step], or the placeholder when missing or empty.
func (r Role) value(values []string) string {
	if r.Step >= 0 && r.Step < len(values) && values[r.Step] != "" {
		return values[r.Step]
	}
	return r.Placeholder
}

// RoleTable maps quiz steps onto the elements of the cork-board prompt.
// Palette reads from labels; every other role reads from visual prompts.
type RoleTable struct {
	Palette  Role
	Metal    Role
	Wood     Role
	Lighting Role
	Surface  Role
	Hobby    Role
	Detail   Role

	// StickyNotes lists the label steps written on the sticky notes.
	StickyNotes []int
}

// DefaultRoleTable matches the shipped seven-question catalog.
func DefaultRoleTable() RoleTable {
	return RoleTable{
		Palette:     Role{Step: 0},
		Metal:       Role{Step: 1, Placeholder: "metal finish sample"},
		Wood:        Role{Step: 2, Placeholder: "wood sample"},
		Lighting:    Role{Step: 3, Placeholder: "lighting reference"},
		Surface:     Role{Step: 4, Placeholder: "surface material sample"},
		Hobby:       Role{Step: 5, Placeholder: "hobby reference"},
		Detail:      Role{Step: 6, Placeholder: "detail polaroid"},
		StickyNotes: []int{0, 1},
	}
}

var boardTemplate = template.Must(template.New("board").Parse(`Wide angle full shot of a chaotic but harmonic cork board moodboard, ensuring the ENTIRE rectangular board is visible with white wall margins on all sides.
Theme: {{.Theme}}.
CRITICAL LAYOUT RULES:
- The CORK BOARD is the base. All items must be pinned, taped, or placed ON the cork board.
- If a category (like Materials or Metals) has multiple items listed, they MUST be arranged OVERLAPPING each other (layered composition).
- HOBBY RULE: For the hobby item, generate ONLY A SKETCH on paper. DO NOT include a photograph of the hobby.

Elements:
1. Vertical paint color sample cards (paint chips) showing the palette of [{{.Palette}}]. IMPORTANT: PURE COLOR ONLY cards, NO TEXT.
2. Materials & Samples (Overlap these if multiple):
   - {{.Metal}}.
   - {{.Wood}}.
   - {{.Surface}}.
3. Photos & References (Overlap these if multiple):
   - {{.Lighting}}.
   - {{.Hobby}} (Simple pencil sketch on paper - NO PHOTOS).
4. Details & Personalization:
   - {{.Detail}} (Polaroid style).
   - EXACTLY TWO small yellow sticky notes with single handwritten words: "{{.Sticky}}".
Composition: Creative, slightly messy but aesthetically pleasing arrangement, collage style.
Lighting: Soft natural interior light, realistic shadows, 8k resolution, photorealistic masterpiece.`))

// BuildPrompt composes the board prompt. styleKeywords, labels and visuals
// hold one comma-joined entry per quiz step.
func BuildPrompt(roles RoleTable, styleKeywords, labels, visuals []string) (string, error) {
	var sticky []string
	for _, i := range roles.StickyNotes {
		if i >= 0 && i < len(labels) {
			sticky = append(sticky, labels[i])
		}
	}

	data := struct {
		Theme, Palette, Metal, Wood, Surface, Lighting, Hobby, Detail, Sticky string
	}{
		Theme:    strings.Join(styleKeywords, ", "),
		Palette:  roles.Palette.value(labels),
		Metal:    roles.Metal.value(visuals),
		Wood:     roles.Wood.value(visuals),
		Surface:  roles.Surface.value(visuals),
		Lighting: roles.Lighting.value(visuals),
		Hobby:    roles.Hobby.value(visuals),
		Detail:   roles.Detail.value(visuals),
		Sticky:   strings.Join(sticky, ", "),
	}

	var buf bytes.Buffer
	if err := boardTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
