package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed templates/report.html.tmpl
var layoutSource string

var layout = template.Must(template.New("report").Parse(layoutSource))

// Brand colours used by the layout.
const (
	ColorMainPink  = "#F693A8"
	ColorLightPink = "#F0C1C9"
	ColorDustyRose = "#C0808D"
	ColorOffWhite  = "#FFF4F8"
	ColorMintGreen = "#6FBE98"
	ColorSageGreen = "#A1C4B1"
	ColorDarkGreen = "#2D4B3E"
	ColorCream     = "#F4F2ED"
	ColorBlack     = "#22201E"
)

// ContainerSelector identifies the element that is captured.
const ContainerSelector = "#report-container"

// HiddenClass marks elements that are on screen but not in the export.
const HiddenClass = "no-export"

type layoutView struct {
	ProfileName string
	ImageURL    string
	Paragraphs  [][]Segment
	Sent        bool
}

// RenderHTML produces the standalone report page.
func RenderHTML(r Report, sent bool) (string, error) {
	v := layoutView{
		ProfileName: r.Result.ProfileName,
		ImageURL:    r.Result.ImageURL,
		Sent:        sent,
	}
	for _, p := range Paragraphs(r.Result.AnalysisText) {
		v.Paragraphs = append(v.Paragraphs, Segments(p))
	}

	var buf bytes.Buffer
	if err := layout.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("execute report layout: %w", err)
	}
	return buf.String(), nil
}
