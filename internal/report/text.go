package report

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Accent is the highlight colour of a bracketed term.
type Accent int

const (
	AccentNone Accent = iota
	AccentPink
	AccentSage
)

// Class returns the stylesheet class for the accent.
func (a Accent) Class() string {
	switch a {
	case AccentPink:
		return "accent-pink"
	case AccentSage:
		return "accent-sage"
	}
	return ""
}

// Segment is a run of paragraph text. Highlighted segments carry the term
// without its brackets.
type Segment struct {
	Text   string
	Accent Accent
}

// Highlighted reports whether s was a bracketed term.
func (s Segment) Highlighted() bool { return s.Accent != AccentNone }

var (
	bracketed     = regexp.MustCompile(`\[.*?\]`)
	paragraphSep  = regexp.MustCompile(`\\n|\n`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Paragraphs splits narrative text on real or escaped newlines and drops
// blank paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphSep.Split(text, -1) {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Segments splits a paragraph into plain and bracketed runs. Runs are
// indexed the way a capturing split numbers them, text and terms
// alternating and empty text runs included; a term at an index divisible
// by three is pink, every other term sage.
func Segments(paragraph string) []Segment {
	var (
		out  []Segment
		i    int
		last int
	)
	push := func(text string, term bool) {
		seg := Segment{Text: text}
		if term {
			seg.Text = text[1 : len(text)-1]
			seg.Accent = AccentSage
			if i%3 == 0 {
				seg.Accent = AccentPink
			}
		}
		if term || text != "" {
			out = append(out, seg)
		}
		i++
	}
	for _, loc := range bracketed.FindAllStringIndex(paragraph, -1) {
		push(paragraph[last:loc[0]], false)
		push(paragraph[loc[0]:loc[1]], true)
		last = loc[1]
	}
	push(paragraph[last:], false)
	return out
}

// SafeName replaces whitespace runs in a user name with underscores.
func SafeName(userName string) string {
	return whitespaceRun.ReplaceAllString(userName, "_")
}

// FileName is the name a downloaded or fallback report is saved under.
func FileName(userName string) string {
	return fmt.Sprintf("Rosa_Menta_%s.pdf", SafeName(userName))
}

// ShareFileName is the name of the document sent over the native channel.
func ShareFileName(userName string) string {
	return fmt.Sprintf("Estilo_RosaMenta_%s.pdf", SafeName(userName))
}

// ShareTitle accompanies the document on the native channel.
const ShareTitle = "Meu Estilo Rosa Menta"

// ShareCaption is the short message sent with the document.
func ShareCaption(r Report) string {
	return fmt.Sprintf("✨ Olá! Fiz o quiz da Rosa Menta. Meu estilo é: *%s*. Segue o PDF com os detalhes!", r.Result.ProfileName)
}

// Summary is the plain-text report used by the deep-link fallback.
func Summary(r Report) string {
	var choices strings.Builder
	for i, label := range r.Answers {
		if i > 0 {
			choices.WriteByte('\n')
		}
		fmt.Fprintf(&choices, "%d. %s", i+1, label)
	}
	analysis := strings.NewReplacer("[", "*", "]", "*").Replace(r.Result.AnalysisText)

	return fmt.Sprintf("✨ *Resultado Quiz Rosa Menta* ✨\n\nOlá! Sou *%s* e meu estilo é *%s*.\n\n📝 *Minhas Escolhas:* \n%s\n\n📖 *Análise:* %s",
		r.UserName, r.Result.ProfileName, choices.String(), analysis)
}

// DeepLink builds the WhatsApp chat link pre-filled with the summary.
func DeepLink(phone string, r Report) string {
	return "https://wa.me/" + phone + "?text=" + encodeURIComponent(Summary(r))
}

// encodeURIComponent percent-encodes like the browser function of the same
// name, so spaces become %20 rather than "+".
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
