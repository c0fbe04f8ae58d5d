package result

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/flow"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/leads"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/report"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/screen"
)

type recordingLedger struct {
	appended []leads.Lead
}

func (l *recordingLedger) Append(_ context.Context, lead leads.Lead) (leads.Lead, error) {
	l.appended = append(l.appended, lead)
	return lead, nil
}

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(context.Context, report.Report, bool) (report.Snapshot, error) {
	if r.err != nil {
		return report.Snapshot{}, r.err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 12))); err != nil {
		return report.Snapshot{}, err
	}
	return report.NewSnapshot(buf.Bytes())
}

var testResult = generation.Result{
	ProfileName:  "Refúgio Sereno",
	AnalysisText: "Sua casa pede [calma] e [luz].\nSegundo parágrafo.",
	ImageURL:     "https://img.example/board.png",
}

type fixture struct {
	env    *screen.Env
	ledger *recordingLedger
	dir    string
	opened []string
}

func newFixture(t *testing.T, renderErr error) *fixture {
	t.Helper()
	f := &fixture{ledger: &recordingLedger{}, dir: t.TempDir()}
	m := flow.New(quiz.DefaultCatalog(), f.ledger, zerolog.Nop())
	if err := m.Start("Ana Clara"); err != nil {
		t.Fatalf("start: %v", err)
	}
	var job flow.Job
	for {
		q := m.Answers().Question()
		if err := m.Toggle(q.Options[0].ID); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		j, done, err := m.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if done {
			job = j
			break
		}
	}
	if !m.Complete(job.Seq, testResult, nil) {
		t.Fatal("completion rejected")
	}

	f.env = &screen.Env{
		Ctx:     context.Background(),
		Machine: m,
		Logger:  zerolog.Nop(),
		NewExporter: func() *report.Exporter {
			return report.NewExporter(stubRenderer{err: renderErr},
				report.Config{ExportDir: f.dir},
				report.WithOpener(func(url string) error {
					f.opened = append(f.opened, url)
					return nil
				}))
		},
	}
	return f
}

// run presses enter on the selected menu item and feeds the export result
// back into the screen.
func run(t *testing.T, s *ResultScreen) {
	t.Helper()
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected an export command")
	}
	if !s.busy {
		t.Error("screen should be busy while exporting")
	}
	s.Update(cmd())
}

func TestShareRecordsLead(t *testing.T) {
	f := newFixture(t, nil)
	s := New(f.env)

	run(t, s)

	if !s.sent {
		t.Fatal("expected sent after share")
	}
	if s.menu.Items[itemShare].Label != sentLabel {
		t.Errorf("expected share label %q, got %q", sentLabel, s.menu.Items[itemShare].Label)
	}
	if len(f.ledger.appended) != 1 {
		t.Fatalf("expected one lead, got %d", len(f.ledger.appended))
	}
	lead := f.ledger.appended[0]
	if lead.UserName != "Ana Clara" || lead.Result != testResult || len(lead.Answers) != 7 {
		t.Errorf("unexpected lead %+v", lead)
	}
	if len(f.opened) != 1 || !strings.HasPrefix(f.opened[0], "https://wa.me/") {
		t.Errorf("expected the deep link to open, got %v", f.opened)
	}
	if s.notice != report.AttachInstruction {
		t.Errorf("expected attach instruction, got %q", s.notice)
	}
	if _, err := os.Stat(filepath.Join(f.dir, "Rosa_Menta_Ana_Clara.pdf")); err != nil {
		t.Errorf("expected saved pdf: %v", err)
	}
}

func TestDownloadDoesNotRecordLead(t *testing.T) {
	f := newFixture(t, nil)
	s := New(f.env)
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	run(t, s)

	if s.sent {
		t.Error("download should not mark the report sent")
	}
	if len(f.ledger.appended) != 0 {
		t.Errorf("download should not record a lead")
	}
	if len(f.opened) != 0 {
		t.Errorf("download should not open links")
	}
	if !strings.HasPrefix(s.notice, savedPrefix) {
		t.Errorf("expected saved notice, got %q", s.notice)
	}
}

func TestShareFailure(t *testing.T) {
	f := newFixture(t, errors.New("chrome missing"))
	s := New(f.env)

	run(t, s)

	if s.busy || s.sent {
		t.Fatalf("expected idle and unsent after failure")
	}
	if s.errMsg != shareFailed {
		t.Errorf("expected %q, got %q", shareFailed, s.errMsg)
	}
	if s.menu.Items[itemShare].Label != shareLabel {
		t.Errorf("share label should be restored, got %q", s.menu.Items[itemShare].Label)
	}
	if len(f.ledger.appended) != 0 {
		t.Errorf("failed share should not record a lead")
	}
}

func TestRestart(t *testing.T) {
	f := newFixture(t, nil)
	s := New(f.env)
	for i := 0; i < itemRestart; i++ {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if f.env.Machine.State() != flow.StateStart {
		t.Fatalf("expected start state, got %s", f.env.Machine.State())
	}
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	f := newFixture(t, nil)
	s := New(f.env)
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("a second export should not start while busy")
	}
}

func TestBodyHighlights(t *testing.T) {
	body := Body(testResult.AnalysisText, 60)
	for _, want := range []string{"calma", "luz", "Segundo parágrafo."} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in body", want)
		}
	}
	if strings.Contains(body, "[calma]") {
		t.Error("brackets should be stripped")
	}
}

func TestWindow(t *testing.T) {
	text := "a\nb\nc\nd"
	if got := window(text, 1, 2); got != "b\nc" {
		t.Errorf("got %q", got)
	}
	if got := window(text, 3, 5); got != "d" {
		t.Errorf("got %q", got)
	}
	if got := window(text, 0, 0); got != "" {
		t.Errorf("got %q", got)
	}
}
