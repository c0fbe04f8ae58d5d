package report

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/notify"
)

func sampleReport() Report {
	return Report{
		UserName: "Ana  Maria Souza",
		Result: generation.Result{
			ProfileName:  "Refúgio Solar",
			AnalysisText: "Seu lar pede [Madeira Clara] e [Dourado & Latão].\\nUm espaço de [Ler].",
			ImageURL:     "https://img.example/board.png",
		},
		Answers: []string{"Neutros & Naturais", "Dourado & Latão", "Ler"},
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0xF4, 0xF2, 0xED, 0xFF})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeRenderer struct {
	snap  Snapshot
	err   error
	calls int
	sent  []bool
}

func (f *fakeRenderer) Render(_ context.Context, _ Report, sent bool) (Snapshot, error) {
	f.calls++
	f.sent = append(f.sent, sent)
	return f.snap, f.err
}

type fakeSharer struct {
	available bool
	err       error
	docs      []Document
}

func (f *fakeSharer) CanShare() bool { return f.available }

func (f *fakeSharer) Share(_ context.Context, doc Document) error {
	f.docs = append(f.docs, doc)
	return f.err
}

type fakeNotifier struct {
	mu      sync.Mutex
	reports []notify.Report
}

func (f *fakeNotifier) Dispatch(r notify.Report) <-chan bool {
	f.mu.Lock()
	f.reports = append(f.reports, r)
	f.mu.Unlock()
	done := make(chan bool, 1)
	done <- true
	close(done)
	return done
}

type recordingOpener struct{ urls []string }

func (o *recordingOpener) open(u string) error {
	o.urls = append(o.urls, u)
	return nil
}

func newTestExporter(t *testing.T, opts ...Option) (*Exporter, *fakeRenderer, string) {
	t.Helper()
	snap, err := NewSnapshot(testPNG(t, 40, 60))
	require.NoError(t, err)
	r := &fakeRenderer{snap: snap}
	dir := t.TempDir()
	return NewExporter(r, Config{ExportDir: dir}, opts...), r, dir
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs("Um.\nDois.\\nTrês.\n\n   \n")
	if diff := cmp.Diff([]string{"Um.", "Dois.", "Três."}, got); diff != "" {
		t.Errorf("Paragraphs mismatch (-want +got):\n%s", diff)
	}
}

func TestSegments_AccentByRunIndex(t *testing.T) {
	got := Segments("a [x] b [y] c [z] d [w] e [v]")
	want := []Segment{
		{Text: "a "}, {Text: "x", Accent: AccentSage},
		{Text: " b "}, {Text: "y", Accent: AccentPink},
		{Text: " c "}, {Text: "z", Accent: AccentSage},
		{Text: " d "}, {Text: "w", Accent: AccentSage},
		{Text: " e "}, {Text: "v", Accent: AccentPink},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segments mismatch (-want +got):\n%s", diff)
	}
}

func TestSegments_AdjacentTermsCountEmptyRuns(t *testing.T) {
	got := Segments("[a][b]")
	want := []Segment{{Text: "a", Accent: AccentSage}, {Text: "b", Accent: AccentPink}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Segments mismatch (-want +got):\n%s", diff)
	}
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "Rosa_Menta_Ana_Maria_Souza.pdf", FileName("Ana  Maria\tSouza"))
	assert.Equal(t, "Estilo_RosaMenta_Ana_Maria_Souza.pdf", ShareFileName("Ana Maria Souza"))
}

func TestSummary(t *testing.T) {
	want := "✨ *Resultado Quiz Rosa Menta* ✨\n\n" +
		"Olá! Sou *Ana  Maria Souza* e meu estilo é *Refúgio Solar*.\n\n" +
		"📝 *Minhas Escolhas:* \n1. Neutros & Naturais\n2. Dourado & Latão\n3. Ler\n\n" +
		"📖 *Análise:* Seu lar pede *Madeira Clara* e *Dourado & Latão*.\\nUm espaço de *Ler*."
	assert.Equal(t, want, Summary(sampleReport()))
}

func TestDeepLink(t *testing.T) {
	r := sampleReport()
	link := DeepLink("5521979386051", r)
	require.True(t, strings.HasPrefix(link, "https://wa.me/5521979386051?text="))
	assert.NotContains(t, link, "+", "spaces must be percent-encoded")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, Summary(r), u.Query().Get("text"))
}

func TestRenderHTML(t *testing.T) {
	r := sampleReport()
	r.Result.ProfileName = "Casa <Viva>"
	html, err := RenderHTML(r, false)
	require.NoError(t, err)

	assert.Contains(t, html, `id="report-container"`)
	assert.Contains(t, html, "Casa &lt;Viva&gt;")
	assert.Contains(t, html, `<span class="accent-sage">Madeira Clara</span>`)
	assert.Contains(t, html, `<span class="accent-pink">Dourado &amp; Latão</span>`)
	assert.Contains(t, html, `class="actions no-export"`)
	assert.Contains(t, html, "Enviar para Arquiteta")
	assert.Contains(t, html, `<p>Um espaço de <span class="accent-sage">Ler</span>.</p>`, "escaped newline starts a paragraph")

	sent, err := RenderHTML(r, true)
	require.NoError(t, err)
	assert.Contains(t, sent, "Enviado para Arquiteta")
}

func TestBuildDocument(t *testing.T) {
	snap, err := NewSnapshot(testPNG(t, 120, 80))
	require.NoError(t, err)
	assert.Equal(t, 120, snap.Width)
	assert.Equal(t, 80, snap.Height)

	pdf, err := BuildDocument(snap, ShareTitle)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestNewSnapshot_RejectsGarbage(t *testing.T) {
	_, err := NewSnapshot([]byte("not a png"))
	assert.Error(t, err)
}

func TestExport_NativeBranch(t *testing.T) {
	sharer := &fakeSharer{available: true}
	opener := &recordingOpener{}
	e, _, dir := newTestExporter(t, WithSharer(sharer), WithOpener(opener.open))

	out, err := e.ExportAndShare(context.Background(), sampleReport(), ModeShare)
	require.NoError(t, err)
	assert.Equal(t, ChannelNative, out.Channel)
	assert.Empty(t, opener.urls)
	assert.Empty(t, dirEntries(t, dir))

	require.Len(t, sharer.docs, 1)
	doc := sharer.docs[0]
	assert.Equal(t, "Estilo_RosaMenta_Ana_Maria_Souza.pdf", doc.FileName)
	assert.Equal(t, ShareTitle, doc.Title)
	assert.Contains(t, doc.Caption, "*Refúgio Solar*")
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestExport_DeepLinkBranch(t *testing.T) {
	opener := &recordingOpener{}
	e, _, dir := newTestExporter(t, WithSharer(&fakeSharer{available: false}), WithOpener(opener.open))

	out, err := e.ExportAndShare(context.Background(), sampleReport(), ModeShare)
	require.NoError(t, err)
	assert.Equal(t, ChannelDeepLink, out.Channel)
	assert.Equal(t, AttachInstruction, out.Message)
	require.Len(t, opener.urls, 1)
	assert.Equal(t, out.DeepLink, opener.urls[0])
	assert.True(t, strings.HasPrefix(out.DeepLink, "https://wa.me/"+DefaultWhatsAppPhone))

	assert.Equal(t, filepath.Join(dir, "Rosa_Menta_Ana_Maria_Souza.pdf"), out.Path)
	assert.Equal(t, []string{"Rosa_Menta_Ana_Maria_Souza.pdf"}, dirEntries(t, dir))
	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExport_DeepLinkOpenFailureStillSaves(t *testing.T) {
	e, _, dir := newTestExporter(t, WithOpener(func(string) error { return errors.New("no browser") }))

	out, err := e.ExportAndShare(context.Background(), sampleReport(), ModeShare)
	require.NoError(t, err)
	assert.Equal(t, ChannelDeepLink, out.Channel)
	assert.Len(t, dirEntries(t, dir), 1)
}

func TestExport_WebhookFiresOnce(t *testing.T) {
	n := &fakeNotifier{}
	e, r, _ := newTestExporter(t, WithSharer(&fakeSharer{available: true}), WithNotifier(n))

	for i := 0; i < 3; i++ {
		_, err := e.ExportAndShare(context.Background(), sampleReport(), ModeShare)
		require.NoError(t, err)
	}
	require.Len(t, n.reports, 1)
	assert.Equal(t, "Ana  Maria Souza", n.reports[0].UserName)
	assert.Equal(t, sampleReport().Result, n.reports[0].Result)
	assert.False(t, n.reports[0].Date.IsZero())

	assert.True(t, e.Sent())
	assert.Equal(t, []bool{false, true, true}, r.sent, "layout shows the sent label after the first share")
}

type gatedNotifier struct {
	release chan struct{}
}

func (g *gatedNotifier) Dispatch(notify.Report) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		defer close(done)
		<-g.release
		done <- true
	}()
	return done
}

func TestExport_WaitNotified(t *testing.T) {
	g := &gatedNotifier{release: make(chan struct{})}
	e, _, _ := newTestExporter(t, WithSharer(&fakeSharer{available: true}), WithNotifier(g))

	assert.False(t, e.WaitNotified(context.Background()), "nothing dispatched before a share")

	_, err := e.ExportAndShare(context.Background(), sampleReport(), ModeShare)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.False(t, e.WaitNotified(ctx), "webhook still in flight")

	close(g.release)
	assert.True(t, e.WaitNotified(context.Background()))
	assert.True(t, e.WaitNotified(context.Background()), "outcome is remembered")
}

func TestExport_DownloadModeIsLocalOnly(t *testing.T) {
	sharer := &fakeSharer{available: true}
	opener := &recordingOpener{}
	n := &fakeNotifier{}
	e, _, dir := newTestExporter(t, WithSharer(sharer), WithOpener(opener.open), WithNotifier(n))

	out, err := e.ExportAndShare(context.Background(), sampleReport(), ModeDownload)
	require.NoError(t, err)
	assert.Equal(t, ChannelDownload, out.Channel)
	assert.Equal(t, []string{"Rosa_Menta_Ana_Maria_Souza.pdf"}, dirEntries(t, dir))
	assert.Empty(t, sharer.docs)
	assert.Empty(t, opener.urls)
	assert.Empty(t, n.reports)
	assert.False(t, e.Sent())
}

func TestExport_RenderFailure(t *testing.T) {
	n := &fakeNotifier{}
	e, r, dir := newTestExporter(t, WithNotifier(n), WithOpener((&recordingOpener{}).open))
	r.err = errors.New("chrome crashed")

	_, err := e.ExportAndShare(context.Background(), sampleReport(), ModeShare)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExport))

	var exErr *ExportError
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, "render", exErr.Op)
	assert.Contains(t, err.Error(), CodeExportFailure)

	assert.Empty(t, dirEntries(t, dir), "no partial file")
	assert.Empty(t, n.reports)
	assert.False(t, e.Sent())
}

func TestExport_NativeShareFailureDoesNotMarkSent(t *testing.T) {
	n := &fakeNotifier{}
	sharer := &fakeSharer{available: true, err: errors.New("chat not found")}
	e, _, _ := newTestExporter(t, WithSharer(sharer), WithNotifier(n))

	_, err := e.ExportAndShare(context.Background(), sampleReport(), ModeShare)
	assert.True(t, errors.Is(err, ErrExport))
	assert.Empty(t, n.reports)
	assert.False(t, e.Sent())
}

func TestTelegramSharer_RequiresToken(t *testing.T) {
	_, err := NewTelegramSharer("", 42)
	assert.Error(t, err)

	var nilSharer *TelegramSharer
	assert.False(t, nilSharer.CanShare())
}
