package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/notify"
)

// DefaultWhatsAppPhone is the studio number the deep link opens a chat with.
const DefaultWhatsAppPhone = "5521979386051"

// AttachInstruction is shown after the deep-link fallback saved the PDF.
const AttachInstruction = "O PDF foi baixado. Você pode anexá-lo agora na conversa do WhatsApp que abrimos!"

// Notifier dispatches the completed-quiz webhook without blocking.
type Notifier interface {
	Dispatch(r notify.Report) <-chan bool
}

// Config holds exporter settings.
type Config struct {
	ExportDir     string
	WhatsAppPhone string
}

// Exporter renders reports to PDF and delivers them. One Exporter serves one
// result screen: the webhook fires on its first successful share only.
type Exporter struct {
	cfg      Config
	renderer Renderer
	sharer   NativeSharer
	open     LinkOpener
	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time

	once     sync.Once
	sent     atomic.Bool
	mu        sync.Mutex
	notified  <-chan bool
	delivered *bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithSharer sets the native document channel.
func WithSharer(s NativeSharer) Option { return func(e *Exporter) { e.sharer = s } }

// WithOpener replaces the browser opener used for the deep link.
func WithOpener(open LinkOpener) Option { return func(e *Exporter) { e.open = open } }

// WithNotifier sets the webhook notifier.
func WithNotifier(n Notifier) Option { return func(e *Exporter) { e.notifier = n } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Exporter) { e.logger = l.With().Str("component", "report").Logger() }
}

// NewExporter creates an Exporter.
func NewExporter(renderer Renderer, cfg Config, opts ...Option) *Exporter {
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if cfg.WhatsAppPhone == "" {
		cfg.WhatsAppPhone = DefaultWhatsAppPhone
	}
	e := &Exporter{
		cfg:      cfg,
		renderer: renderer,
		open:     OpenInBrowser,
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sent reports whether a share has succeeded on this exporter.
func (e *Exporter) Sent() bool { return e.sent.Load() }

// ExportAndShare renders r to a PDF and delivers it according to mode.
func (e *Exporter) ExportAndShare(ctx context.Context, r Report, mode Mode) (Outcome, error) {
	snap, err := e.renderer.Render(ctx, r, e.Sent())
	if err != nil {
		return Outcome{}, exportErr("render", err)
	}
	pdf, err := BuildDocument(snap, ShareTitle)
	if err != nil {
		return Outcome{}, exportErr("document", err)
	}

	if mode == ModeDownload {
		path, err := e.save(FileName(r.UserName), pdf)
		if err != nil {
			return Outcome{}, exportErr("save", err)
		}
		e.logger.Info().Str("path", path).Msg("report downloaded")
		return Outcome{Channel: ChannelDownload, Path: path}, nil
	}

	out, err := e.share(ctx, r, pdf)
	if err != nil {
		return Outcome{}, err
	}
	e.markSent(r)
	return out, nil
}

func (e *Exporter) share(ctx context.Context, r Report, pdf []byte) (Outcome, error) {
	if e.sharer != nil && e.sharer.CanShare() {
		doc := Document{
			FileName: ShareFileName(r.UserName),
			Title:    ShareTitle,
			Caption:  ShareCaption(r),
			Data:     pdf,
		}
		if err := e.sharer.Share(ctx, doc); err != nil {
			return Outcome{}, exportErr("share", err)
		}
		e.logger.Info().Str("file", doc.FileName).Msg("report shared natively")
		return Outcome{Channel: ChannelNative}, nil
	}

	link := DeepLink(e.cfg.WhatsAppPhone, r)
	if err := e.open(link); err != nil {
		e.logger.Warn().Err(err).Msg("could not open deep link")
	}
	path, err := e.save(FileName(r.UserName), pdf)
	if err != nil {
		return Outcome{}, exportErr("save", err)
	}
	e.logger.Info().Str("path", path).Msg("report saved for manual attachment")
	return Outcome{
		Channel:  ChannelDeepLink,
		Path:     path,
		DeepLink: link,
		Message:  AttachInstruction,
	}, nil
}

func (e *Exporter) markSent(r Report) {
	e.once.Do(func() {
		e.sent.Store(true)
		if e.notifier == nil {
			return
		}
		done := e.notifier.Dispatch(notify.Report{
			UserName: r.UserName,
			Result:   r.Result,
			Answers:  r.Answers,
			Date:     e.now(),
		})
		e.mu.Lock()
		e.notified = done
		e.mu.Unlock()
	})
}

// WaitNotified blocks until the webhook dispatched by the first share has
// finished or ctx is done. It reports whether the webhook was delivered.
// Short-lived callers use it so the process does not exit mid-request.
func (e *Exporter) WaitNotified(ctx context.Context) bool {
	e.mu.Lock()
	done, delivered := e.notified, e.delivered
	e.mu.Unlock()
	if delivered != nil {
		return *delivered
	}
	if done == nil {
		return false
	}
	select {
	case ok := <-done:
		e.mu.Lock()
		e.delivered = &ok
		e.mu.Unlock()
		return ok
	case <-ctx.Done():
		return false
	}
}

// save writes data to name inside the export directory through a temporary
// file, so a failed write never leaves a partial PDF behind.
func (e *Exporter) save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.cfg.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	tmp, err := os.CreateTemp(e.cfg.ExportDir, ".rosamenta-*.pdf.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close pdf: %w", err)
	}
	path := filepath.Join(e.cfg.ExportDir, name)
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename pdf: %w", err)
	}
	return path, nil
}
