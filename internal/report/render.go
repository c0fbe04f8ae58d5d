package report

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// Renderer rasterises a report.
type Renderer interface {
	Render(ctx context.Context, r Report, sent bool) (Snapshot, error)
}

// RodConfig configures the headless Chrome renderer.
type RodConfig struct {
	// ChromeBin is the browser executable. Empty lets the launcher find or
	// download one.
	ChromeBin string
	Headless  bool
	// ImageTimeout bounds the wait for the mood-board image.
	ImageTimeout time.Duration
}

// DefaultRodConfig returns the renderer defaults.
func DefaultRodConfig() RodConfig {
	return RodConfig{Headless: true, ImageTimeout: 20 * time.Second}
}

const (
	viewportWidth  = 960
	viewportHeight = 1280
	scaleFactor    = 2
)

const (
	waitImagesJS = `() => Promise.all(Array.from(document.images).map(img =>
	img.complete ? true : new Promise(resolve => { img.addEventListener('load', resolve); img.addEventListener('error', resolve); })))`
	hideJS = `(cls) => document.querySelectorAll('.' + cls).forEach(el => { el.style.display = 'none'; })`
)

// RodRenderer renders the HTML layout in headless Chrome and captures the
// report container at twice the CSS resolution.
type RodRenderer struct {
	cfg    RodConfig
	logger zerolog.Logger
}

// NewRodRenderer creates a renderer. Chrome is started per render.
func NewRodRenderer(cfg RodConfig, logger zerolog.Logger) *RodRenderer {
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = DefaultRodConfig().ImageTimeout
	}
	return &RodRenderer{cfg: cfg, logger: logger.With().Str("component", "renderer").Logger()}
}

func (r *RodRenderer) Render(ctx context.Context, rep Report, sent bool) (Snapshot, error) {
	html, err := RenderHTML(rep, sent)
	if err != nil {
		return Snapshot{}, err
	}

	l := launcher.New().Headless(r.cfg.Headless)
	if r.cfg.ChromeBin != "" {
		l = l.Bin(r.cfg.ChromeBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return Snapshot{}, fmt.Errorf("launch chrome: %w", err)
	}
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return Snapshot{}, fmt.Errorf("connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return Snapshot{}, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: scaleFactor,
	}); err != nil {
		return Snapshot{}, fmt.Errorf("set viewport: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return Snapshot{}, fmt.Errorf("load report: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return Snapshot{}, fmt.Errorf("wait load: %w", err)
	}
	if _, err := page.Timeout(r.cfg.ImageTimeout).Eval(waitImagesJS); err != nil {
		// A missing image shows the fallback card; capture anyway.
		r.logger.Warn().Err(err).Str("image_url", rep.Result.ImageURL).Msg("timed out waiting for images")
	}
	if _, err := page.Eval(hideJS, HiddenClass); err != nil {
		return Snapshot{}, fmt.Errorf("hide controls: %w", err)
	}

	el, err := page.Element(ContainerSelector)
	if err != nil {
		return Snapshot{}, fmt.Errorf("find %s: %w", ContainerSelector, err)
	}
	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return Snapshot{}, fmt.Errorf("capture %s: %w", ContainerSelector, err)
	}

	snap, err := NewSnapshot(data)
	if err != nil {
		return Snapshot{}, err
	}
	r.logger.Debug().Int("width", snap.Width).Int("height", snap.Height).Msg("report rendered")
	return snap, nil
}
