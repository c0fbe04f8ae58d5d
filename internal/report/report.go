// Package report renders a generated design profile into a single-page PDF
// and delivers it: over a native document channel when one is configured,
// otherwise through a WhatsApp deep link plus a local copy.
package report

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
)

// Report is everything the exported document shows.
type Report struct {
	UserName string
	Result   generation.Result
	Answers  []string
}

// Mode selects what ExportAndShare does with the document.
type Mode int

const (
	// ModeShare delivers the document and notifies the webhook once.
	ModeShare Mode = iota
	// ModeDownload only saves the document locally.
	ModeDownload
)

func (m Mode) String() string {
	switch m {
	case ModeShare:
		return "share"
	case ModeDownload:
		return "download"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Channel names the branch that delivered a report.
type Channel string

const (
	ChannelNative   Channel = "native"
	ChannelDeepLink Channel = "deeplink"
	ChannelDownload Channel = "download"
)

// Outcome describes a completed export.
type Outcome struct {
	Channel  Channel
	Path     string // local file, empty for native delivery
	DeepLink string // set for the deep-link branch
	Message  string // user-facing instruction, if any
}

// Snapshot is a rasterised report. Width and Height are in device pixels,
// twice the CSS layout size.
type Snapshot struct {
	PNG    []byte
	Width  int
	Height int
}

// NewSnapshot wraps PNG bytes, reading the dimensions from the image
// header.
func NewSnapshot(data []byte) (Snapshot, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot header: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return Snapshot{}, fmt.Errorf("empty snapshot (%dx%d)", cfg.Width, cfg.Height)
	}
	return Snapshot{PNG: data, Width: cfg.Width, Height: cfg.Height}, nil
}
