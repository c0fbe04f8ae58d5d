package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/pkg/browser"
)

// Document is a finished PDF ready for delivery.
type Document struct {
	FileName string
	Title    string
	Caption  string
	Data     []byte
}

// NativeSharer sends a document through a channel that accepts files.
type NativeSharer interface {
	CanShare() bool
	Share(ctx context.Context, doc Document) error
}

// TelegramSharer delivers reports to a Telegram chat through a bot.
type TelegramSharer struct {
	bot    *bot.Bot
	chatID int64
}

// NewTelegramSharer creates a sharer for chatID. Extra options are passed
// to the bot client.
func NewTelegramSharer(token string, chatID int64, opts ...bot.Option) (*TelegramSharer, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	b, err := bot.New(token, append([]bot.Option{bot.WithSkipGetMe()}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramSharer{bot: b, chatID: chatID}, nil
}

func (s *TelegramSharer) CanShare() bool {
	return s != nil && s.bot != nil && s.chatID != 0
}

func (s *TelegramSharer) Share(ctx context.Context, doc Document) error {
	caption := doc.Caption
	if doc.Title != "" {
		caption = doc.Title + "\n\n" + caption
	}
	_, err := s.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: s.chatID,
		Document: &models.InputFileUpload{
			Filename: doc.FileName,
			Data:     bytes.NewReader(doc.Data),
		},
		Caption: caption,
	})
	if err != nil {
		return fmt.Errorf("telegram send document: %w", err)
	}
	return nil
}

// LinkOpener opens a URL for the user.
type LinkOpener func(url string) error

// OpenInBrowser opens url with the system browser, keeping the browser's
// own output off the terminal.
func OpenInBrowser(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(url)
}
