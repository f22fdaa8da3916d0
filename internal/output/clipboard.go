package output

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/rgehrsitz/portasim/internal/offer"
)

// Clipboard receives the shareable offer text
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available on this system")
	}
	return clipboard.WriteAll(text)
}

// CopyOffer renders the offer text and writes it to clip. It returns the
// copied text.
func CopyOffer(clip Clipboard, summary offer.Summary) (string, error) {
	text, err := offer.Text(summary)
	if err != nil {
		return "", err
	}
	if err := clip.WriteAll(text); err != nil {
		return "", fmt.Errorf("failed to copy offer: %w", err)
	}
	return text, nil
}
