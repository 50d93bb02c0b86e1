package qrcode

import (
	"fmt"
	"net/url"
	"strings"

	qr "github.com/skip2/go-qrcode"

	"github.com/mcoot/yahtzee-go/internal/model"
)

// DefaultSize is the edge length in pixels of generated images
const DefaultSize = 256

// Generate creates a QR code PNG image for the given content
func Generate(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	return qr.Encode(content, qr.Medium, size)
}

// GameURL builds the link a spectator follows to watch a game. When no
// public URL is configured the request host is used.
func GameURL(publicURL, requestHost string, gameID model.GameID) string {
	base := strings.TrimRight(publicURL, "/")
	if base == "" {
		base = "http://" + requestHost
	}
	return fmt.Sprintf("%s/api/v1/games/%s", base, url.PathEscape(string(gameID)))
}
