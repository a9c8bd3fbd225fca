package gallery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Preloader warms an image resource before its card is inserted, so the grid
// never shows a half-loaded image. Failures still reveal the card; the
// controller treats success and failure the same way.
type Preloader interface {
	Preload(ctx context.Context, url string) error
}

// HTTPPreloader fetches remote images over HTTP. Data URLs are already local
// and resolve immediately.
type HTTPPreloader struct {
	client *http.Client
}

func NewHTTPPreloader() *HTTPPreloader {
	return &HTTPPreloader{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *HTTPPreloader) Preload(ctx context.Context, url string) error {
	if strings.HasPrefix(url, "data:") {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("preload failed: status %d", resp.StatusCode)
	}

	// Drain so the connection is reusable and the browser cache analog warm.
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}
