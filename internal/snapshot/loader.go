// internal/snapshot/loader.go
package snapshot

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/webp"
)

// maxImageBytes bounds a single fetched image.
const maxImageBytes = 10 << 20

var ErrUnsupportedURL = errors.New("unsupported image url")

// URLLoader loads images from data URLs, http(s) URLs, paths relative to
// BaseURL, or local files when BaseURL is empty.
type URLLoader struct {
	Client  *http.Client
	BaseURL string
}

func NewURLLoader(baseURL string) *URLLoader {
	return &URLLoader{
		Client:  &http.Client{Timeout: 15 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (l *URLLoader) Load(ctx context.Context, rawURL string) (image.Image, error) {
	switch {
	case strings.HasPrefix(rawURL, "data:"):
		return decodeDataURL(rawURL)
	case strings.HasPrefix(rawURL, "http://"), strings.HasPrefix(rawURL, "https://"):
		return l.fetch(ctx, rawURL)
	case l.BaseURL != "":
		ref, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
		}
		base, err := url.Parse(l.BaseURL + "/")
		if err != nil {
			return nil, err
		}
		return l.fetch(ctx, base.ResolveReference(ref).String())
	case rawURL != "":
		return decodeFile(rawURL)
	default:
		return nil, ErrUnsupportedURL
	}
}

func (l *URLLoader) fetch(ctx context.Context, imageURL string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}

	res, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", imageURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %s", imageURL, res.Status)
	}

	img, _, err := image.Decode(io.LimitReader(res.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", imageURL, err)
	}
	return img, nil
}

func decodeDataURL(dataURL string) (image.Image, error) {
	comma := strings.IndexByte(dataURL, ',')
	if comma < 0 || !strings.HasSuffix(dataURL[:comma], ";base64") {
		return nil, fmt.Errorf("%w: malformed data url", ErrUnsupportedURL)
	}
	raw, err := base64.StdEncoding.DecodeString(dataURL[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("failed to decode data url: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}
