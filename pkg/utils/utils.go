package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dotsetgreg/gembot/pkg/providers"
)

// SupportedImageTypes are the attachment content types forwarded to the
// model as multimodal parts. Everything else is ignored.
var SupportedImageTypes = []string{
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/gif",
}

const imageFetchTimeout = 30 * time.Second

// IsSupportedImageType reports whether contentType is on the allowlist.
func IsSupportedImageType(contentType string) bool {
	for _, t := range SupportedImageTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

// FetchImageAsBase64 downloads an image attachment and returns it as a
// base64 part for the LLM. The served Content-Type must be on the
// allowlist.
func FetchImageAsBase64(ctx context.Context, httpClient *http.Client, url string) (providers.ImagePart, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: imageFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return providers.ImagePart{}, fmt.Errorf("create image request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return providers.ImagePart{}, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providers.ImagePart{}, fmt.Errorf("fetch image: HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !IsSupportedImageType(contentType) {
		return providers.ImagePart{}, fmt.Errorf("unsupported image type %q", contentType)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.ImagePart{}, fmt.Errorf("read image body: %w", err)
	}

	return providers.ImagePart{
		MIMEType: contentType,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// Truncate shortens s for log output.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
