package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/mindseye/internal/logging"
)

// DefaultExcerptChars is the default maximum excerpt length in characters.
const DefaultExcerptChars = 2000

// DocFetcherConfig configures a DocFetcher.
type DocFetcherConfig struct {
	Options    *Options
	UseBrowser bool
	MaxChars   int
}

// DocFetcher turns a node's doc_url into a short plain-text excerpt.
type DocFetcher struct {
	options    *Options
	useBrowser bool
	maxChars   int
	render     func(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// NewDocFetcher creates a DocFetcher. A nil config uses defaults without browser rendering.
func NewDocFetcher(config *DocFetcherConfig) *DocFetcher {
	if config == nil {
		config = &DocFetcherConfig{}
	}
	opts := config.Options
	if opts == nil {
		opts = DefaultOptions()
	}
	maxChars := config.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultExcerptChars
	}
	return &DocFetcher{
		options:    opts,
		useBrowser: config.UseBrowser,
		maxChars:   maxChars,
		render:     WithBrowser,
	}
}

// Excerpt fetches url and returns at most maxChars characters of its main text.
// When browser rendering is enabled and the plain fetch yields too little text, the
// page is rendered headlessly and re-extracted.
func (f *DocFetcher) Excerpt(ctx context.Context, url string) (string, error) {
	result, err := URL(ctx, url, f.options)
	if err != nil {
		return "", err
	}

	text, err := ExtractMainText(result.HTML, DocSelectors())
	if err != nil {
		return "", &Error{URL: url, Message: "failed to extract text", Cause: err}
	}

	if f.useBrowser && ShouldUseBrowser(text) {
		logging.FromContext(ctx).Debug("document text too short, rendering in browser",
			"url", url, "chars", len(text))
		html, err := f.render(ctx, url, f.options.Timeout)
		if err != nil {
			return "", &Error{URL: url, Message: "browser fallback failed", Cause: err}
		}
		text, err = ExtractMainText(html, DocSelectors())
		if err != nil {
			return "", &Error{URL: url, Message: "failed to extract rendered text", Cause: err}
		}
	}

	if text == "" {
		return "", &Error{URL: url, Message: "document has no readable text"}
	}

	return truncateChars(text, f.maxChars), nil
}

func truncateChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return fmt.Sprintf("%s...", string(runes[:n]))
}
