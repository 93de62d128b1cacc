package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"majordomo/internal/tools"
)

// Link is one hyperlink extracted from a fetched page.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Page is the parsed content of one fetched URL.
type Page struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Links     []Link    `json:"links"`
	FetchedAt time.Time `json:"fetched_at"`
}

const fetcherUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// Fetcher retrieves and parses web pages with an on-disk response
// cache so repeated lookups within the TTL stay local.
type Fetcher struct {
	httpClient *http.Client
	cacheDir   string
	cacheTTL   time.Duration
}

// NewFetcher creates a fetcher caching under cacheDir. An empty
// cacheDir disables caching.
func NewFetcher(cacheDir string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheDir:   cacheDir,
		cacheTTL:   time.Hour,
	}
}

func (f *Fetcher) cachePath(rawURL string) string {
	safe := make([]rune, 0, len(rawURL))
	for _, r := range rawURL {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			safe = append(safe, r)
		} else {
			safe = append(safe, '_')
		}
	}
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return filepath.Join(f.cacheDir, string(safe)+".json")
}

func (f *Fetcher) cached(rawURL string) (*Page, bool) {
	if f.cacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(f.cachePath(rawURL))
	if err != nil {
		return nil, false
	}
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false
	}
	if time.Since(page.FetchedAt) > f.cacheTTL {
		return nil, false
	}
	return &page, true
}

func (f *Fetcher) cache(page *Page) {
	if f.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	// Best effort; a failed cache write is not a fetch failure.
	_ = os.WriteFile(f.cachePath(page.URL), data, 0o644)
}

// Fetch retrieves one URL and extracts its title, text, and links.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if page, ok := f.cached(rawURL); ok {
		return page, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", fetcherUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}

	page, err := parsePage(rawURL, body)
	if err != nil {
		return nil, err
	}
	page.FetchedAt = time.Now().UTC()
	f.cache(page)
	return page, nil
}

// FetchAll retrieves several URLs concurrently, preserving input order.
// The first failure cancels the remaining fetches.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([]*Page, error) {
	pages := make([]*Page, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, u := range urls {
		g.Go(func() error {
			page, err := f.Fetch(ctx, u)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// parsePage walks the HTML tree collecting the title, visible text, and
// resolved links.
func parsePage(rawURL string, body []byte) (*Page, error) {
	root, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %s: %w", rawURL, err)
	}

	page := &Page{URL: rawURL}
	var text strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		case n.Type == html.ElementNode && n.Data == "title":
			if n.FirstChild != nil && page.Title == "" {
				page.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case n.Type == html.ElementNode && n.Data == "a":
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href, err := base.Parse(attr.Val)
				if err != nil {
					continue
				}
				page.Links = append(page.Links, Link{
					Text: strings.TrimSpace(nodeText(n)),
					Href: href.String(),
				})
			}
		case n.Type == html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				text.WriteString(t)
				text.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	page.Text = strings.TrimSpace(text.String())
	return page, nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

const searchSnippetLimit = 2000

// NewSearchTool builds the web tool over a fetcher.
func NewSearchTool(fetcher *Fetcher) *tools.Tool {
	return &tools.Tool{
		Name:        "search_tool",
		Description: "Fetches webpages and extracts their content",
		Schema: tools.Schema{
			Properties: map[string]tools.Property{
				"url":   {Type: "string", Description: "URL to fetch"},
				"input": {Type: "string", Description: "Free text; the first URL in it is fetched"},
			},
		},
		Execute: func(ctx context.Context, params map[string]any) (string, error) {
			target := stringParam(params, "url")
			if target == "" {
				target = urlPattern.FindString(stringParam(params, "input"))
			}
			if target == "" {
				return "What URL would you like me to look up? Please paste a full address (https://...).", nil
			}

			page, err := fetcher.Fetch(ctx, target)
			if err != nil {
				return "", err
			}

			snippet := page.Text
			if len(snippet) > searchSnippetLimit {
				snippet = snippet[:searchSnippetLimit] + "…"
			}

			var b strings.Builder
			if page.Title != "" {
				fmt.Fprintf(&b, "%s\n\n", page.Title)
			}
			b.WriteString(snippet)
			if n := len(page.Links); n > 0 {
				fmt.Fprintf(&b, "\n\n(%d links on page)", n)
			}
			return b.String(), nil
		},
	}
}
