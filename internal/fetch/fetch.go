// Package fetch acquires the raw source tables. All sources are fetched
// concurrently and one failure aborts the whole batch: the pipeline never
// starts on partial data.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Source names one raw table and where to get it. file:// URLs read from
// local disk, anything else goes over HTTP.
type Source struct {
	Name string
	URL  string
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// FetchAll retrieves every source concurrently, keyed by source name.
// The first error cancels the remaining fetches and fails the batch.
func (c *Client) FetchAll(ctx context.Context, sources []Source) (map[string][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	bodies := make([][]byte, len(sources))
	for i, src := range sources {
		g.Go(func() error {
			body, err := c.fetch(ctx, src.URL)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", src.Name, err)
			}
			bodies[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(sources))
	for i, src := range sources {
		out[src.Name] = bodies[i]
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	if path, ok := strings.CutPrefix(url, "file://"); ok {
		return os.ReadFile(path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
