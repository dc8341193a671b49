package scraper

import (
	"fmt"
	"time"

	"cine-lens/logging"

	"github.com/gocolly/colly"
)

// DefaultTimeout bounds a single fetch.
const DefaultTimeout = 5 * time.Second

// FetcherInterface retrieves the body of a URL.
type FetcherInterface interface {
	Fetch(url string) ([]byte, error)
}

// Fetcher issues one GET per call through a fresh colly collector. It never
// retries; a non-2xx status or a timeout is returned as an error.
type Fetcher struct {
	timeout   time.Duration
	userAgent string
}

func (f *Fetcher) Fetch(url string) ([]byte, error) {
	c := colly.NewCollector(colly.AllowURLRevisit())
	c.SetRequestTimeout(f.timeout)
	if f.userAgent != "" {
		c.UserAgent = f.userAgent
	}

	var (
		body     []byte
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		logging.Debug().Str("host", r.URL.Host).Msg("Visiting")
	})

	c.OnResponse(func(r *colly.Response) {
		logging.Debug().Int("status", r.StatusCode).Msg("Response received")
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("unexpected status %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	return body, nil
}

// NewFetcher returns a fetcher with the given timeout. A non-positive timeout uses
// DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{timeout: timeout, userAgent: "cine-lens"}
}
