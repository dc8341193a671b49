// Package rating looks up external ratings for catalog titles.
//
// Lookups never fail from the caller's point of view: every problem on the way to the
// rating service (network, timeout, bad payload, unknown title) collapses into
// NotFound and is only logged.
package rating

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cine-lens/logging"
	"cine-lens/scraper"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

// DefaultBaseURL is the OMDb API endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

// Record is the normalized rating data for one title, as returned by the service.
type Record struct {
	Rating  string `json:"imdb_rating"`
	Votes   string `json:"imdb_votes"`
	Runtime string `json:"runtime"`
}

// Result is the outcome of a lookup. When Found is false Record is meaningless.
type Result struct {
	Record Record `json:"record"`
	Found  bool   `json:"found"`
}

// NotFound is the result for unknown titles and for every failed lookup.
var NotFound = Result{}

// Found wraps a record as a successful result.
func Found(r Record) Result {
	return Result{Record: r, Found: true}
}

// Looker is anything that can resolve a title to a Result.
type Looker interface {
	Lookup(title string) Result
}

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client queries an OMDb-compatible service. It is safe for concurrent use and keeps
// no per-title state, so results can be cached by title.
type Client struct {
	baseURL string
	apiKey  string
	fetcher scraper.FetcherInterface
	cb      *gobreaker.CircuitBreaker[Result]
}

// omdbResponse is the subset of the OMDb payload the client reads.
type omdbResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	IMDbRating scalar `json:"imdbRating"`
	IMDbVotes  scalar `json:"imdbVotes"`
	Runtime    scalar `json:"Runtime"`
}

// scalar accepts a JSON string, number or null and keeps its text.
type scalar string

func (s *scalar) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = scalar(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = scalar(n.String())
	return nil
}

var errNotFound = errors.New("title not found")

// NewClient creates a client that fetches through a colly-backed fetcher.
func NewClient(cfg Config) *Client {
	return NewClientWithFetcher(cfg, scraper.NewFetcher(cfg.Timeout))
}

// NewClientWithFetcher creates a client using the given fetcher.
func NewClientWithFetcher(cfg Config, fetcher scraper.FetcherInterface) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if cfg.APIKey == "" {
		logging.Warn().Msg("Rating lookups have no API key configured")
	}

	cb := gobreaker.NewCircuitBreaker[Result](gobreaker.Settings{
		Name:    "rating-api",
		Timeout: time.Minute,
		// Unknown titles are answered by a healthy service.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		fetcher: fetcher,
		cb:      cb,
	}
}

// Lookup makes a single request for title and returns its rating, or NotFound.
func (c *Client) Lookup(title string) Result {
	title = strings.TrimSpace(title)
	if title == "" {
		return NotFound
	}

	res, err := c.cb.Execute(func() (Result, error) {
		return c.fetch(title)
	})
	if err != nil {
		if errors.Is(err, errNotFound) {
			logging.Debug().Str("title", title).Msg("Rating not found")
		} else {
			logging.Warn().Err(err).Str("title", title).Msg("Rating lookup failed")
		}
		return NotFound
	}
	return res
}

func (c *Client) fetch(title string) (Result, error) {
	body, err := c.fetcher.Fetch(c.requestURL(title))
	if err != nil {
		return NotFound, fmt.Errorf("failed to fetch rating: %w", err)
	}

	var resp omdbResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return NotFound, fmt.Errorf("failed to decode rating response: %w", err)
	}

	if resp.Response != "True" {
		if resp.Response == "False" {
			return NotFound, fmt.Errorf("%w: %s", errNotFound, resp.Error)
		}
		return NotFound, fmt.Errorf("unexpected response flag %q", resp.Response)
	}

	if resp.IMDbRating == "" && resp.IMDbVotes == "" && resp.Runtime == "" {
		return NotFound, errors.New("response carries no rating, votes or runtime")
	}

	return Found(Record{
		Rating:  string(resp.IMDbRating),
		Votes:   string(resp.IMDbVotes),
		Runtime: string(resp.Runtime),
	}), nil
}

func (c *Client) requestURL(title string) string {
	q := url.Values{}
	q.Set("t", title)
	q.Set("apikey", c.apiKey)

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + q.Encode()
}
