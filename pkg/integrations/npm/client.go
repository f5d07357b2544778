// Package npm fetches descriptive package metadata from the npm registry
// and layers the caches the suggestion path depends on: an in-process memo
// for repeat lookups, the durable store as a fallback when the registry is
// unreachable, and a sentinel record when neither has data.
//
// FetchDetails never returns an error. Metadata is decoration on
// suggestions; a failed lookup must degrade the detail panel, not the
// completion.
package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mvilhena/depsense/pkg/errors"
	"github.com/mvilhena/depsense/pkg/httputil"
	"github.com/mvilhena/depsense/pkg/kvstore"
	"github.com/mvilhena/depsense/pkg/observability"
)

const (
	// DefaultBaseURL is the public npm registry.
	DefaultBaseURL = "https://registry.npmjs.org"

	// DefaultTimeout bounds how long a lookup may stall the suggestion
	// path before the sentinel record is used instead.
	DefaultTimeout = 3 * time.Second

	// StorePrefix namespaces per-library records in the durable store.
	StorePrefix = "npm:"

	// SentinelVersion and SentinelDescription mark records produced
	// without registry data.
	SentinelVersion     = "unknown"
	SentinelDescription = "unavailable"
)

// Details is the descriptive metadata attached to method suggestions.
type Details struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Homepage    string `json:"homepage"`
}

// Sentinel returns the placeholder record for a library with no reachable
// metadata. The homepage is synthesized from the name so the detail panel
// always has a usable link.
func Sentinel(name string) Details {
	return Details{
		Name:        name,
		Version:     SentinelVersion,
		Description: SentinelDescription,
		Homepage:    homepageFor(name),
	}
}

// Client looks up package metadata with memoization and durable fallback.
// Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	store   kvstore.Store
	logger  *log.Logger
	timeout time.Duration

	mu   sync.RWMutex
	memo map[string]Details
}

// Options configures a Client. Zero values select the public registry,
// the default timeout, and http.DefaultClient.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *log.Logger
}

// NewClient creates a metadata client persisting fetched records to store.
func NewClient(store kvstore.Store, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    opts.HTTPClient,
		store:   store,
		logger:  opts.Logger,
		timeout: opts.Timeout,
		memo:    make(map[string]Details),
	}
}

// FetchDetails returns metadata for pkg. Lookup order: in-process memo,
// then the registry (bounded by the client timeout), then the durable
// store, then the sentinel record. Only successful registry fetches are
// memoized, so a degraded record is retried on the next request.
func (c *Client) FetchDetails(ctx context.Context, pkg string) Details {
	pkg = strings.ToLower(strings.TrimSpace(pkg))
	start := time.Now()

	c.mu.RLock()
	cached, ok := c.memo[pkg]
	c.mu.RUnlock()
	if ok {
		observability.Registry().OnLookup(ctx, pkg, observability.SourceMemo, time.Since(start))
		return cached
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	details, err := c.fetch(fetchCtx, pkg)
	if err == nil {
		c.remember(fetchCtx, pkg, details)
		observability.Registry().OnLookup(ctx, pkg, observability.SourceRegistry, time.Since(start))
		return details
	}
	c.logger.Debug("registry fetch failed", "pkg", pkg, "err", err)

	var stored Details
	// The fetch context may already be expired; durable reads use the
	// background context so a registry timeout can't also starve the
	// fallback.
	if ok, err := kvstore.GetJSON(context.Background(), c.store, StorePrefix+pkg, &stored); err == nil && ok {
		observability.Registry().OnLookup(ctx, pkg, observability.SourceDurable, time.Since(start))
		return stored
	}

	observability.Registry().OnLookup(ctx, pkg, observability.SourceSentinel, time.Since(start))
	return Sentinel(pkg)
}

// Forget drops the in-process memo. Used when the durable store is wiped
// so stale records don't outlive the data they were mirrored to.
func (c *Client) Forget() {
	c.mu.Lock()
	c.memo = make(map[string]Details)
	c.mu.Unlock()
}

// remember populates the memo and mirrors the record to durable storage.
func (c *Client) remember(ctx context.Context, pkg string, details Details) {
	c.mu.Lock()
	c.memo[pkg] = details
	c.mu.Unlock()

	if err := kvstore.SetJSON(context.Background(), c.store, StorePrefix+pkg, details, 0); err != nil {
		c.logger.Debug("persist metadata failed", "pkg", pkg, "err", err)
	}
}

// fetch performs the registry lookup with retry on transient failures.
func (c *Client) fetch(ctx context.Context, pkg string) (Details, error) {
	var data registryResponse
	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
		return c.get(ctx, c.baseURL+"/"+pkg, &data)
	})
	if err != nil {
		return Details{}, err
	}

	if data.DistTags.Latest == "" {
		return Details{}, errors.New(errors.ErrCodeMetadataFetch, "no latest version for %s", pkg)
	}

	details := Details{
		Name:        pkg,
		Version:     data.DistTags.Latest,
		Description: data.Description,
		Homepage:    data.Homepage,
	}
	if details.Description == "" {
		details.Description = SentinelDescription
	}
	if details.Homepage == "" {
		details.Homepage = homepageFor(pkg)
	}
	return details, nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", url)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "package not found")
	case code >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "status %d", code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "status %d", code)
	}
}

func homepageFor(pkg string) string {
	return fmt.Sprintf("https://www.npmjs.com/package/%s", pkg)
}

type registryResponse struct {
	Name        string   `json:"name"`
	DistTags    distTags `json:"dist-tags"`
	Description string   `json:"description"`
	Homepage    string   `json:"homepage"`
}

type distTags struct {
	Latest string `json:"latest"`
}
