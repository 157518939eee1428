package respcache

import (
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	log "github.com/sirupsen/logrus"
)

// DefaultTTL is how long a response stays fresh before revalidation.
// Fork listings move slowly; a day keeps repeat runs off the API.
const DefaultTTL = 24 * time.Hour

// freshnessTransport rewrites response caching headers so the cache
// layer above it treats every successful API response as fresh for a
// fixed window, regardless of what the server asked for.
//
// The Vary header is dropped on purpose: the API varies on
// Authorization, and keeping it would write the bearer token into the
// cache database alongside each response.
type freshnessTransport struct {
	base http.RoundTripper
	ttl  time.Duration
}

// freshenStatuses are the response codes worth pinning in the cache.
// Everything else keeps the server's own cache headers.
var freshenStatuses = map[int]bool{
	http.StatusOK:                   true,
	http.StatusNonAuthoritativeInfo: true,
	http.StatusMultipleChoices:      true,
	http.StatusMovedPermanently:     true,
	http.StatusNotModified:          true,
	http.StatusPermanentRedirect:    true,
}

func (t *freshnessTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// 304 included: the cache merges revalidation headers back into the
	// stored entry, which restarts its freshness window.
	if req.Method == http.MethodGet && freshenStatuses[resp.StatusCode] {
		freshen(resp.Header, t.ttl)
	}

	return resp, nil
}

func freshen(h http.Header, ttl time.Duration) {
	date := time.Now().UTC()
	if d, err := http.ParseTime(h.Get("Date")); err == nil {
		date = d
	}

	h.Set("Cache-Control", "public")
	h.Set("Expires", date.Add(ttl).UTC().Format(http.TimeFormat))
	h.Del("Vary")
}

// NewTransport builds the caching round tripper: an RFC 7234 cache
// backed by the store, fed by the freshness rewrite, over base.
func NewTransport(store *Store, ttl time.Duration, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	cache := httpcache.NewTransport(store)
	cache.Transport = &loggingTransport{base: &freshnessTransport{base: base, ttl: ttl}}

	return cache
}

// loggingTransport records requests that reached the network, so with
// --verbose the difference between cached and fetched calls is visible.
type loggingTransport struct {
	base http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		log.WithError(err).WithField("url", req.URL.String()).Debug("request failed")

		return nil, err
	}

	log.WithFields(log.Fields{
		"url":    req.URL.String(),
		"status": resp.StatusCode,
	}).Debug("fetched from API")

	return resp, nil
}
