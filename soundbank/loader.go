package soundbank

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultMaxDocSize   = 4 << 20
)

// StatusError reports a non-2xx HTTP response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP[%s]", e.Status)
}

var errDocTooLarge = errors.New("document exceeds size limit")

// Loader fetches and parses sound bank documents from HTTP(S) URLs or local paths
type Loader struct {
	client  *http.Client
	maxSize int64
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithMaxSize caps the document size in bytes
func WithMaxSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// NewLoader creates a loader with a bounded HTTP client
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:  &http.Client{Timeout: defaultFetchTimeout},
		maxSize: defaultMaxDocSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fetch retrieves and parses the document at source
// Transport failures return AudiosNoFetched with the cause attached;
// decode failures return InvalidAudiosJSON
func (l *Loader) Fetch(ctx context.Context, source string) (*Document, error) {
	if source == "" {
		return nil, newError(KindInvalidSource, "")
	}

	data, contentType, err := l.read(ctx, source)
	if err != nil {
		log.Debug().Str("source", source).Err(err).Msg("sound bank fetch failed")
		return nil, wrapError(KindAudiosNoFetched, err)
	}
	return Parse(data, FormatFor(source, contentType))
}

func (l *Loader) read(ctx context.Context, source string) ([]byte, string, error) {
	u, err := url.Parse(source)
	if err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l.readHTTP(ctx, source)
		case "file":
			return l.readFile(u.Path)
		}
	}
	return l.readFile(source)
}

func (l *Loader) readHTTP(ctx context.Context, source string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func (l *Loader) readFile(name string) ([]byte, string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := l.readLimited(f)
	return data, "", err
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxSize {
		return nil, errDocTooLarge
	}
	return data, nil
}
