package blocklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	defaultHTTPTimeout  = 20 * time.Second
	defaultMaxBodyBytes = 64 << 20
)

var errBodyTooLarge = errors.New("response body exceeds size limit")

// Fetcher retrieves the raw text of a source.
type Fetcher interface {
	Fetch(ctx context.Context, source Source) FetchResult
}

// FetchOptions configures an HTTPFetcher. Zero values select the defaults.
type FetchOptions struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	// Fs serves sources given as local paths or file:// URIs.
	Fs afero.Fs
}

// HTTPFetcher downloads http(s) sources and reads everything else from the filesystem.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	fs           afero.Fs
	log          *slog.Logger
}

// NewHTTPFetcher creates an HTTPFetcher.
func NewHTTPFetcher(opts FetchOptions, log *slog.Logger) *HTTPFetcher {
	if log == nil {
		log = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &HTTPFetcher{
		client:       &http.Client{Timeout: timeout},
		userAgent:    opts.UserAgent,
		maxBodyBytes: maxBody,
		fs:           fs,
		log:          log,
	}
}

// Fetch retrieves one source. It never retries.
func (f *HTTPFetcher) Fetch(ctx context.Context, source Source) FetchResult {
	var (
		data []byte
		err  error
	)
	if isURL(source.Location) {
		data, err = f.download(ctx, source)
	} else {
		data, err = f.readFile(source)
	}
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = &FetchError{Source: source, Err: err}
		}
		return FetchResult{Source: source, Err: fetchErr}
	}
	return FetchResult{Source: source, Content: data}
}

func (f *HTTPFetcher) download(ctx context.Context, source Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.Location, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.log.Warn("failed to close blocklist response body", "source", source.Location, "error", err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	return f.readLimited(resp.Body)
}

func (f *HTTPFetcher) readFile(source Source) ([]byte, error) {
	file, err := f.fs.Open(strings.TrimPrefix(source.Location, "file://"))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			f.log.Warn("failed to close blocklist file", "source", source.Location, "error", err)
		}
	}()
	return f.readLimited(file)
}

func (f *HTTPFetcher) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, f.maxBodyBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > f.maxBodyBytes {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
