// Package fetch retrieves a seller's policy pages and reduces them to text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"

	"clausegrade/internal/domain"
	"clausegrade/internal/ports"
)

var ErrInvalidURL = errors.New("fetch: url must be absolute http or https")

// DefaultPaths are the candidate locations tried per policy category, in order.
var DefaultPaths = map[domain.PolicySource][]string{
	domain.SourceReturnPolicy: {
		"/policies/refund-policy", "/returns", "/return-policy", "/refund-policy", "/pages/returns",
	},
	domain.SourceShippingPolicy: {
		"/policies/shipping-policy", "/shipping", "/shipping-policy", "/pages/shipping",
	},
	domain.SourceTerms: {
		"/policies/terms-of-service", "/terms", "/terms-of-service", "/terms-and-conditions", "/legal/terms",
	},
	domain.SourcePrivacyPolicy: {
		"/policies/privacy-policy", "/privacy", "/privacy-policy", "/legal/privacy",
	},
}

const (
	maxBody = 2 << 20
	// MinText is the shortest extracted page accepted as a policy.
	MinText    = 200
	userAgent  = "clausegrade/1.0 (+policy risk assessment)"
	maxRetries = 2
)

type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	paths   map[domain.PolicySource][]string
	backoff time.Duration
	log     *slog.Logger
}

type Option func(*Fetcher)

func WithClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }

func WithPaths(p map[domain.PolicySource][]string) Option { return func(f *Fetcher) { f.paths = p } }

// WithBackoff sets the base delay between retries of a failed page request.
func WithBackoff(d time.Duration) Option { return func(f *Fetcher) { f.backoff = d } }

// New builds a fetcher. timeout bounds each category, including retries.
func New(timeout time.Duration, log *slog.Logger, opts ...Option) *Fetcher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	f := &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		paths:   DefaultPaths,
		backoff: 250 * time.Millisecond,
		log:     log.With("component", "fetch"),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// FetchPolicies fetches every category concurrently and waits for all of
// them. A category that cannot be obtained is logged and left out.
func (f *Fetcher) FetchPolicies(ctx context.Context, rawurl string) (ports.FetchResult, error) {
	base, err := parseBase(rawurl)
	if err != nil {
		return ports.FetchResult{}, err
	}
	order := domain.FetchedSources
	docs := make([]*domain.Document, len(order))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range order {
		paths := f.paths[src]
		if len(paths) == 0 {
			continue
		}
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, f.timeout)
			defer cancel()
			doc, err := f.category(cctx, base, src, paths)
			if err != nil {
				f.log.DebugContext(ctx, "policy not obtained", "source", src, "host", base.Host, "error", err)
				return nil
			}
			docs[i] = &doc
			return nil
		})
	}
	_ = g.Wait()

	out := ports.FetchResult{Attempted: len(order)}
	for _, d := range docs {
		if d != nil {
			out.Documents = append(out.Documents, *d)
		}
	}
	return out, nil
}

func (f *Fetcher) category(ctx context.Context, base *url.URL, src domain.PolicySource, paths []string) (domain.Document, error) {
	var last error
	for _, p := range paths {
		u := base.ResolveReference(&url.URL{Path: p}).String()
		text, err := f.page(ctx, u)
		if err == nil {
			return domain.Document{Source: src, Provenance: domain.ProvenanceFetched, URL: u, Text: text}, nil
		}
		last = err
		if ctx.Err() != nil {
			break
		}
	}
	return domain.Document{}, last
}

// page fetches one URL with a short retry on transient failures.
func (f *Fetcher) page(ctx context.Context, u string) (string, error) {
	var text string
	b := retry.WithMaxRetries(maxRetries, retry.NewExponential(f.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		t, err := f.get(ctx, u)
		if err != nil {
			var te transientError
			if errors.As(err, &te) {
				return retry.RetryableError(err)
			}
			return err
		}
		text = t
		return nil
	})
	return text, err
}

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

func (f *Fetcher) get(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9")
	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", transientError{err}
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", transientError{fmt.Errorf("fetch: %s: status %d", u, resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("fetch: %s: status %d", u, resp.StatusCode)
	}
	body := io.LimitReader(resp.Body, maxBody)
	var text string
	mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	switch mt {
	case "text/plain":
		raw, err := io.ReadAll(body)
		if err != nil {
			return "", transientError{err}
		}
		text = strings.TrimSpace(string(raw))
	case "text/html", "application/xhtml+xml", "":
		text = ExtractText(body)
	default:
		return "", fmt.Errorf("fetch: %s: unsupported content type %q", u, mt)
	}
	if len(text) < MinText {
		return "", fmt.Errorf("fetch: %s: page too short", u)
	}
	return text, nil
}

func parseBase(rawurl string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawurl))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return nil, ErrInvalidURL
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

// SubjectFor resolves the seller's registrable domain (eTLD+1) for a URL.
func SubjectFor(rawurl string) (domain.Subject, error) {
	u, err := parseBase(rawurl)
	if err != nil {
		return domain.Subject{}, err
	}
	host := strings.ToLower(u.Hostname())
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}
	return domain.Subject{SellerDomain: registrable, URL: strings.TrimSpace(rawurl)}, nil
}
