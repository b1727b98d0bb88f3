package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clausegrade/internal/domain"
)

var filler = strings.Repeat("These terms govern your use of the store and every purchase you make. ", 5)

func page(body string) string {
	return `<html><head><title>Policy</title><style>p{color:red}</style>
<script>var arbitration = "binding arbitration";</script></head>
<body><nav>Home | Shop | Binding arbitration FAQ</nav>
<main><h1>Policy</h1><p>` + body + `</p><p>` + filler + `</p></main>
<footer>&copy; 2026 Example &amp; Co</footer></body></html>`
}

func TestExtractTextSkipsChrome(t *testing.T) {
	text := ExtractText(strings.NewReader(page("Returns accepted within 30 days &amp; refunds are issued.")))

	assert.Contains(t, text, "Returns accepted within 30 days & refunds are issued.")
	assert.NotContains(t, text, "var arbitration")
	assert.NotContains(t, text, "FAQ")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "2026 Example")
	lines := strings.Split(text, "\n")
	assert.Equal(t, "Policy", lines[0])
	assert.Contains(t, lines[1], "Returns accepted")
}

func TestFetchPolicies(t *testing.T) {
	var flaky atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/policies/refund-policy", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/returns", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page("All sales are final.")))
	})
	mux.HandleFunc("/policies/terms-of-service", func(w http.ResponseWriter, r *http.Request) {
		if flaky.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Any dispute will be resolved by binding arbitration. " + filler))
	})
	mux.HandleFunc("/privacy", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>too short</p>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := New(2*time.Second, nil, WithBackoff(time.Millisecond))
	res, err := f.FetchPolicies(context.Background(), srv.URL+"/products/shoe?ref=x")
	require.NoError(t, err)

	assert.Equal(t, 4, res.Attempted)
	require.Len(t, res.Documents, 2)

	ret := res.Documents[0]
	assert.Equal(t, domain.SourceReturnPolicy, ret.Source)
	assert.Equal(t, domain.ProvenanceFetched, ret.Provenance)
	assert.Equal(t, srv.URL+"/returns", ret.URL)
	assert.Contains(t, ret.Text, "All sales are final.")

	tos := res.Documents[1]
	assert.Equal(t, domain.SourceTerms, tos.Source)
	assert.Contains(t, tos.Text, "binding arbitration")
	assert.Equal(t, int32(2), flaky.Load(), "one retry after a 503")
}

func TestFetchPoliciesNothingFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	res, err := New(time.Second, nil).FetchPolicies(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Attempted)
	assert.Empty(t, res.Documents)
}

func TestFetchPoliciesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	res, err := New(100*time.Millisecond, nil).FetchPolicies(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, res.Documents)
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
}

func TestFetchPoliciesRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "example.com/returns", "ftp://example.com", "https://"} {
		_, err := New(time.Second, nil).FetchPolicies(context.Background(), u)
		assert.ErrorIs(t, err, ErrInvalidURL, u)
	}
}

func TestSubjectFor(t *testing.T) {
	s, err := SubjectFor("https://Shop.Example.co.uk/returns")
	require.NoError(t, err)
	assert.Equal(t, "example.co.uk", s.SellerDomain)
	assert.Equal(t, "https://Shop.Example.co.uk/returns", s.URL)

	s, err = SubjectFor("http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "localhost", s.SellerDomain)

	_, err = SubjectFor("not a url")
	assert.ErrorIs(t, err, ErrInvalidURL)
}
