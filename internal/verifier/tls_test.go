package verifier

import (
	"context"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"govcheck/pkg/domain"

	"github.com/stretchr/testify/require"
)

// urlFromServer converts an httptest server URL into a NormalizedURL the
// probe can dial.
func urlFromServer(t *testing.T, rawURL string) domain.NormalizedURL {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	return domain.NormalizedURL{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Port:   u.Port(),
		Raw:    rawURL,
	}
}

func TestOutcome_PlainHTTPNotApplicable(t *testing.T) {
	p := NewProbe(time.Second)

	out := p.Outcome(context.Background(), domain.NormalizedURL{
		Scheme: "http", Host: "gov.pl", Raw: "http://gov.pl",
	})

	require.False(t, out.OK)
	require.Equal(t, domain.TLSErrorNotApplicable, out.ErrorKind)
	require.Equal(t, domain.Unknown, out.CertOK)
	require.Nil(t, out.HTTPStatus)
}

func TestOutcome_TrustedHandshakeWithStatus(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	pool := x509.NewCertPool()
	pool.AddCert(ts.Certificate())

	p := NewProbe(2 * time.Second)
	p.rootCAs = pool

	out := p.Outcome(context.Background(), urlFromServer(t, ts.URL))

	require.True(t, out.OK)
	require.Equal(t, domain.True, out.CertOK)
	require.Equal(t, domain.TLSErrorNone, out.ErrorKind)
	require.NotNil(t, out.HTTPStatus)
	require.Equal(t, http.StatusOK, *out.HTTPStatus)
}

func TestOutcome_StatusFetchRefusesRedirectToInternalTarget(t *testing.T) {
	var hits int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer internal.Close()

	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, internal.URL, http.StatusFound)
	}))
	defer ts.Close()

	pool := x509.NewCertPool()
	pool.AddCert(ts.Certificate())

	p := NewProbe(2 * time.Second)
	p.rootCAs = pool

	out := p.Outcome(context.Background(), urlFromServer(t, ts.URL))

	require.True(t, out.OK, "the verified handshake itself succeeded")
	require.Equal(t, domain.True, out.CertOK)
	require.Nil(t, out.HTTPStatus, "a refused redirect yields no status")
	require.Zero(t, atomic.LoadInt32(&hits), "the redirect target must never be contacted")
}

func TestOutcome_UntrustedCertIsCertificateError(t *testing.T) {
	// self-signed server cert, system roots in play
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	p := NewProbe(2 * time.Second)

	out := p.Outcome(context.Background(), urlFromServer(t, ts.URL))

	require.False(t, out.OK)
	require.Equal(t, domain.TLSErrorCertificate, out.ErrorKind)
	require.Equal(t, domain.False, out.CertOK, "a reached-but-invalid certificate is a definite false")
	require.Nil(t, out.HTTPStatus)
}

func TestOutcome_ClosedPortIsNetworkError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().(*net.TCPAddr)
	require.NoError(t, l.Close())

	p := NewProbe(2 * time.Second)

	out := p.Outcome(context.Background(), domain.NormalizedURL{
		Scheme: "https",
		Host:   "127.0.0.1",
		Port:   addrPort(addr),
		Raw:    "https://127.0.0.1",
	})

	require.False(t, out.OK)
	require.Equal(t, domain.TLSErrorNetwork, out.ErrorKind)
	require.Equal(t, domain.Unknown, out.CertOK, "connectivity failure says nothing about the certificate")
}

func TestOutcome_StalledHandshakeIsTimeout(t *testing.T) {
	// accept connections but never speak TLS
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	p := NewProbe(100 * time.Millisecond)

	out := p.Outcome(context.Background(), domain.NormalizedURL{
		Scheme: "https",
		Host:   "127.0.0.1",
		Port:   addrPort(l.Addr().(*net.TCPAddr)),
		Raw:    "https://127.0.0.1",
	})

	require.False(t, out.OK)
	require.Equal(t, domain.TLSErrorTimeout, out.ErrorKind)
	require.Equal(t, domain.Unknown, out.CertOK)
}

func addrPort(addr *net.TCPAddr) string {
	_, port, _ := net.SplitHostPort(addr.String())

	return port
}
