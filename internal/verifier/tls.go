package verifier

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"time"

	"govcheck/pkg/domain"
)

// Probe performs real TLS handshakes against normalized URLs and classifies
// the outcome. It holds no state between calls and is safe for concurrent use.
type Probe struct {
	timeout time.Duration
	// rootCAs overrides the system trust store, used by tests. nil means
	// system roots.
	rootCAs *x509.CertPool
}

// NewProbe constructs a Probe whose handshakes and follow-up requests are
// bounded by timeout.
func NewProbe(timeout time.Duration) *Probe {
	return &Probe{timeout: timeout}
}

// dialAddr returns the host:port to dial, defaulting to 443.
func dialAddr(u domain.NormalizedURL) string {
	port := u.Port
	if port == "" {
		port = "443"
	}

	return net.JoinHostPort(u.Host, port)
}

// handshake opens a verified TLS connection to the URL's host and returns the
// resulting connection state. The connection is closed before returning; only
// the negotiated state is of interest.
func (p *Probe) handshake(ctx context.Context, u domain.NormalizedURL, verify bool) (tls.ConnectionState, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.timeout},
		Config: &tls.Config{
			ServerName:         u.Host,
			RootCAs:            p.rootCAs,
			InsecureSkipVerify: !verify, //nolint: gosec // facts-only handshake for metadata extraction
			MinVersion:         tls.VersionTLS12,
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", dialAddr(u))
	if err != nil {
		return tls.ConnectionState{}, err
	}
	state := conn.(*tls.Conn).ConnectionState()
	_ = conn.Close()

	return state, nil
}

// classifyDialError maps a handshake failure to a TLSErrorKind. Certificate
// failures must stay distinguishable from connectivity failures.
func classifyDialError(err error) domain.TLSErrorKind {
	var (
		certVerify *tls.CertificateVerificationError
		hostname   x509.HostnameError
		invalid    x509.CertificateInvalidError
		unknownCA  x509.UnknownAuthorityError
	)
	if errors.As(err, &certVerify) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid) ||
		errors.As(err, &unknownCA) {
		return domain.TLSErrorCertificate
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.TLSErrorTimeout
	}

	return domain.TLSErrorNetwork
}

// Outcome probes the URL's TLS endpoint and classifies the result. Plain
// http URLs are not probed and report NOT_APPLICABLE. Verification is always
// on; a failed handshake terminates the attempt without any insecure retry.
func (p *Probe) Outcome(ctx context.Context, u domain.NormalizedURL) domain.TLSOutcome {
	if !u.IsHTTPS() {
		return domain.TLSOutcome{
			OK:        false,
			CertOK:    domain.Unknown,
			ErrorKind: domain.TLSErrorNotApplicable,
		}
	}

	if _, err := p.handshake(ctx, u, true); err != nil {
		kind := classifyDialError(err)
		certOK := domain.Unknown
		if kind == domain.TLSErrorCertificate {
			certOK = domain.False
		}

		return domain.TLSOutcome{OK: false, CertOK: certOK, ErrorKind: kind}
	}

	out := domain.TLSOutcome{OK: true, CertOK: domain.True, ErrorKind: domain.TLSErrorNone}
	if status, ok := p.fetchStatus(ctx, u); ok {
		out.HTTPStatus = &status
	}

	return out
}

// fetchStatus issues a best-effort GET after a successful handshake to
// capture the HTTP status code. Failures here do not change the TLS verdict.
func (p *Probe) fetchStatus(ctx context.Context, u domain.NormalizedURL) (int, bool) {
	client := &http.Client{
		Timeout: p.timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				RootCAs:    p.rootCAs,
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: checkRedirect,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Raw, nil)
	if err != nil {
		return 0, false
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, false
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	return resp.StatusCode, true
}

// checkRedirect holds the follow-up GET to the same rules the normalized
// target already passed: no IP-literal hops, no hosts resolving to internal
// ranges, at most five hops. The host screening ran before the handshake; a
// redirect must not smuggle the request past it.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 5 {
		return errors.New("stopped after 5 redirects")
	}

	host := req.URL.Hostname()
	if _, err := netip.ParseAddr(host); err == nil {
		return fmt.Errorf("redirect to IP address %q is not allowed", host)
	}

	addrs, err := net.DefaultResolver.LookupNetIP(req.Context(), "ip", host)
	if err != nil || len(addrs) == 0 {
		return fmt.Errorf("could not resolve redirect host %q", host)
	}
	for _, addr := range addrs {
		if isInternal(addr.Unmap()) {
			return fmt.Errorf("redirect host %q resolves to a disallowed address", host)
		}
	}

	return nil
}
