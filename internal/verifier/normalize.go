package verifier

import (
	"context"
	"net"
	"net/netip"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"govcheck/pkg/domain"
	"govcheck/pkg/serrors"
)

// lookupFunc resolves a hostname to IP addresses. It is a seam for tests;
// the default uses net.DefaultResolver.
type lookupFunc func(ctx context.Context, host string) ([]netip.Addr, error)

// Normalizer parses and sanitizes raw user input into a domain.NormalizedURL.
// It rejects dangerous targets (IP literals, hosts resolving to internal
// ranges) before any outbound connection is attempted.
type Normalizer struct {
	maxLength  int
	dnsTimeout time.Duration
	lookup     lookupFunc
}

// NewNormalizer constructs a Normalizer with the given input length cap and
// DNS resolution deadline.
func NewNormalizer(maxLength int, dnsTimeout time.Duration) *Normalizer {
	return &Normalizer{
		maxLength:  maxLength,
		dnsTimeout: dnsTimeout,
		lookup: func(ctx context.Context, host string) ([]netip.Addr, error) {
			return net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		},
	}
}

// Normalize validates raw and returns its canonical form:
//   - trims whitespace, rejects empty and over-long input
//   - prepends "https://" when no scheme is present (idempotent)
//   - allows only http/https schemes
//   - lowercases scheme and host, drops default ports and the fragment,
//     cleans the path, sorts query parameters
//   - rejects IP-literal hosts outright and hosts that resolve to
//     loopback, private (RFC1918/ULA), link-local or multicast ranges
//
// Resolution is bounded by the configured deadline; failure to resolve is a
// hard failure, never trusted by default.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (domain.NormalizedURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.NormalizedURL{}, serrors.With(ErrEmptyInput, "empty URL")
	}
	if n.maxLength > 0 && len(raw) > n.maxLength {
		return domain.NormalizedURL{}, serrors.With(ErrMalformedURL, "URL exceeds %d characters", n.maxLength)
	}

	// bare hosts like "gov.pl" get the secure default scheme
	if !hasScheme(raw) {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return domain.NormalizedURL{}, serrors.Wrap(ErrMalformedURL, err, "could not parse URL")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != domain.SchemeHTTP && scheme != domain.SchemeHTTPS {
		return domain.NormalizedURL{}, serrors.With(ErrUnsupportedScheme, "only http and https are allowed")
	}
	u.Scheme = scheme

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return domain.NormalizedURL{}, serrors.With(ErrMalformedURL, "could not read a host from the URL")
	}

	if err := n.guardHost(ctx, host); err != nil {
		return domain.NormalizedURL{}, err
	}

	port := u.Port()
	// drop default ports for the two allowed schemes
	if (scheme == domain.SchemeHTTP && port == "80") || (scheme == domain.SchemeHTTPS && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = net.JoinHostPort(host, port)
	} else {
		u.Host = host
	}

	canonicalize(u)

	return domain.NormalizedURL{
		Scheme: scheme,
		Host:   host,
		Port:   port,
		Raw:    u.String(),
	}, nil
}

// hasScheme reports whether raw begins with a URL scheme, scanning the way
// url.Parse does: an ASCII letter followed by letters, digits, '+', '-' or
// '.' up to a ':'. A '/' or '?' before the ':' means there is no scheme, so
// a URL embedded in the query of a schemeless input does not count as one.
func hasScheme(raw string) bool {
	for i, c := range raw {
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		case c == ':':
			return i > 0
		default:
			return false
		}
	}

	return false
}

// guardHost rejects IP literals and hosts resolving to internal ranges.
// It must run before any outbound connection to the host.
func (n *Normalizer) guardHost(ctx context.Context, host string) error {
	if _, err := netip.ParseAddr(host); err == nil {
		return serrors.With(ErrSsrfBlocked, "IP address targets are not allowed")
	}

	ctx, cancel := context.WithTimeout(ctx, n.dnsTimeout)
	defer cancel()

	addrs, err := n.lookup(ctx, host)
	if err != nil || len(addrs) == 0 {
		return serrors.Wrap(ErrSsrfBlocked, err, "could not resolve host %q", host)
	}
	for _, addr := range addrs {
		if isInternal(addr.Unmap()) {
			return serrors.With(ErrSsrfBlocked, "host %q resolves to a disallowed address", host)
		}
	}

	return nil
}

// isInternal reports whether addr falls into a range a verification request
// must never reach: loopback, RFC1918/ULA private, link-local or multicast.
func isInternal(addr netip.Addr) bool {
	return addr.IsLoopback() ||
		addr.IsPrivate() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsMulticast() ||
		addr.IsUnspecified()
}

// canonicalize applies the presentation-level normalization rules: a cleaned
// path without trailing slash, sorted query parameters, no fragment. A bare
// host keeps its empty path so "gov.pl" normalizes to "https://gov.pl".
func canonicalize(u *url.URL) {
	if u.Path != "" {
		cleaned := path.Clean(u.Path)
		if !strings.HasPrefix(cleaned, "/") {
			cleaned = "/" + cleaned
		}
		u.Path = cleaned
		if u.Path == "/" {
			u.Path = ""
		}
	}

	if u.RawQuery != "" {
		q := u.Query()
		for k := range q {
			sort.Strings(q[k])
		}
		u.RawQuery = q.Encode()
	}

	u.Fragment = ""
	u.User = nil
}
