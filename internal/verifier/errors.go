package verifier

import "govcheck/pkg/serrors"

// Error kinds raised during URL validation and certificate metadata
// extraction. All are input-shaped failures: reported immediately, never
// retried.
var (
	// ErrEmptyInput indicates the raw URL was empty after trimming.
	ErrEmptyInput = serrors.NewKind("EMPTY_INPUT")
	// ErrMalformedURL indicates the raw URL could not be parsed or is too long.
	ErrMalformedURL = serrors.NewKind("MALFORMED_URL")
	// ErrUnsupportedScheme indicates a scheme other than http/https.
	ErrUnsupportedScheme = serrors.NewKind("UNSUPPORTED_SCHEME")
	// ErrSsrfBlocked indicates the host is an IP literal, resolves to a
	// loopback/private/link-local/multicast address, or could not be proven
	// safe within the resolution deadline.
	ErrSsrfBlocked = serrors.NewKind("SSRF_BLOCKED")
	// ErrCertUnavailable indicates certificate metadata could not be
	// obtained: the scheme is not https or no handshake completed.
	ErrCertUnavailable = serrors.NewKind("CERTIFICATE_UNAVAILABLE")
)
