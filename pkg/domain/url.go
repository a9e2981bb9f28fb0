package domain

// SchemeHTTP and SchemeHTTPS are the only schemes a NormalizedURL may carry.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// NormalizedURL is the canonical form of a user-supplied URL after
// normalization and SSRF screening. Invariants guaranteed by the normalizer:
// Scheme is http or https, Host is a lowercase domain name (never an IP
// literal and never resolving to a loopback/private/link-local/multicast
// address), and Raw is the bounded canonical string form.
type NormalizedURL struct {
	// Scheme is either "http" or "https".
	Scheme string `json:"scheme"`
	// Host is the lowercase hostname without port.
	Host string `json:"host"`
	// Port is the explicit port from the input, empty when the scheme
	// default applies.
	Port string `json:"-"`
	// Raw is the canonical string form of the whole URL.
	Raw string `json:"raw"`
}

// String returns the canonical string form.
func (u NormalizedURL) String() string { return u.Raw }

// IsHTTPS reports whether the URL uses the https scheme.
func (u NormalizedURL) IsHTTPS() bool { return u.Scheme == SchemeHTTPS }
