package domain

// TrustVerdict is the combined result of zone membership, allow-list
// membership and the TLS outcome for one URL. It is derived per request and
// never persisted.
type TrustVerdict struct {
	// Domain is the lowercase host the verdict applies to.
	Domain string `json:"domain"`
	// IsGovZone reports whether the host is gov.pl or a subdomain of it.
	IsGovZone bool `json:"isGovZone"`
	// UsesHTTPS reports whether the URL uses the https scheme.
	UsesHTTPS bool `json:"usesHttps"`
	// InAllowList is True/False when the allow-list was loaded and Unknown
	// when it was unavailable at startup.
	InAllowList Tristate `json:"inAllowList"`
	// TLS is the handshake outcome for the host.
	TLS TLSOutcome `json:"tls"`
}

// Trusted reports the overall summary: the host is in the gov.pl zone, on the
// allow-list and presented a valid certificate. An Unknown allow-list or TLS
// signal never counts as success.
func (v TrustVerdict) Trusted() bool {
	return v.IsGovZone && v.InAllowList.IsTrue() && v.TLS.CertOK.IsTrue()
}
