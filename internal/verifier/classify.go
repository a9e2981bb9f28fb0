package verifier

import (
	"strings"

	"govcheck/pkg/domain"
	"govcheck/pkg/whitelist"
)

// govZone is the domain zone that marks a host as a government service.
const govZone = "gov.pl"

// IsGovZone reports whether host is gov.pl itself or any subdomain of it.
// Matching is exact on labels: look-alikes such as "xgov.pl" do not qualify.
func IsGovZone(host string) bool {
	host = strings.ToLower(host)

	return host == govZone || strings.HasSuffix(host, "."+govZone)
}

// Classify combines zone membership, allow-list membership and the TLS
// outcome into a TrustVerdict. It is a pure function of its inputs: no
// network or storage access, deterministic, and therefore the unit-testable
// core of the trust decision.
//
// A nil allow-list means the list was unavailable at startup; membership is
// then Unknown and the Trusted summary stays false, never upgraded.
func Classify(u domain.NormalizedURL, allow *whitelist.Set, tlsOutcome domain.TLSOutcome) domain.TrustVerdict {
	inAllowList := domain.Unknown
	if allow != nil {
		inAllowList = domain.TristateOf(allow.Contains(u.Host))
	}

	return domain.TrustVerdict{
		Domain:      u.Host,
		IsGovZone:   IsGovZone(u.Host),
		UsesHTTPS:   u.IsHTTPS(),
		InAllowList: inAllowList,
		TLS:         tlsOutcome,
	}
}
