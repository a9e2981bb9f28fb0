package verifier

import (
	"context"
	"crypto/tls"

	"govcheck/pkg/domain"
	"govcheck/pkg/serrors"
)

// Metadata extracts descriptive fields from the certificate the host
// presents. It reports facts for display and does not judge trust: a
// completed handshake with an untrusted or expired certificate still yields
// metadata. Only a missing handshake (plain http, unreachable host) fails.
func (p *Probe) Metadata(ctx context.Context, u domain.NormalizedURL) (*domain.CertificateMetadata, error) {
	if !u.IsHTTPS() {
		return nil, serrors.With(ErrCertUnavailable, "certificate metadata requires an https URL")
	}

	// facts-only handshake: verification is the Outcome path's job
	state, err := p.handshake(ctx, u, false)
	if err != nil {
		return nil, serrors.Wrap(ErrCertUnavailable, err, "could not complete a handshake with %q", u.Host)
	}
	if len(state.PeerCertificates) == 0 {
		return nil, serrors.With(ErrCertUnavailable, "host %q presented no certificate", u.Host)
	}

	return metadataFromState(state), nil
}

// metadataFromState maps the leaf certificate of a completed handshake to
// the displayable metadata fields.
func metadataFromState(state tls.ConnectionState) *domain.CertificateMetadata {
	leaf := state.PeerCertificates[0]

	sans := make([]string, 0, len(leaf.DNSNames))
	sans = append(sans, leaf.DNSNames...)

	return &domain.CertificateMetadata{
		Subject:         leaf.Subject.String(),
		Issuer:          leaf.Issuer.String(),
		NotBefore:       leaf.NotBefore,
		NotAfter:        leaf.NotAfter,
		SubjectAltNames: sans,
		SerialNumber:    leaf.SerialNumber.String(),
		Version:         leaf.Version,
	}
}
