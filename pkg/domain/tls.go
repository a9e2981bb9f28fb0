package domain

import "time"

// TLSErrorKind classifies the outcome of a TLS handshake attempt.
type TLSErrorKind string

const (
	// TLSErrorNone indicates the handshake and certificate verification succeeded.
	TLSErrorNone TLSErrorKind = "NONE"
	// TLSErrorCertificate indicates the handshake reached the peer but its
	// certificate failed verification (expired, hostname mismatch, untrusted chain).
	TLSErrorCertificate TLSErrorKind = "CERTIFICATE_ERROR"
	// TLSErrorNetwork indicates the peer could not be reached (refused, reset, DNS failure).
	TLSErrorNetwork TLSErrorKind = "NETWORK_ERROR"
	// TLSErrorTimeout indicates the attempt exceeded its deadline.
	TLSErrorTimeout TLSErrorKind = "TIMEOUT"
	// TLSErrorNotApplicable indicates no handshake was attempted because the
	// URL uses plain http.
	TLSErrorNotApplicable TLSErrorKind = "NOT_APPLICABLE"
)

// TLSOutcome is the result of probing a URL's TLS endpoint. It is data, not
// an error: a failed handshake is an expected, displayable result.
type TLSOutcome struct {
	// OK reports whether a verified handshake was completed.
	OK bool `json:"ok"`
	// CertOK is True after a verified handshake, False on a certificate
	// failure and Unknown when no conclusion was reached (network failure,
	// timeout, plain http).
	CertOK Tristate `json:"certOk"`
	// ErrorKind classifies the failure mode, TLSErrorNone on success.
	ErrorKind TLSErrorKind `json:"errorKind"`
	// HTTPStatus is the status code of a follow-up GET after a successful
	// handshake, nil when no response was obtained.
	HTTPStatus *int `json:"httpStatus"`
}

// CertificateMetadata describes the leaf certificate presented during a
// successful handshake. It exposes facts for display and never re-judges
// trust.
type CertificateMetadata struct {
	Subject         string    `json:"subject"`
	Issuer          string    `json:"issuer"`
	NotBefore       time.Time `json:"notBefore"`
	NotAfter        time.Time `json:"notAfter"`
	SubjectAltNames []string  `json:"subjectAltNames"`
	SerialNumber    string    `json:"serialNumber"`
	Version         int       `json:"version"`
}
