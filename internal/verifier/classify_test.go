package verifier_test

import (
	"testing"

	"govcheck/internal/verifier"
	"govcheck/pkg/domain"
	"govcheck/pkg/whitelist"

	"github.com/stretchr/testify/require"
)

func govURL(host string) domain.NormalizedURL {
	return domain.NormalizedURL{Scheme: "https", Host: host, Raw: "https://" + host}
}

func okTLS() domain.TLSOutcome {
	return domain.TLSOutcome{OK: true, CertOK: domain.True, ErrorKind: domain.TLSErrorNone}
}

func TestIsGovZone(t *testing.T) {
	cases := []struct {
		host string
		want bool
	}{
		{"gov.pl", true},
		{"GOV.PL", true},
		{"obywatel.gov.pl", true},
		{"elblag.piw.gov.pl", true},
		{"xgov.pl", false},
		{"gov.pl.evil.com", false},
		{"gov.com", false},
		{"pl", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, verifier.IsGovZone(tc.host), "host %q", tc.host)
	}
}

func TestClassify_AllThreeRequired(t *testing.T) {
	allow := whitelist.New([]string{"obywatel.gov.pl"})

	v := verifier.Classify(govURL("obywatel.gov.pl"), allow, okTLS())
	require.True(t, v.Trusted())
	require.True(t, v.IsGovZone)
	require.True(t, v.UsesHTTPS)
	require.Equal(t, domain.True, v.InAllowList)

	// flipping any single input flips the summary
	t.Run("not in zone", func(t *testing.T) {
		offZone := whitelist.New([]string{"example.com"})
		v := verifier.Classify(govURL("example.com"), offZone, okTLS())
		require.False(t, v.Trusted())
	})

	t.Run("not in allow-list", func(t *testing.T) {
		v := verifier.Classify(govURL("podatki.gov.pl"), allow, okTLS())
		require.Equal(t, domain.False, v.InAllowList)
		require.False(t, v.Trusted())
	})

	t.Run("certificate invalid", func(t *testing.T) {
		bad := domain.TLSOutcome{OK: false, CertOK: domain.False, ErrorKind: domain.TLSErrorCertificate}
		v := verifier.Classify(govURL("obywatel.gov.pl"), allow, bad)
		require.False(t, v.Trusted())
	})
}

func TestClassify_UnknownNeverUpgrades(t *testing.T) {
	allow := whitelist.New([]string{"obywatel.gov.pl"})

	t.Run("allow-list unavailable", func(t *testing.T) {
		v := verifier.Classify(govURL("obywatel.gov.pl"), nil, okTLS())
		require.Equal(t, domain.Unknown, v.InAllowList)
		require.False(t, v.Trusted(), "unknown membership must not read as trusted")
	})

	t.Run("tls inconclusive", func(t *testing.T) {
		inconclusive := domain.TLSOutcome{OK: false, CertOK: domain.Unknown, ErrorKind: domain.TLSErrorNetwork}
		v := verifier.Classify(govURL("obywatel.gov.pl"), allow, inconclusive)
		require.False(t, v.Trusted(), "unknown certificate validity must not read as trusted")
	})

	t.Run("plain http not applicable", func(t *testing.T) {
		u := domain.NormalizedURL{Scheme: "http", Host: "obywatel.gov.pl", Raw: "http://obywatel.gov.pl"}
		na := domain.TLSOutcome{OK: false, CertOK: domain.Unknown, ErrorKind: domain.TLSErrorNotApplicable}
		v := verifier.Classify(u, allow, na)
		require.False(t, v.UsesHTTPS)
		require.False(t, v.Trusted())
	})
}

func TestClassify_Deterministic(t *testing.T) {
	allow := whitelist.New([]string{"gov.pl"})
	u := govURL("gov.pl")
	outcome := okTLS()

	first := verifier.Classify(u, allow, outcome)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, verifier.Classify(u, allow, outcome))
	}
}
