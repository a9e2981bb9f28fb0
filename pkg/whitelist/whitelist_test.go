package whitelist_test

import (
	"os"
	"path/filepath"
	"testing"

	"govcheck/pkg/whitelist"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "domains.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `["Obywatel.gov.pl", "  podatki.gov.pl ", "", 42, "epuap.gov.pl"]`)

	set, err := whitelist.Load(path)
	require.NoError(t, err)
	require.Equal(t, 3, set.Len(), "non-string and blank entries should be dropped")
	require.True(t, set.Contains("obywatel.gov.pl"), "entries should be lowercased")
	require.True(t, set.Contains("podatki.gov.pl"), "entries should be trimmed")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := whitelist.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeFile(t, `{"not": "an array"}`)
	_, err := whitelist.Load(path)
	require.Error(t, err)
}

func TestContains(t *testing.T) {
	set := whitelist.New([]string{"gov.pl", "elblag.piw.gov.pl"})

	tests := []struct {
		host string
		want bool
	}{
		{"gov.pl", true},
		{"GOV.PL", true},
		{"www.gov.pl", true},
		{"elblag.piw.gov.pl", true},
		{"www.elblag.piw.gov.pl", true},
		{"wwwelblag.piw.gov.pl", false},
		{"piw.gov.pl", false},
		{"example.com", false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, set.Contains(tt.host), "host %q", tt.host)
	}
}
