// Package whitelist loads and exposes the static allow-list of vetted
// government domains. The list is read once at process start and is
// immutable afterwards, so lookups need no synchronization.
package whitelist

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Set is an immutable set of lowercase domain names. A nil *Set means the
// allow-list could not be loaded; callers must treat membership as unknown,
// never as true.
type Set struct {
	domains map[string]struct{}
}

// New builds a Set from the given domains. Entries are trimmed and
// lowercased; blank entries are dropped.
func New(domains []string) *Set {
	s := &Set{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		s.domains[d] = struct{}{}
	}

	return s
}

// Load reads a JSON array of domain strings from path. Values that are not
// strings or are blank are skipped.
func Load(path string) (*Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read whitelist file: %w", err)
	}

	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("could not parse whitelist file: %w", err)
	}

	domains := make([]string, 0, len(raw))
	for _, v := range raw {
		if d, ok := v.(string); ok {
			domains = append(domains, d)
		}
	}

	return New(domains), nil
}

// Contains reports whether host, or host with a leading "www." stripped, is
// a member of the set. Host is matched case-insensitively.
func (s *Set) Contains(host string) bool {
	host = strings.ToLower(host)
	if _, ok := s.domains[host]; ok {
		return true
	}
	if stripped, ok := strings.CutPrefix(host, "www."); ok {
		if _, ok := s.domains[stripped]; ok {
			return true
		}
	}

	return false
}

// Len returns the number of domains in the set.
func (s *Set) Len() int { return len(s.domains) }
