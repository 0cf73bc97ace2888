package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SourceLists holds the domain allow/deny lists used to vet evidence.
// The deny list is an absolute veto; the allow list carries per-domain
// credibility scores. Safe for concurrent use; Reload swaps atomically.
type SourceLists struct {
	mu    sync.RWMutex
	dir   string
	allow map[string]float64
	deny  map[string]bool
}

// allowEntry is one row of whitelist.json
type allowEntry struct {
	Domain string  `json:"domain"`
	Score  float64 `json:"score"`
}

// NewSourceLists loads allow/deny lists from dir (whitelist.json,
// blacklist.json). Missing files leave the corresponding list empty.
func NewSourceLists(dir string) (*SourceLists, error) {
	s := &SourceLists{dir: dir, allow: map[string]float64{}, deny: map[string]bool{}}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads both list files and swaps the in-memory sets
func (s *SourceLists) Reload() error {
	allow := map[string]float64{}
	deny := map[string]bool{}

	allowPath := filepath.Join(s.dir, "whitelist.json")
	if b, err := os.ReadFile(allowPath); err == nil {
		var entries []allowEntry
		if err := json.Unmarshal(b, &entries); err != nil {
			return fmt.Errorf("parse %s: %w", allowPath, err)
		}
		for _, e := range entries {
			allow[normalizeDomain(e.Domain)] = e.Score
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", allowPath, err)
	}

	denyPath := filepath.Join(s.dir, "blacklist.json")
	if b, err := os.ReadFile(denyPath); err == nil {
		var entries []string
		if err := json.Unmarshal(b, &entries); err != nil {
			return fmt.Errorf("parse %s: %w", denyPath, err)
		}
		for _, d := range entries {
			deny[normalizeDomain(d)] = true
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", denyPath, err)
	}

	s.mu.Lock()
	s.allow = allow
	s.deny = deny
	s.mu.Unlock()
	return nil
}

// Denied reports whether a domain is on the deny list. Deny wins even
// when the domain also appears on the allow list.
func (s *SourceLists) Denied(domain string) bool {
	domain = normalizeDomain(domain)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deny[domain] {
		return true
	}
	// A deny entry for a parent domain covers its subdomains.
	for d := range s.deny {
		if strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

// Credibility returns the allow-list score for a domain, or a floor score
// for unknown domains.
func (s *SourceLists) Credibility(domain string) float64 {
	domain = normalizeDomain(domain)
	s.mu.RLock()
	defer s.mu.RUnlock()
	if score, ok := s.allow[domain]; ok {
		return score
	}
	for d, score := range s.allow {
		if strings.HasSuffix(domain, "."+d) {
			return score
		}
	}
	return UnknownDomainScore
}

// UnknownDomainScore is the credibility floor for domains on neither list
const UnknownDomainScore = 0.1

func normalizeDomain(d string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
}
