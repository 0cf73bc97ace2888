package search

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceLists(t *testing.T, whitelist, blacklist string) string {
	t.Helper()
	dir := t.TempDir()
	if whitelist != "" {
		if err := os.WriteFile(filepath.Join(dir, "whitelist.json"), []byte(whitelist), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if blacklist != "" {
		if err := os.WriteFile(filepath.Join(dir, "blacklist.json"), []byte(blacklist), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestSourceListsLoad(t *testing.T) {
	dir := writeSourceLists(t,
		`[{"domain": "reuters.com", "score": 0.95}]`,
		`["infowars.com"]`)

	lists, err := NewSourceLists(dir)
	if err != nil {
		t.Fatalf("NewSourceLists failed: %v", err)
	}
	if !lists.Denied("infowars.com") {
		t.Error("blacklisted domain should be denied")
	}
	if lists.Denied("reuters.com") {
		t.Error("whitelisted domain should not be denied")
	}
	if got := lists.Credibility("reuters.com"); got != 0.95 {
		t.Errorf("expected credibility 0.95, got %v", got)
	}
	if got := lists.Credibility("unknown-site.net"); got != UnknownDomainScore {
		t.Errorf("unknown domain should get the floor score, got %v", got)
	}
}

func TestSourceListsDenyWinsOverAllow(t *testing.T) {
	dir := writeSourceLists(t,
		`[{"domain": "dubious.com", "score": 0.9}]`,
		`["dubious.com"]`)

	lists, err := NewSourceLists(dir)
	if err != nil {
		t.Fatalf("NewSourceLists failed: %v", err)
	}
	if !lists.Denied("dubious.com") {
		t.Error("deny list must win when a domain is on both lists")
	}
}

func TestSourceListsSubdomains(t *testing.T) {
	dir := writeSourceLists(t,
		`[{"domain": "bbc.co.uk", "score": 0.9}]`,
		`["infowars.com"]`)

	lists, err := NewSourceLists(dir)
	if err != nil {
		t.Fatalf("NewSourceLists failed: %v", err)
	}
	if !lists.Denied("shop.infowars.com") {
		t.Error("subdomain of a denied domain should be denied")
	}
	if got := lists.Credibility("news.bbc.co.uk"); got != 0.9 {
		t.Errorf("subdomain should inherit the parent score, got %v", got)
	}
}

func TestSourceListsMissingFiles(t *testing.T) {
	lists, err := NewSourceLists(t.TempDir())
	if err != nil {
		t.Fatalf("missing list files should not be an error: %v", err)
	}
	if lists.Denied("anything.com") {
		t.Error("empty deny list should deny nothing")
	}
}

func TestSourceListsReload(t *testing.T) {
	dir := writeSourceLists(t, "", `["first.com"]`)
	lists, err := NewSourceLists(dir)
	if err != nil {
		t.Fatalf("NewSourceLists failed: %v", err)
	}
	if !lists.Denied("first.com") || lists.Denied("second.com") {
		t.Fatal("initial lists not loaded as expected")
	}

	if err := os.WriteFile(filepath.Join(dir, "blacklist.json"), []byte(`["second.com"]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := lists.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if lists.Denied("first.com") || !lists.Denied("second.com") {
		t.Error("Reload did not swap the deny list")
	}
}
