package search

import (
	"context"
	"errors"
	"testing"

	"vidcheck/config"
	"vidcheck/types"
)

// fakeProvider returns canned results or a canned error
type fakeProvider struct {
	results []types.Evidence
	err     error
	calls   int
}

func (f *fakeProvider) Search(ctx context.Context, query string, maxResults int) ([]types.Evidence, error) {
	f.calls++
	return f.results, f.err
}

func testConfig() config.Config {
	return config.Config{
		MaxSearchResults: 10,
		MaxEvidence:      3,
		MinRelevance:     0.1,
	}
}

func emptyLists(t *testing.T) *SourceLists {
	t.Helper()
	lists, err := NewSourceLists(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return lists
}

func testClaim() types.Claim {
	return types.Claim{ClaimID: "c1", ClaimText: "the dam failed last week"}
}

func TestRetrieveDenyListVeto(t *testing.T) {
	dir := writeSourceLists(t, "", `["infowars.com"]`)
	lists, err := NewSourceLists(dir)
	if err != nil {
		t.Fatal(err)
	}
	provider := &fakeProvider{results: []types.Evidence{
		{SourceURL: "https://www.infowars.com/story", RelevanceScore: 0.99},
		{SourceURL: "https://reuters.com/story", RelevanceScore: 0.5},
	}}
	retriever := NewRetriever(provider, nil, lists, nil, testConfig())

	evidence := retriever.Retrieve(context.Background(), testClaim())
	for _, ev := range evidence {
		if ev.Domain == "infowars.com" {
			t.Fatalf("deny-listed source reached the output at relevance %v", ev.RelevanceScore)
		}
	}
	if len(evidence) != 1 {
		t.Errorf("expected 1 surviving item, got %d", len(evidence))
	}
}

func TestRetrieveRelevanceFloorAndSort(t *testing.T) {
	provider := &fakeProvider{results: []types.Evidence{
		{SourceURL: "https://a.com/1", RelevanceScore: 0.3},
		{SourceURL: "https://b.com/2", RelevanceScore: 0.05},
		{SourceURL: "https://c.com/3", RelevanceScore: 0.9},
	}}
	retriever := NewRetriever(provider, nil, emptyLists(t), nil, testConfig())

	evidence := retriever.Retrieve(context.Background(), testClaim())
	if len(evidence) != 2 {
		t.Fatalf("expected the sub-threshold item dropped, got %d items", len(evidence))
	}
	if evidence[0].RelevanceScore < evidence[1].RelevanceScore {
		t.Error("evidence not sorted by relevance descending")
	}
}

func TestRetrieveCapsAndTruncates(t *testing.T) {
	long := make([]byte, config.SnippetMaxLen+100)
	for i := range long {
		long[i] = 'x'
	}
	var results []types.Evidence
	for i := 0; i < 5; i++ {
		results = append(results, types.Evidence{
			SourceURL:      "https://a.com/" + string(rune('a'+i)),
			Snippet:        string(long),
			RelevanceScore: 0.5,
		})
	}
	retriever := NewRetriever(&fakeProvider{results: results}, nil, emptyLists(t), nil, testConfig())

	evidence := retriever.Retrieve(context.Background(), testClaim())
	if len(evidence) != 3 {
		t.Errorf("expected evidence capped at 3, got %d", len(evidence))
	}
	for _, ev := range evidence {
		if len(ev.Snippet) > config.SnippetMaxLen {
			t.Errorf("snippet not truncated: %d bytes", len(ev.Snippet))
		}
	}
}

func TestRetrieveProviderFailureIsEmpty(t *testing.T) {
	provider := &fakeProvider{err: errors.New("503 from upstream")}
	retriever := NewRetriever(provider, nil, emptyLists(t), nil, testConfig())

	evidence := retriever.Retrieve(context.Background(), testClaim())
	if len(evidence) != 0 {
		t.Errorf("provider failure should yield empty evidence, got %d items", len(evidence))
	}
}

func TestRetrieveFallbackOnEmptyResults(t *testing.T) {
	primary := &fakeProvider{}
	fallback := &fakeProvider{results: []types.Evidence{
		{SourceURL: "https://factcheck.org/claim", RelevanceScore: 0.4},
	}}
	retriever := NewRetriever(primary, fallback, emptyLists(t), nil, testConfig())

	evidence := retriever.Retrieve(context.Background(), testClaim())
	if fallback.calls != 1 {
		t.Errorf("expected one fallback call, got %d", fallback.calls)
	}
	if len(evidence) != 1 || evidence[0].Domain != "factcheck.org" {
		t.Errorf("fallback evidence missing: %+v", evidence)
	}
}

func TestRetrieveFallbackSkippedWhenPrimaryUsable(t *testing.T) {
	primary := &fakeProvider{results: []types.Evidence{
		{SourceURL: "https://reuters.com/story", RelevanceScore: 0.8},
	}}
	fallback := &fakeProvider{}
	retriever := NewRetriever(primary, fallback, emptyLists(t), nil, testConfig())

	retriever.Retrieve(context.Background(), testClaim())
	if fallback.calls != 0 {
		t.Errorf("fallback should not run when primary had results, got %d calls", fallback.calls)
	}
}

func TestRetrievePrefersNewerAtEqualRelevance(t *testing.T) {
	provider := &fakeProvider{results: []types.Evidence{
		{SourceURL: "https://a.com/old", RelevanceScore: 0.5, PublishedDate: "2023-01-10"},
		{SourceURL: "https://b.com/new", RelevanceScore: 0.5, PublishedDate: "2025-06-02"},
	}}
	retriever := NewRetriever(provider, nil, emptyLists(t), nil, testConfig())

	evidence := retriever.Retrieve(context.Background(), testClaim())
	if len(evidence) != 2 {
		t.Fatalf("expected 2 items, got %d", len(evidence))
	}
	if evidence[0].PublishedDate != "2025-06-02" {
		t.Errorf("equally relevant items should rank newer first, got %+v", evidence[0])
	}
}

func TestDomainOf(t *testing.T) {
	cases := map[string]string{
		"https://www.reuters.com/article/x": "reuters.com",
		"http://news.bbc.co.uk/a":           "news.bbc.co.uk",
		"not a url":                         "",
	}
	for in, want := range cases {
		if got := DomainOf(in); got != want {
			t.Errorf("DomainOf(%q) = %q, want %q", in, got, want)
		}
	}
}
