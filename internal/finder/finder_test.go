package finder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/oss-mentor/issue-scout/internal/ai"
	"github.com/oss-mentor/issue-scout/internal/github"
	"github.com/oss-mentor/issue-scout/internal/recommend"
)

type stubSource struct {
	batches [][]*github.RawIssue
	fail    map[int]error
	calls   int
}

func (s *stubSource) Search(_ github.Query) (*github.RawIssues, error) {
	idx := s.calls
	s.calls++

	if err, ok := s.fail[idx]; ok {
		return nil, err
	}
	if idx < len(s.batches) {
		return &github.RawIssues{Items: s.batches[idx]}, nil
	}
	return &github.RawIssues{}, nil
}

type stubScorer struct {
	calls  int
	failOn map[int]error
	score  func(call int) int
}

func (s *stubScorer) Score(_ context.Context, _ *recommend.Issue, _ *recommend.Profile) (*ai.Assessment, error) {
	idx := s.calls
	s.calls++

	if err, ok := s.failOn[idx]; ok {
		return nil, err
	}

	score := 7
	if s.score != nil {
		score = s.score(idx)
	}

	return &ai.Assessment{
		Score:         score,
		Summary:       "looks like a good match",
		EstimatedTime: "2-4 hours",
		LearningValue: "Medium",
	}, nil
}

func rawRecord(n int, labels ...string) *github.RawIssue {
	raw := &github.RawIssue{
		ID:            int64(n),
		Number:        n,
		Title:         fmt.Sprintf("Issue number %d", n),
		Body:          "Some description.",
		HTMLURL:       fmt.Sprintf("https://github.com/acme/widgets/issues/%d", n),
		RepositoryURL: "https://api.github.com/repos/acme/widgets",
		State:         "open",
		Comments:      2,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	for _, label := range labels {
		raw.Labels = append(raw.Labels, github.Label{Name: label})
	}
	return raw
}

func beginnerProfile() *recommend.Profile {
	return &recommend.Profile{
		Experience: recommend.ExperienceBeginner,
		Skills:     []string{"Python"},
		Interests:  []string{"backend"},
	}
}

func newTestFinder(source Source, scorer ai.Scorer) *Finder {
	return New(Config{SearchDelay: -1}, Deps{
		Source: source,
		Scorer: scorer,
		Logger: zap.NewNop(),
	})
}

func TestFindIssuesEndToEnd(t *testing.T) {
	// 7 records across two queries, with issues 2 and 3 appearing in both.
	source := &stubSource{
		batches: [][]*github.RawIssue{
			{
				rawRecord(1, "hacktoberfest", "good first issue"),
				rawRecord(2, "hacktoberfest"),
				rawRecord(3, "help wanted"),
			},
			{
				rawRecord(2, "hacktoberfest"),
				rawRecord(3, "help wanted"),
				rawRecord(4, "enhancement"),
				rawRecord(5, "architecture", "python"),
			},
		},
	}
	scorer := &stubScorer{score: func(call int) int { return 9 - call }}

	issues, err := newTestFinder(source, scorer).FindIssues(context.Background(), beginnerProfile(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if issues.Len() == 0 || issues.Len() > 5 {
		t.Fatalf("expected 1..5 issues, got %d", issues.Len())
	}

	seen := make(map[string]struct{})
	for i, issue := range issues.Items {
		if _, dup := seen[issue.URL]; dup {
			t.Fatalf("duplicate url in result: %s", issue.URL)
		}
		seen[issue.URL] = struct{}{}

		if issue.Difficulty == "" {
			t.Fatalf("issue without difficulty: %+v", issue)
		}
		if issue.AIScore < 1 || issue.AIScore > 10 {
			t.Fatalf("issue without valid ai score: %+v", issue)
		}
		if i > 0 && issues.Items[i-1].AIScore < issue.AIScore {
			t.Fatalf("result not sorted by ai score descending")
		}
	}

	// 5 unique urls from 7 records.
	if len(seen) != 5 {
		t.Fatalf("expected 5 unique issues, got %d", len(seen))
	}
}

func TestFindIssuesInvalidProfile(t *testing.T) {
	f := newTestFinder(&stubSource{}, nil)

	if _, err := f.FindIssues(context.Background(), &recommend.Profile{Experience: "wizard"}, 5); err == nil {
		t.Fatalf("expected error for invalid experience level")
	}
	if _, err := f.FindIssues(context.Background(), nil, 5); err == nil {
		t.Fatalf("expected error for nil profile")
	}
}

func TestFindIssuesToleratesQueryFailures(t *testing.T) {
	source := &stubSource{
		batches: [][]*github.RawIssue{
			nil,
			{rawRecord(1, "hacktoberfest")},
		},
		fail: map[int]error{0: github.ErrRateLimited},
	}

	issues, err := newTestFinder(source, &stubScorer{}).FindIssues(context.Background(), beginnerProfile(), 5)
	if err != nil {
		t.Fatalf("expected partial results, got error: %v", err)
	}
	if issues.Len() != 1 {
		t.Fatalf("expected 1 issue from the surviving query, got %d", issues.Len())
	}
}

func TestFindIssuesAllQueriesFailed(t *testing.T) {
	source := &stubSource{fail: failAll(github.MaxQueries)}

	issues, err := newTestFinder(source, &stubScorer{}).FindIssues(context.Background(), beginnerProfile(), 5)
	if err != nil {
		t.Fatalf("source unavailability must not be an error: %v", err)
	}
	if issues.Len() != 0 {
		t.Fatalf("expected empty result, got %d", issues.Len())
	}
}

func failAll(n int) map[int]error {
	fail := make(map[int]error, n)
	for i := 0; i < n; i++ {
		fail[i] = errors.New("boom")
	}
	return fail
}

func TestScoreBatchShortCircuit(t *testing.T) {
	source := &stubSource{
		batches: [][]*github.RawIssue{{
			rawRecord(1, "hacktoberfest"),
			rawRecord(2, "good first issue"),
			rawRecord(3, "help wanted"),
		}},
	}
	// The scorer fails on its very first call: the collaborator is treated
	// as unavailable and the whole batch falls back.
	scorer := &stubScorer{failOn: map[int]error{0: errors.New("connection refused")}}

	issues, err := newTestFinder(source, scorer).FindIssues(context.Background(), beginnerProfile(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scorer.calls != 1 {
		t.Fatalf("expected scoring abandoned after the first failure, got %d calls", scorer.calls)
	}
	for _, issue := range issues.Items {
		if issue.AIScore < 1 || issue.AIScore > 10 {
			t.Fatalf("issue left without a score: %+v", issue)
		}
		if issue.AISummary == "" {
			t.Fatalf("issue left without a summary: %+v", issue)
		}
	}
}

func TestScorePerItemFallback(t *testing.T) {
	source := &stubSource{
		batches: [][]*github.RawIssue{{
			rawRecord(1, "hacktoberfest"),
			rawRecord(2, "good first issue"),
			rawRecord(3, "help wanted"),
		}},
	}
	scorer := &stubScorer{
		failOn: map[int]error{1: errors.New("parse error")},
		score:  func(int) int { return 9 },
	}

	issues, err := newTestFinder(source, scorer).FindIssues(context.Background(), beginnerProfile(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scorer.calls != 3 {
		t.Fatalf("expected the batch to continue after a per-item failure, got %d calls", scorer.calls)
	}

	aiScored := 0
	for _, issue := range issues.Items {
		if issue.AIScore == 9 {
			aiScored++
		}
		if issue.AIScore < 1 {
			t.Fatalf("unscored issue in result: %+v", issue)
		}
	}
	if aiScored != 2 {
		t.Fatalf("expected 2 ai-scored issues, got %d", aiScored)
	}
}

func TestScoreBoundedPrefix(t *testing.T) {
	raws := make([]*github.RawIssue, 0, AIScoringLimit+5)
	for i := 0; i < AIScoringLimit+5; i++ {
		raws = append(raws, rawRecord(i+1, "hacktoberfest"))
	}
	source := &stubSource{batches: [][]*github.RawIssue{raws}}
	scorer := &stubScorer{}

	issues, err := newTestFinder(source, scorer).FindIssues(context.Background(), beginnerProfile(), AIScoringLimit+5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if scorer.calls != AIScoringLimit {
		t.Fatalf("expected %d scorer calls, got %d", AIScoringLimit, scorer.calls)
	}
	for _, issue := range issues.Items {
		if issue.AIScore < 1 {
			t.Fatalf("issue beyond the prefix left unscored: %+v", issue)
		}
	}
}

func TestFindIssuesWithoutScorer(t *testing.T) {
	source := &stubSource{batches: [][]*github.RawIssue{{rawRecord(1, "good first issue")}}}

	issues, err := newTestFinder(source, nil).FindIssues(context.Background(), beginnerProfile(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if issues.Len() != 1 || issues.Items[0].AIScore < 1 {
		t.Fatalf("expected fallback-scored issue, got %+v", issues.Items)
	}
}

type countingCache struct {
	store map[string][]*recommend.Issue
	hits  int
}

func (c *countingCache) Get(key string) ([]*recommend.Issue, bool) {
	issues, ok := c.store[key]
	if ok {
		c.hits++
	}
	return issues, ok
}

func (c *countingCache) Put(key string, issues []*recommend.Issue, _ time.Duration) {
	c.store[key] = issues
}

func TestFindIssuesMemoization(t *testing.T) {
	source := &stubSource{batches: [][]*github.RawIssue{{rawRecord(1, "hacktoberfest")}}}
	memo := &countingCache{store: make(map[string][]*recommend.Issue)}

	f := New(Config{SearchDelay: -1}, Deps{
		Source: source,
		Cache:  memo,
		Logger: zap.NewNop(),
	})

	profile := beginnerProfile()
	first, err := f.FindIssues(context.Background(), profile, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	searchCalls := source.calls
	second, err := f.FindIssues(context.Background(), profile, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if source.calls != searchCalls {
		t.Fatalf("expected second request to be served from cache")
	}
	if memo.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", memo.hits)
	}
	if first.Len() != second.Len() {
		t.Fatalf("cached result differs: %d vs %d", first.Len(), second.Len())
	}
}
