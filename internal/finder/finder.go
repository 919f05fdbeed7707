package finder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/oss-mentor/issue-scout/internal/ai"
	"github.com/oss-mentor/issue-scout/internal/cache"
	"github.com/oss-mentor/issue-scout/internal/github"
	"github.com/oss-mentor/issue-scout/internal/recommend"
	"github.com/oss-mentor/issue-scout/internal/utils"
)

const (
	// DefaultSearchDelay is the pause between consecutive search calls,
	// pacing the shared rate budget.
	DefaultSearchDelay = 1200 * time.Millisecond

	// AIScoringLimit bounds how many issues of the prioritized list are sent
	// to the AI scorer. Issues beyond the prefix receive the fallback score.
	// Tuning value inherited from the product.
	AIScoringLimit = 15

	// DefaultMaxResults is the result budget when the caller passes none.
	DefaultMaxResults = 20

	// maxPerQueryPage caps the page-size hint derived from the budget.
	maxPerQueryPage = 25
)

// Source executes one search query against the issue tracker.
type Source interface {
	Search(query github.Query) (*github.RawIssues, error)
}

// Deps aggregates the pipeline collaborators. Scorer and Cache are optional:
// a nil Scorer means fallback scoring only, a nil Cache disables memoization.
type Deps struct {
	Source Source
	Scorer ai.Scorer
	Cache  cache.Cache
	Logger *zap.Logger
}

// Config carries the pipeline tuning knobs.
type Config struct {
	// SearchDelay overrides the pause between search calls. Zero means
	// DefaultSearchDelay; negative disables the delay (tests).
	SearchDelay time.Duration
	// Strategy names the query-generation scheme, for cache keying.
	Strategy string
	// CacheTTL bounds how long a memoized result stays valid.
	CacheTTL time.Duration
}

// Finder is the request-scoped discovery-and-ranking pipeline.
type Finder struct {
	deps Deps
	cfg  Config
	now  func() time.Time
}

func New(cfg Config, deps Deps) *Finder {
	if cfg.SearchDelay == 0 {
		cfg.SearchDelay = DefaultSearchDelay
	}
	if cfg.Strategy == "" {
		cfg.Strategy = "hacktoberfest"
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Finder{
		deps: deps,
		cfg:  cfg,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// FindIssues runs the whole pipeline: query construction, sequential search
// fan-out, normalization, deduplication, AI (or fallback) scoring and final
// ranking. It returns an error only for an invalid profile; search and
// scoring failures degrade to a best-effort ranked list, possibly empty.
func (f *Finder) FindIssues(ctx context.Context, profile *recommend.Profile, maxResults int) (*recommend.Issues, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	key := cache.Key(profile, f.cfg.Strategy, maxResults)
	if f.deps.Cache != nil {
		if items, ok := f.deps.Cache.Get(key); ok {
			f.deps.Logger.Debug("serving ranked issues from cache", zap.Int("count", len(items)))
			return &recommend.Issues{Items: items}, nil
		}
	}

	queries := github.BuildQueries(profile.Experience, profile.Skills, perQueryPage(maxResults))
	f.deps.Logger.Info("built search queries", zap.Int("count", len(queries)))

	batches := f.collect(ctx, queries)

	merged := recommend.Merge(batches...)
	f.deps.Logger.Info("merged search results",
		zap.Int("batches", len(batches)),
		zap.Int("unique_issues", len(merged)),
	)

	if len(merged) == 0 {
		return &recommend.Issues{}, nil
	}

	f.score(ctx, merged, profile)

	final := recommend.Assemble(merged, maxResults)

	if f.deps.Cache != nil {
		f.deps.Cache.Put(key, final, f.cfg.CacheTTL)
	}

	return &recommend.Issues{Items: final}, nil
}

// collect runs the queries in sequence with the configured delay in between.
// A failed query is logged and skipped; partial results are expected.
func (f *Finder) collect(ctx context.Context, queries []github.Query) [][]*recommend.Issue {
	now := f.now()
	batches := make([][]*recommend.Issue, 0, len(queries))
	failed := 0

	for idx, query := range queries {
		if idx > 0 && f.cfg.SearchDelay > 0 {
			if err := utils.WaitFor(ctx, f.cfg.SearchDelay); err != nil {
				f.deps.Logger.Warn("search fan-out interrupted", zap.Error(err))
				break
			}
		}

		raws, err := f.deps.Source.Search(query)
		if err != nil {
			failed++
			f.deps.Logger.Warn("search query failed",
				zap.String("query", query.Text),
				zap.Error(err),
			)
			continue
		}

		batch := make([]*recommend.Issue, 0, raws.Len())
		for _, raw := range raws.Items {
			if issue := recommend.Normalize(raw, now); issue != nil {
				batch = append(batch, issue)
			}
		}

		f.deps.Logger.Debug("query results normalized",
			zap.String("query", query.Text),
			zap.Int("raw", raws.Len()),
			zap.Int("kept", len(batch)),
		)

		batches = append(batches, batch)
	}

	if failed == len(queries) && len(queries) > 0 {
		f.deps.Logger.Warn("all search queries failed", zap.Int("queries", failed))
	}

	return batches
}

// score applies the AI assessment to the bounded prefix of the prioritized
// list and the deterministic fallback everywhere else. A failure on the very
// first AI call means the collaborator is unavailable: the whole batch falls
// back uniformly. Later per-item failures fall back individually and the
// batch continues.
func (f *Finder) score(ctx context.Context, issues []*recommend.Issue, profile *recommend.Profile) {
	if f.deps.Scorer == nil {
		f.fallbackAll(issues, profile, "ai scorer not configured")
		return
	}

	limit := AIScoringLimit
	if limit > len(issues) {
		limit = len(issues)
	}

	for i := 0; i < limit; i++ {
		issue := issues[i]

		assessment, err := f.deps.Scorer.Score(ctx, issue, profile)
		if err != nil {
			if i == 0 {
				f.fallbackAll(issues, profile, err.Error())
				return
			}

			f.deps.Logger.Warn("ai scoring failed for issue, using fallback",
				zap.String("issue_url", issue.URL),
				zap.Error(err),
			)
			recommend.ApplyFallback(issue, profile)
			continue
		}

		issue.AIScore = float64(assessment.Score)
		issue.AISummary = assessment.Summary
		issue.EstimatedTime = assessment.EstimatedTime
		issue.LearningValue = assessment.LearningValue
	}

	for _, issue := range issues[limit:] {
		recommend.ApplyFallback(issue, profile)
	}

	f.deps.Logger.Info("scoring completed",
		zap.Int("ai_scored", limit),
		zap.Int("fallback_scored", len(issues)-limit),
	)
}

func (f *Finder) fallbackAll(issues []*recommend.Issue, profile *recommend.Profile, reason string) {
	f.deps.Logger.Warn("ai scoring unavailable, falling back for the whole batch",
		zap.String("reason", reason),
		zap.Int("issues", len(issues)),
	)

	for _, issue := range issues {
		recommend.ApplyFallback(issue, profile)
	}
}

// perQueryPage derives the per-query page-size hint from the result budget.
func perQueryPage(maxResults int) int {
	perPage := maxResults / 4
	if perPage < 1 {
		perPage = 1
	}
	if perPage > maxPerQueryPage {
		perPage = maxPerQueryPage
	}
	return perPage
}
