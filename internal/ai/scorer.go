package ai

import (
	"context"

	"github.com/oss-mentor/issue-scout/internal/recommend"
)

// Assessment is the structured result of scoring one issue for one profile.
type Assessment struct {
	Score         int
	Summary       string
	EstimatedTime string
	LearningValue string
	Raw           string
}

// Scorer rates how suitable an issue is for a contributor profile on a 1-10
// scale. Implementations call an external language-model collaborator; the
// pipeline handles any error by substituting the deterministic fallback.
type Scorer interface {
	Score(ctx context.Context, issue *recommend.Issue, profile *recommend.Profile) (*Assessment, error)
}
