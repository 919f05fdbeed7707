package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oss-mentor/issue-scout/internal/recommend"
	"go.uber.org/zap"
)

type stubCompleter struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string, _, _ float32) (string, error) {
	s.lastSystem = system
	s.lastUser = user
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testIssue() *recommend.Issue {
	return &recommend.Issue{
		Title:      "Fix typo in docs",
		URL:        "https://github.com/acme/widgets/issues/12",
		Body:       "The readme has a typo.",
		Repository: recommend.Repository{Name: "widgets", Language: "Python"},
		Labels:     []string{"documentation", "good first issue"},
	}
}

func testProfile() *recommend.Profile {
	return &recommend.Profile{
		Experience: recommend.ExperienceBeginner,
		Skills:     []string{"Python"},
		Interests:  []string{"backend"},
	}
}

func TestScorerParsesFullResponse(t *testing.T) {
	stub := &stubCompleter{response: "Score: 8/10\nSummary: Great starter issue\nTime: 1-2 hours\nLearning: High"}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	assessment, err := scorer.Score(context.Background(), testIssue(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score != 8 {
		t.Fatalf("expected score 8, got %d", assessment.Score)
	}
	if assessment.Summary != "Great starter issue" {
		t.Fatalf("unexpected summary: %q", assessment.Summary)
	}
	if assessment.EstimatedTime != "1-2 hours" {
		t.Fatalf("unexpected time: %q", assessment.EstimatedTime)
	}
	if assessment.LearningValue != "High" {
		t.Fatalf("unexpected learning value: %q", assessment.LearningValue)
	}

	if stub.lastSystem != systemPrompt {
		t.Fatalf("unexpected system prompt: %q", stub.lastSystem)
	}
	if !strings.Contains(stub.lastUser, "Fix typo in docs") {
		t.Fatalf("prompt missing issue title: %q", stub.lastUser)
	}
	if !strings.Contains(stub.lastUser, "Experience: beginner") {
		t.Fatalf("prompt missing profile context: %q", stub.lastUser)
	}
}

func TestScorerPartialResponseDefaults(t *testing.T) {
	tests := []struct {
		name     string
		response string
		check    func(t *testing.T, score int, summary, estimate, learning string)
	}{
		{
			name:     "only score",
			response: "Score: 9",
			check: func(t *testing.T, score int, summary, estimate, learning string) {
				if score != 9 {
					t.Fatalf("expected 9, got %d", score)
				}
				if estimate != defaultTime || learning != defaultLearningValue {
					t.Fatalf("expected defaults, got %q / %q", estimate, learning)
				}
			},
		},
		{
			name:     "unparsable score keeps default",
			response: "Score: excellent\nSummary: hard to say",
			check: func(t *testing.T, score int, summary, estimate, learning string) {
				if score != defaultScore {
					t.Fatalf("expected default score %d, got %d", defaultScore, score)
				}
				if summary != "hard to say" {
					t.Fatalf("expected parsed summary, got %q", summary)
				}
			},
		},
		{
			name:     "out of range score keeps default",
			response: "Score: 42/10",
			check: func(t *testing.T, score int, _, _, _ string) {
				if score != defaultScore {
					t.Fatalf("expected default score %d, got %d", defaultScore, score)
				}
			},
		},
		{
			name:     "free form response",
			response: "This looks like a nice issue for a beginner to pick up.",
			check: func(t *testing.T, score int, summary, _, _ string) {
				if score != defaultScore {
					t.Fatalf("expected default score, got %d", score)
				}
				if !strings.Contains(summary, "nice issue") {
					t.Fatalf("expected raw response as summary, got %q", summary)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubCompleter{response: tc.response}
			scorer := NewScorer(stub, zap.NewNop(), 0)

			assessment, err := scorer.Score(context.Background(), testIssue(), testProfile())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			tc.check(t, assessment.Score, assessment.Summary, assessment.EstimatedTime, assessment.LearningValue)
		})
	}
}

func TestScorerLongRawSummaryTruncated(t *testing.T) {
	stub := &stubCompleter{response: strings.Repeat("word ", 100)}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	assessment, err := scorer.Score(context.Background(), testIssue(), testProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasSuffix(assessment.Summary, "...") {
		t.Fatalf("expected truncated summary, got %q", assessment.Summary)
	}
	if len([]rune(assessment.Summary)) > defaultSummaryLength+3 {
		t.Fatalf("summary too long: %d", len([]rune(assessment.Summary)))
	}
}

func TestScorerPropagatesCompleterError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}
	scorer := NewScorer(stub, zap.NewNop(), 0)

	if _, err := scorer.Score(context.Background(), testIssue(), testProfile()); err == nil {
		t.Fatalf("expected error from completer")
	}
}

func TestScorerValidatesInput(t *testing.T) {
	scorer := NewScorer(&stubCompleter{response: "Score: 5"}, zap.NewNop(), 0)

	if _, err := scorer.Score(context.Background(), nil, testProfile()); err == nil {
		t.Fatalf("expected error for nil issue")
	}
	if _, err := scorer.Score(context.Background(), testIssue(), nil); err == nil {
		t.Fatalf("expected error for nil profile")
	}
}
