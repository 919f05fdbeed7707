package recommend

import "testing"

func fallbackIssue() *Issue {
	return &Issue{
		Title:      "Fix typo in docs",
		URL:        "https://github.com/acme/widgets/issues/12",
		Repository: Repository{Name: "widgets", Language: "Python"},
		Labels:     []string{"documentation", "backend", "good first issue"},
		Comments:   2,
		Difficulty: DifficultyEasy,
	}
}

func TestFallbackScore(t *testing.T) {
	profile := &Profile{
		Experience: ExperienceBeginner,
		Skills:     []string{"python"},
		Interests:  []string{"backend", "documentation"},
	}

	// base 5 +2 beginner/easy +2 language +2 interest overlap +1 comments,
	// clamped to 10.
	if got := FallbackScore(fallbackIssue(), profile); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestFallbackScoreComponents(t *testing.T) {
	tests := []struct {
		name    string
		issue   *Issue
		profile *Profile
		want    int
	}{
		{
			name:    "no matches at all",
			issue:   &Issue{Difficulty: DifficultyHard, Repository: Repository{Language: "Rust"}},
			profile: &Profile{Experience: ExperienceBeginner},
			want:    5,
		},
		{
			name:    "intermediate with medium difficulty",
			issue:   &Issue{Difficulty: DifficultyMedium, Repository: Repository{Language: "Rust"}},
			profile: &Profile{Experience: ExperienceIntermediate},
			want:    6,
		},
		{
			name:    "language match is case insensitive",
			issue:   &Issue{Difficulty: DifficultyHard, Repository: Repository{Language: "PYTHON"}},
			profile: &Profile{Experience: ExperienceAdvanced, Skills: []string{"Python"}},
			want:    7,
		},
		{
			name: "interest overlap capped at two",
			issue: &Issue{
				Difficulty: DifficultyHard,
				Repository: Repository{Language: "Rust"},
				Labels:     []string{"backend", "api", "cli"},
			},
			profile: &Profile{
				Experience: ExperienceAdvanced,
				Interests:  []string{"backend", "api", "cli"},
			},
			want: 7,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackScore(tc.issue, tc.profile); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestFallbackScoreDeterministic(t *testing.T) {
	issue := fallbackIssue()
	profile := &Profile{
		Experience: ExperienceBeginner,
		Skills:     []string{"Python", "Go"},
		Interests:  []string{"backend"},
	}

	first := FallbackScore(issue, profile)
	for i := 0; i < 10; i++ {
		if got := FallbackScore(issue, profile); got != first {
			t.Fatalf("score changed between identical calls: %d vs %d", first, got)
		}
	}

	if first < 1 || first > 10 {
		t.Fatalf("score out of range: %d", first)
	}
}

func TestApplyFallback(t *testing.T) {
	issue := fallbackIssue()
	profile := &Profile{Experience: ExperienceBeginner}

	ApplyFallback(issue, profile)

	if issue.AIScore < 1 || issue.AIScore > 10 {
		t.Fatalf("ai score out of range: %f", issue.AIScore)
	}
	if issue.AISummary == "" || issue.EstimatedTime == "" || issue.LearningValue == "" {
		t.Fatalf("fallback left fields unset: %+v", issue)
	}
}
