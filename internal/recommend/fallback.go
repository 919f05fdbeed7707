package recommend

import "strings"

// FallbackScore computes the deterministic 1..10 suitability score used when
// AI scoring fails for an item or for a whole batch. Pure function: identical
// inputs yield identical results regardless of which caller invoked it.
func FallbackScore(issue *Issue, profile *Profile) int {
	score := 5

	switch {
	case profile.Experience == ExperienceBeginner && issue.Difficulty == DifficultyEasy:
		score += 2
	case profile.Experience == ExperienceIntermediate &&
		(issue.Difficulty == DifficultyEasy || issue.Difficulty == DifficultyMedium):
		score++
	}

	repoLang := strings.ToLower(issue.Repository.Language)
	for _, skill := range profile.Skills {
		if strings.ToLower(skill) == repoLang {
			score += 2
			break
		}
	}

	score += min(2, labelInterestOverlap(issue.Labels, profile.Interests))

	if issue.Comments > 0 {
		score++
	}

	if score > 10 {
		score = 10
	}
	if score < 1 {
		score = 1
	}

	return score
}

// ApplyFallback enriches the issue with the deterministic score and the
// generic templated summary used whenever AI scoring is unavailable.
func ApplyFallback(issue *Issue, profile *Profile) {
	issue.AIScore = float64(FallbackScore(issue, profile))
	issue.AISummary = fallbackSummary(issue)
	issue.EstimatedTime = "2-4 hours"
	issue.LearningValue = "Medium"
}

func fallbackSummary(issue *Issue) string {
	title := issue.Title
	runes := []rune(title)
	if len(runes) > 100 {
		title = string(runes[:100]) + "..."
	}
	return "Issue in " + issue.Repository.Name + ": " + title
}

func labelInterestOverlap(labels, interests []string) int {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[strings.ToLower(label)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(interests))
	count := 0
	for _, interest := range interests {
		lower := strings.ToLower(interest)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}

		if _, ok := set[lower]; ok {
			count++
		}
	}

	return count
}
