package recommend

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oss-mentor/issue-scout/internal/github"
)

const (
	// MaxSourceScore caps the heuristic relevance score to bound its
	// influence on ranking. Tuning value inherited from the product.
	MaxSourceScore = 20

	// maxBodyLength is the display length the cleaned body is truncated to.
	maxBodyLength = 400

	emptyBodyPlaceholder = "No description provided. Check the issue on GitHub for more details."
)

// languageIndicator maps a label substring to a display language. Scanning is
// first match wins over this fixed order, so reordering entries changes
// classification outcomes.
type languageIndicator struct {
	indicator string
	language  string
}

var languageIndicators = []languageIndicator{
	{"python", "Python"},
	{"javascript", "JavaScript"},
	{"typescript", "TypeScript"},
	{"java", "Java"},
	{"cpp", "C++"},
	{"c++", "C++"},
	{"csharp", "C#"},
	{"c#", "C#"},
	{"go", "Go"},
	{"rust", "Rust"},
	{"php", "PHP"},
	{"ruby", "Ruby"},
	{"swift", "Swift"},
	{"kotlin", "Kotlin"},
	{"html", "HTML"},
	{"css", "CSS"},
	{"react", "JavaScript"},
	{"vue", "JavaScript"},
	{"angular", "TypeScript"},
	{"node", "JavaScript"},
	{"django", "Python"},
	{"flask", "Python"},
}

// Difficulty keyword sets. Precedence is easy > hard > medium, and the
// default with no signal is easy: the bias toward "easy" is a product policy
// meant to encourage participation, not an oversight.
var (
	easyIndicators = []string{
		"good first issue", "easy", "beginner", "starter", "first-timers-only",
		"newbie-friendly", "low-hanging-fruit", "simple", "trivial",
	}
	hardIndicators = []string{
		"expert", "advanced", "complex", "difficult", "breaking-change",
		"architecture", "performance", "security", "refactor", "critical",
	}
	mediumIndicators = []string{
		"enhancement", "feature", "improvement", "optimization",
	}
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe = regexp.MustCompile("`[^`\n]*`")
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize converts one raw search record into the canonical issue entity.
// It returns nil when required fields are missing; malformed records never
// abort a batch. The now argument anchors the recency bonus of the source
// score.
func Normalize(raw *github.RawIssue, now time.Time) *Issue {
	if raw == nil {
		return nil
	}
	if strings.TrimSpace(raw.HTMLURL) == "" || strings.TrimSpace(raw.Title) == "" {
		return nil
	}

	owner, name := raw.RepoOwnerName()
	if owner == "" || name == "" {
		return nil
	}

	labels := raw.LabelNames()

	issue := &Issue{
		ID:     raw.ID,
		Number: raw.Number,
		Title:  raw.Title,
		Body:   CleanBody(raw.Body),
		URL:    raw.HTMLURL,
		Repository: Repository{
			Name:     name,
			Owner:    owner,
			FullName: fmt.Sprintf("%s/%s", owner, name),
			Language: extractLanguage(labels),
			Campaign: isCampaignRepo(name, labels),
		},
		Labels:     labels,
		Comments:   raw.Comments,
		State:      raw.State,
		CreatedAt:  raw.CreatedAt,
		UpdatedAt:  raw.UpdatedAt,
		Difficulty: assessDifficulty(labels),
	}

	if raw.Assignee != nil && raw.Assignee.Login != "" {
		login := raw.Assignee.Login
		issue.Assignee = &login
	}

	issue.SourceScore = sourceScore(issue, now)

	return issue
}

// CleanBody collapses whitespace, replaces code with placeholders and
// truncates the result for display.
func CleanBody(body string) string {
	if strings.TrimSpace(body) == "" {
		return emptyBodyPlaceholder
	}

	body = fencedCodeRe.ReplaceAllString(body, "[Code block]")
	body = inlineCodeRe.ReplaceAllString(body, "[Code]")
	body = whitespaceRe.ReplaceAllString(strings.TrimSpace(body), " ")

	runes := []rune(body)
	if len(runes) > maxBodyLength {
		body = string(runes[:maxBodyLength]) + "..."
	}

	return body
}

// extractLanguage scans labels (not the body) against the indicator table.
// First matching label wins; "Multiple" when nothing matches.
func extractLanguage(labels []string) string {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, entry := range languageIndicators {
			if strings.Contains(lower, entry.indicator) {
				return entry.language
			}
		}
	}
	return "Multiple"
}

func assessDifficulty(labels []string) string {
	text := strings.ToLower(strings.Join(labels, " "))

	if containsAny(text, easyIndicators) {
		return DifficultyEasy
	}
	if containsAny(text, hardIndicators) {
		return DifficultyHard
	}
	if containsAny(text, mediumIndicators) {
		return DifficultyMedium
	}

	return DifficultyEasy
}

func containsAny(text string, indicators []string) bool {
	for _, indicator := range indicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

func isCampaignRepo(repoName string, labels []string) bool {
	lower := strings.ToLower(repoName)
	if strings.Contains(lower, "hacktoberfest") || strings.Contains(lower, "2025") {
		return true
	}

	for _, label := range labels {
		l := strings.ToLower(label)
		if l == "hacktoberfest" || l == "hacktoberfest2025" || l == "hacktoberfest-accepted" {
			return true
		}
	}

	return false
}

// sourceScore computes the heuristic relevance score used for pre-AI staging
// order. Weights and the cap are tuning values inherited from the product.
func sourceScore(issue *Issue, now time.Time) int {
	score := 0

	lowered := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		lowered = append(lowered, strings.ToLower(label))
	}
	joined := strings.Join(lowered, " ")

	if strings.Contains(joined, "hacktoberfest") {
		score += 10
	}
	if hasLabel(lowered, "hacktoberfest2025") {
		score += 15
	}
	if hasLabel(lowered, "hacktoberfest-accepted") {
		score += 12
	}

	if hasLabel(lowered, "good first issue") {
		score += 8
	}
	if hasLabel(lowered, "beginner-friendly") || hasLabel(lowered, "easy") || hasLabel(lowered, "starter") {
		score += 6
	}
	if hasLabel(lowered, "first-timers-only") {
		score += 7
	}

	if hasLabel(lowered, "help wanted") {
		score += 5
	}
	if hasLabel(lowered, "documentation") || hasLabel(lowered, "docs") {
		score += 4
	}

	if strings.Contains(strings.ToLower(issue.Repository.Name), "hacktoberfest") {
		score += 8
	}

	switch {
	case issue.UpdatedWithin(7*24*time.Hour, now):
		score += 3
	case issue.UpdatedWithin(30*24*time.Hour, now):
		score++
	}

	// Engagement sweet spot: some attention, but not overwhelming.
	if issue.Comments >= 1 && issue.Comments <= 5 {
		score += 2
	}

	if score > MaxSourceScore {
		score = MaxSourceScore
	}

	return score
}

func hasLabel(lowered []string, name string) bool {
	for _, label := range lowered {
		if label == name {
			return true
		}
	}
	return false
}
