package github

import (
	"fmt"
	"strings"
)

// MaxQueries caps the number of search queries generated for one run. The
// value is a tuning constant inherited from the product; do not raise it
// without revisiting the rate budget.
const MaxQueries = 8

// baseQuery restricts every search to open, non-archived real issues.
const baseQuery = `state:open type:issue archived:false`

// Query is one search expression with its page-size hint. Queries are
// ephemeral: generated fresh per run, no identity beyond their text.
type Query struct {
	Text    string
	PerPage int
}

// campaignLabels mark repositories participating in the contribution event,
// most specific first. Ladder queries use a prefix of this list.
var campaignLabels = []string{
	"hacktoberfest",
	"hacktoberfest2025",
	"hacktoberfest-accepted",
	"hacktober",
	"october",
}

// popularTopics guarantee non-empty results even for profiles with no
// recognized skills.
var popularTopics = []string{
	"web-development",
	"machine-learning",
	"python",
	"javascript",
	"react",
	"open-source",
	"beginner-friendly",
	"documentation",
}

// canonicalLanguages maps a lowercased skill to the language token used by
// the search qualifier. Skills without a mapping are dropped.
var canonicalLanguages = map[string]string{
	"python":     "python",
	"javascript": "javascript",
	"js":         "javascript",
	"typescript": "typescript",
	"java":       "java",
	"go":         "go",
	"golang":     "go",
	"rust":       "rust",
	"c++":        "cpp",
	"cpp":        "cpp",
	"c#":         "csharp",
	"csharp":     "csharp",
	"php":        "php",
	"ruby":       "ruby",
	"swift":      "swift",
	"kotlin":     "kotlin",
	"html":       "html",
	"css":        "css",
}

// BuildQueries turns a contributor profile into a bounded set of diversified
// search queries. It is deterministic for a given input and never returns an
// empty list: the ladder and topic queries are emitted even when no skill maps
// to a known language.
func BuildQueries(experience string, skills []string, perPage int) []Query {
	texts := make([]string, 0, MaxQueries*2)

	texts = append(texts, ladderQueries(experience)...)
	texts = append(texts, languageQueries(experience, skills)...)
	texts = append(texts, topicQueries()...)

	queries := make([]Query, 0, MaxQueries)
	seen := make(map[string]struct{}, len(texts))
	for _, text := range texts {
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}

		queries = append(queries, Query{Text: text, PerPage: perPage})
		if len(queries) == MaxQueries {
			break
		}
	}

	return queries
}

// ladderQueries combines campaign labels with the label ladder for the given
// experience level.
func ladderQueries(experience string) []string {
	var campaigns, ladder []string

	switch experience {
	case "beginner":
		campaigns = campaignLabels[:3]
		ladder = []string{"good first issue", "beginner-friendly", "first-timers-only"}
	case "intermediate":
		campaigns = campaignLabels[:2]
		ladder = []string{"help wanted", "enhancement", "good first issue"}
	default: // advanced
		campaigns = campaignLabels[:2]
		ladder = []string{"help wanted", "feature", "enhancement"}
	}

	texts := make([]string, 0, len(campaigns)*len(ladder))
	for _, campaign := range campaigns {
		for _, label := range ladder {
			texts = append(texts, fmt.Sprintf(`%s label:"%s" label:"%s"`, baseQuery, campaign, label))
		}
	}

	return texts
}

// languageQueries emits one query per recognized language (top 3), combined
// with the primary campaign label. Beginners get an extra good-first-issue
// variant per language.
func languageQueries(experience string, skills []string) []string {
	languages := make([]string, 0, 3)
	seen := make(map[string]struct{})
	for _, skill := range skills {
		lang, ok := canonicalLanguages[strings.ToLower(strings.TrimSpace(skill))]
		if !ok {
			continue
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}

		languages = append(languages, lang)
		if len(languages) == 3 {
			break
		}
	}

	texts := make([]string, 0, len(languages)*2)
	for _, lang := range languages {
		texts = append(texts, fmt.Sprintf(`%s label:"%s" language:%s`, baseQuery, campaignLabels[0], lang))
		if experience == "beginner" {
			texts = append(texts, fmt.Sprintf(`%s label:"%s" label:"good first issue" language:%s`, baseQuery, campaignLabels[0], lang))
		}
	}

	return texts
}

func topicQueries() []string {
	texts := make([]string, 0, 3)
	for _, topic := range popularTopics[:3] {
		texts = append(texts, fmt.Sprintf(`%s label:"%s" topic:%s`, baseQuery, campaignLabels[0], topic))
	}
	return texts
}
