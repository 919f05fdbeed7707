package recommend

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Experience levels accepted in a profile.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

// Difficulty classifications assigned by the normalizer.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Profile describes the contributor the pipeline recommends issues for. It is
// created by the caller and never mutated by the pipeline.
type Profile struct {
	Experience string   `mapstructure:"experience" json:"experience"`
	Skills     []string `mapstructure:"skills" json:"skills"`
	Interests  []string `mapstructure:"interests" json:"interests"`
}

// Validate reports a programmer error in the profile shape. Empty skill and
// interest lists are valid.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is required")
	}

	switch p.Experience {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return nil
	default:
		return fmt.Errorf("invalid experience level: %q", p.Experience)
	}
}

// Repository describes the repository an issue belongs to.
type Repository struct {
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	FullName string `json:"full_name"`
	Language string `json:"language"`
	Stars    int    `json:"stars"`
	Campaign bool   `json:"campaign"`
}

// Issue is the canonical entity flowing through the pipeline. It is created
// by the normalizer from one raw search record, enriched in place with the
// source score and later the AI assessment, and discarded with the response.
type Issue struct {
	ID         int64      `json:"id"`
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	URL        string     `json:"url"`
	Repository Repository `json:"repository"`
	Labels     []string   `json:"labels"`
	Comments   int        `json:"comments"`
	State      string     `json:"state"`
	CreatedAt  string     `json:"created_at"`
	UpdatedAt  string     `json:"updated_at"`
	Assignee   *string    `json:"assignee"`

	Difficulty  string `json:"difficulty"`
	SourceScore int    `json:"source_score"`

	AIScore       float64 `json:"ai_score"`
	AISummary     string  `json:"ai_summary"`
	EstimatedTime string  `json:"estimated_time"`
	LearningValue string  `json:"learning_value"`
}

type Issues struct {
	Items []*Issue
}

func (i *Issues) Len() int {
	return len(i.Items)
}

func (i *Issues) FindByURL(url string) *Issue {
	for _, issue := range i.Items {
		if issue.URL == url {
			return issue
		}
	}
	return nil
}

func (i *Issues) URLs() []string {
	urls := make([]string, 0, len(i.Items))
	for _, issue := range i.Items {
		urls = append(urls, issue.URL)
	}
	return urls
}

func (i *Issues) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "issues_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(i); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByRepository groups the ranked issues per repository for display.
func (i *Issues) ReportByRepository() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, issue := range i.Items {
		key := issue.Repository.FullName
		if key == "" {
			key = fmt.Sprintf("%s/%s", issue.Repository.Owner, issue.Repository.Name)
		}

		entry := map[string]string{
			"title":          issue.Title,
			"url":            issue.URL,
			"language":       issue.Repository.Language,
			"difficulty":     issue.Difficulty,
			"ai_score":       fmt.Sprintf("%.1f", issue.AIScore),
			"estimated_time": issue.EstimatedTime,
			"learning_value": issue.LearningValue,
		}
		if issue.AISummary != "" {
			entry["ai_summary"] = issue.AISummary
		}

		report[key] = append(report[key], entry)
	}
	return report
}

// UpdatedWithin reports whether the issue was updated within the given window
// of now. Malformed timestamps count as outside the window.
func (i *Issue) UpdatedWithin(window time.Duration, now time.Time) bool {
	updated, err := time.Parse(time.RFC3339, i.UpdatedAt)
	if err != nil {
		return false
	}
	return now.Sub(updated) < window
}
