package gemini

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/oss-mentor/issue-scout/internal/ai"
	"github.com/oss-mentor/issue-scout/internal/recommend"
	"github.com/oss-mentor/issue-scout/internal/utils"
	"go.uber.org/zap"
)

type completer interface {
	Complete(ctx context.Context, system, user string, temperature, topP float32) (string, error)
}

// Scorer rates issues with Gemini and parses the expected four-line response.
type Scorer struct {
	completer completer
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const (
	systemPrompt = "You are an expert open source mentor. Analyze GitHub issues and provide recommendations."

	// Sampling settings for issue assessments. Low temperature keeps the
	// four-line response shape parseable.
	temperature = float32(0.3)
	topP        = float32(0.9)

	defaultMaxLogLength = 200

	// Independent per-field defaults applied when a line is missing or
	// unparsable. Partial extraction is expected and must succeed.
	defaultScore         = 6
	defaultTime          = "2-4 hours"
	defaultLearningValue = "Medium"
	defaultSummaryLength = 200

	// maxPromptBodyLength bounds how much of the issue body goes into the
	// prompt.
	maxPromptBodyLength = 300
)

func NewScorer(completer completer, logger *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		completer: completer,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (s *Scorer) Score(ctx context.Context, issue *recommend.Issue, profile *recommend.Profile) (*ai.Assessment, error) {
	if issue == nil {
		return nil, fmt.Errorf("issue is required")
	}
	if profile == nil {
		return nil, fmt.Errorf("profile is required")
	}

	prompt := buildPrompt(issue, profile)

	s.logger.Debug("gemini assessment request",
		zap.String("issue_url", issue.URL),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.completer.Complete(ctx, systemPrompt, prompt, temperature, topP)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini assessment response",
		zap.String("issue_url", issue.URL),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	return parseResponse(raw), nil
}

func buildPrompt(issue *recommend.Issue, profile *recommend.Profile) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile:\n{{PROFILE}}\n\nIssue: {{TITLE}}\nDescription: {{DESCRIPTION}}"
	}

	body := issue.Body
	if utf8.RuneCountInString(body) > maxPromptBodyLength {
		body = string([]rune(body)[:maxPromptBodyLength]) + "..."
	}

	prompt := strings.ReplaceAll(template, "{{PROFILE}}", profileContext(profile))
	prompt = strings.ReplaceAll(prompt, "{{TITLE}}", issue.Title)
	prompt = strings.ReplaceAll(prompt, "{{REPOSITORY}}", issue.Repository.Name)
	prompt = strings.ReplaceAll(prompt, "{{LANGUAGE}}", issue.Repository.Language)
	prompt = strings.ReplaceAll(prompt, "{{LABELS}}", strings.Join(issue.Labels, ", "))
	prompt = strings.ReplaceAll(prompt, "{{DESCRIPTION}}", body)

	return prompt
}

func profileContext(profile *recommend.Profile) string {
	skills := profile.Skills
	if len(skills) > 10 {
		skills = skills[:10]
	}
	interests := profile.Interests
	if len(interests) > 8 {
		interests = interests[:8]
	}

	return fmt.Sprintf(
		"Experience: %s\nSkills: %s\nInterests: %s\nGoal: Find good open source contributions for Hacktoberfest",
		profile.Experience,
		strings.Join(skills, ", "),
		strings.Join(interests, ", "),
	)
}

// parseResponse extracts each labeled line independently. A missing or
// unparsable field takes its own default instead of failing the whole parse.
func parseResponse(raw string) *ai.Assessment {
	assessment := &ai.Assessment{
		Score:         defaultScore,
		Summary:       defaultSummary(raw),
		EstimatedTime: defaultTime,
		LearningValue: defaultLearningValue,
		Raw:           raw,
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "Score:"):
			if score, ok := parseScore(strings.TrimPrefix(line, "Score:")); ok {
				assessment.Score = score
			}
		case strings.HasPrefix(line, "Summary:"):
			if summary := strings.TrimSpace(strings.TrimPrefix(line, "Summary:")); summary != "" {
				assessment.Summary = summary
			}
		case strings.HasPrefix(line, "Time:"):
			if estimate := strings.TrimSpace(strings.TrimPrefix(line, "Time:")); estimate != "" {
				assessment.EstimatedTime = estimate
			}
		case strings.HasPrefix(line, "Learning:"):
			if learning := strings.TrimSpace(strings.TrimPrefix(line, "Learning:")); learning != "" {
				assessment.LearningValue = learning
			}
		}
	}

	return assessment
}

// parseScore accepts "8", "8/10" and similar shapes.
func parseScore(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "/"); idx != -1 {
		text = strings.TrimSpace(text[:idx])
	}

	score, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}

	if score < 1 || score > 10 {
		return 0, false
	}

	return score, true
}

func defaultSummary(raw string) string {
	runes := []rune(strings.TrimSpace(raw))
	if len(runes) > defaultSummaryLength {
		return string(runes[:defaultSummaryLength]) + "..."
	}
	return string(runes)
}
