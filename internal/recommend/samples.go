package recommend

// sampleIssues is a fixed set shown when the issue source is entirely
// unavailable, so the user still sees what a ranked list looks like.
var sampleIssues = []*Issue{
	{
		ID:     1,
		Number: 123,
		Title:  "Add dark mode toggle to navigation bar [Hacktoberfest]",
		Body: "This is a beginner-friendly issue perfect for Hacktoberfest! We need to add " +
			"a dark mode toggle button to our main navigation. This involves basic CSS and " +
			"JavaScript. Great for first-time contributors!",
		URL: "https://github.com/example/hacktoberfest-web-app/issues/123",
		Repository: Repository{
			Name:     "hacktoberfest-web-app",
			Owner:    "example",
			FullName: "example/hacktoberfest-web-app",
			Language: "JavaScript",
			Stars:    2500,
			Campaign: true,
		},
		Labels:      []string{"hacktoberfest", "good first issue", "help wanted", "frontend", "css"},
		Comments:    3,
		State:       "open",
		CreatedAt:   "2025-10-01T10:00:00Z",
		UpdatedAt:   "2025-10-03T15:30:00Z",
		Difficulty:  DifficultyEasy,
		SourceScore: 18,
	},
	{
		ID:     2,
		Number: 456,
		Title:  "Update documentation for new contributors [Hacktoberfest 2025]",
		Body: "Help us improve our documentation! We need to update the CONTRIBUTING.md file " +
			"with clearer instructions for new contributors. Perfect for writers and developers " +
			"who want to help the community.",
		URL: "https://github.com/example/open-source-project/issues/456",
		Repository: Repository{
			Name:     "open-source-project",
			Owner:    "example",
			FullName: "example/open-source-project",
			Language: "Python",
			Stars:    1200,
			Campaign: true,
		},
		Labels:      []string{"hacktoberfest2025", "documentation", "good first issue", "help wanted"},
		Comments:    5,
		State:       "open",
		CreatedAt:   "2025-09-28T08:00:00Z",
		UpdatedAt:   "2025-10-02T12:15:00Z",
		Difficulty:  DifficultyEasy,
		SourceScore: 20,
	},
	{
		ID:     3,
		Number: 789,
		Title:  "Fix bug in user profile validation",
		Body: "There's a small bug in our user profile validation logic. When users enter " +
			"certain special characters, the validation fails incorrectly. This is a great " +
			"issue for intermediate contributors!",
		URL: "https://github.com/example/user-management/issues/789",
		Repository: Repository{
			Name:     "user-management",
			Owner:    "example",
			FullName: "example/user-management",
			Language: "Python",
			Stars:    800,
			Campaign: true,
		},
		Labels:      []string{"hacktoberfest", "bug", "python", "help wanted"},
		Comments:    8,
		State:       "open",
		CreatedAt:   "2025-09-25T14:20:00Z",
		UpdatedAt:   "2025-10-01T09:45:00Z",
		Difficulty:  DifficultyMedium,
		SourceScore: 15,
	},
}

// SampleIssues returns copies of the built-in sample issues, fallback-scored
// against the given profile so every returned issue carries an AI score.
func SampleIssues(profile *Profile) *Issues {
	items := make([]*Issue, 0, len(sampleIssues))
	for _, sample := range sampleIssues {
		issue := *sample
		ApplyFallback(&issue, profile)
		items = append(items, &issue)
	}

	return &Issues{Items: Assemble(items, len(items))}
}
