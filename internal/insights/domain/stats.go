package domain

// DailyStats is the canonical per-day workload summary. Every higher-level
// view derives from it so the numbers agree across views.
type DailyStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Missed    int `json:"missed"`
	Score     int `json:"score"`
}

// IsZero reports whether the day had no workload at all.
func (s DailyStats) IsZero() bool {
	return s.Total == 0 && s.Missed == 0
}

// StatsMap maps ISO dates ("2006-01-02") to their stats.
type StatsMap map[string]DailyStats

// StreakOverview summarizes perfect-day streaks over the trailing year.
type StreakOverview struct {
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	IsActive      bool `json:"is_active"`
}

// ScoreFactor is one named adjustment in a score explanation.
type ScoreFactor struct {
	Type    string `json:"type"`
	Impact  int    `json:"impact"`
	Message string `json:"message"`
}

// ScoreBreakdown decomposes a productivity score into its factors.
type ScoreBreakdown struct {
	BaseScore  int           `json:"base_score"`
	Penalties  []ScoreFactor `json:"penalties"`
	Bonuses    []ScoreFactor `json:"bonuses"`
	FinalScore int           `json:"final_score"`
	Tips       []string      `json:"tips"`
}
