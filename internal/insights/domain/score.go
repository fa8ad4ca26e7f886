package domain

import "math"

// Score derives the bounded 0-100 productivity score for a day from its
// stats plus optional lifestyle modifiers.
func Score(stats DailyStats, sleepHours *float64, exercise bool) int {
	return ExplainScore(stats, sleepHours, exercise).FinalScore
}

// ExplainScore runs the same computation as Score decomposed into named
// factors.
func ExplainScore(stats DailyStats, sleepHours *float64, exercise bool) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		Penalties: []ScoreFactor{},
		Bonuses:   []ScoreFactor{},
		Tips:      []string{},
	}

	if stats.Total > 0 {
		breakdown.BaseScore = int(math.Round(100 * float64(stats.Completed) / float64(stats.Total)))
	}
	score := breakdown.BaseScore

	if stats.Missed > 0 {
		impact := -5 * stats.Missed
		breakdown.Penalties = append(breakdown.Penalties, ScoreFactor{
			Type:    "missed_occurrences",
			Impact:  impact,
			Message: "Each missed occurrence costs 5 points.",
		})
		breakdown.Tips = append(breakdown.Tips, "Complete or reschedule occurrences before the day ends to avoid miss penalties.")
		score += impact
	}

	if sleepHours != nil && *sleepHours < 5 {
		breakdown.Penalties = append(breakdown.Penalties, ScoreFactor{
			Type:    "short_sleep",
			Impact:  -5,
			Message: "Less than 5 hours of sleep costs 5 points.",
		})
		breakdown.Tips = append(breakdown.Tips, "Aim for at least 5 hours of sleep; short nights reduce your score.")
		score -= 5
	}

	if exercise {
		breakdown.Bonuses = append(breakdown.Bonuses, ScoreFactor{
			Type:    "exercise",
			Impact:  3,
			Message: "Exercising adds 3 points.",
		})
		score += 3
	} else {
		breakdown.Tips = append(breakdown.Tips, "Log some exercise for a 3 point bonus.")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	breakdown.FinalScore = score

	return breakdown
}
