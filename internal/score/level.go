package score

// NextLevelScore is the score at which the progress bar is full.
const NextLevelScore = 200

type Level struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LevelFor buckets a floored score.
func LevelFor(score int) Level {
	switch {
	case score < 50:
		return Level{Name: "beginner", Color: "#4CAF50"}
	case score < 100:
		return Level{Name: "intermediate", Color: "#FF9800"}
	case score < 200:
		return Level{Name: "advanced", Color: "#F44336"}
	default:
		return Level{Name: "master", Color: "#9C27B0"}
	}
}

// PointsToNextLevel is never negative.
func PointsToNextLevel(score int) int {
	if score >= NextLevelScore {
		return 0
	}
	return NextLevelScore - score
}
