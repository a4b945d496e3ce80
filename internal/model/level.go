package model

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel normalizes a raw level. Empty and unknown values map to intermediate.
func ParseLevel(raw string) Level {
	switch l := Level(raw); l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l
	default:
		return LevelIntermediate
	}
}
