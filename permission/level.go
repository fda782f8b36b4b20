package permission

import "strings"

// Level is a grant level from the closed, totally ordered set.
type Level string

const (
	LevelNone   Level = "NONE"
	LevelView   Level = "VIEW"
	LevelEdit   Level = "EDIT"
	LevelDelete Level = "DELETE"
	LevelAdmin  Level = "ADMIN"
)

// hierarchy defines the grant levels in ascending order of access.
// A level at position i implies everything granted by levels below i.
var hierarchy = []Level{LevelNone, LevelView, LevelEdit, LevelDelete, LevelAdmin}

// Levels returns the defined grant levels in ascending order.
func Levels() []Level {
	out := make([]Level, len(hierarchy))
	copy(out, hierarchy)
	return out
}

// Rank returns the position of level in the hierarchy, or -1 if the level
// is not one of the five defined levels.
func Rank(level Level) int {
	for i, l := range hierarchy {
		if l == level {
			return i
		}
	}
	return -1
}

// Satisfies reports whether userLevel grants at least requiredLevel.
// Unknown levels on either side deny access — fail closed, never permissive.
func Satisfies(userLevel, requiredLevel Level) bool {
	u, r := Rank(userLevel), Rank(requiredLevel)
	if u == -1 || r == -1 {
		return false
	}
	return u >= r
}

// IsValid reports whether level is one of the five defined levels.
func IsValid(level Level) bool {
	return Rank(level) != -1
}

// ParseLevel converts a level name to a Level, case-insensitively.
// Returns false for names outside the closed set.
func ParseLevel(name string) (Level, bool) {
	level := Level(strings.ToUpper(strings.TrimSpace(name)))
	if !IsValid(level) {
		return "", false
	}
	return level, true
}
