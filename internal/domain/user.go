package domain

import "time"

// Point rewards for qualifying study events. These amounts are part of the
// gamification contract and are asserted by tests.
const (
	PointsTaskCompleted     = 25
	PointsTopicCompleted    = 50
	PointsPomodoroCompleted = 10

	pointsPerLevel = 1000

	// StreakBadgeDays is the streak length that earns BadgeWeekWarrior.
	StreakBadgeDays = 7
)

// BadgeWeekWarrior is awarded once for a seven-day study streak.
var BadgeWeekWarrior = Badge{
	Name:        "Week Warrior",
	Description: "Studied seven days in a row",
	Icon:        "flame",
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // empty for external-identity accounts
	ExternalID   string // empty for password accounts
	Preferences  StudyPreferences
	Gamification Gamification
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type StudyPreferences struct {
	DailyHoursTarget float64
	PreferredTime    string // "morning", "afternoon", "evening", "night"
	SessionMin       int
	ShortBreakMin    int
	LongBreakMin     int
}

type Gamification struct {
	TotalPoints int
	Level       int
	Badges      []Badge
	Streak      Streak
}

type Badge struct {
	Name        string
	Description string
	Icon        string
	EarnedAt    time.Time
}

type Streak struct {
	Current       int
	Longest       int
	LastStudyDate *time.Time // day-truncated
}

// LevelForPoints derives the level from a point total: one level per
// thousand points, starting at level 1.
func LevelForPoints(points int) int {
	return points/pointsPerLevel + 1
}

// AddPoints credits points and rederives the level. Reports whether the
// level increased, and the resulting level.
func (g *Gamification) AddPoints(amount int) (levelUp bool, newLevel int) {
	g.TotalPoints += amount
	newLevel = LevelForPoints(g.TotalPoints)
	levelUp = newLevel > g.Level
	g.Level = newLevel
	return levelUp, newLevel
}

// UpdateStreak applies one qualifying study event to the streak, comparing
// day-truncated dates. Repeat events on the same day are no-ops, a
// consecutive day extends the streak, and any gap resets it to one. Callers
// invoke this once per study event, never once per request.
func (g *Gamification) UpdateStreak(now time.Time) {
	today := dateOnly(now)

	if g.Streak.LastStudyDate == nil {
		g.Streak.Current = 1
	} else {
		switch daysBetween(*g.Streak.LastStudyDate, today) {
		case 0:
			return
		case 1:
			g.Streak.Current++
		default:
			g.Streak.Current = 1
		}
	}

	if g.Streak.Current > g.Streak.Longest {
		g.Streak.Longest = g.Streak.Current
	}
	g.Streak.LastStudyDate = &today
}

// AddBadge inserts the badge unless one with the same name already exists.
// Reports whether the insertion happened, so callers can decide whether to
// notify.
func (g *Gamification) AddBadge(b Badge) bool {
	for _, existing := range g.Badges {
		if existing.Name == b.Name {
			return false
		}
	}
	g.Badges = append(g.Badges, b)
	return true
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole days from a to b, both already day-truncated.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
