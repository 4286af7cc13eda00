package service

import (
	"context"
	"time"

	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/notify"
	"github.com/studia-app/studia/internal/repository"
)

// rewardOutcome captures everything a single study event changed in the
// user's gamification state.
type rewardOutcome struct {
	Points        int
	TotalPoints   int
	Level         int
	LeveledUp     bool
	Streak        domain.Streak
	StreakChanged bool
	Badge         *domain.Badge
}

// applyStudyReward credits points for one qualifying study event, rolls the
// streak forward, and awards the streak badge when it is first reached. Must
// run against tx-scoped repositories so the reward commits or rolls back
// with the event that earned it.
func applyStudyReward(ctx context.Context, users repository.UserRepo, userID string, points int, now time.Time) (*rewardOutcome, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	prevLevel := user.Gamification.Level

	total, err := users.AddPoints(ctx, userID, points)
	if err != nil {
		return nil, err
	}

	out := &rewardOutcome{
		Points:      points,
		TotalPoints: total,
		Level:       domain.LevelForPoints(total),
	}
	out.LeveledUp = out.Level > prevLevel

	before := user.Gamification.Streak.LastStudyDate
	user.Gamification.UpdateStreak(now)
	after := user.Gamification.Streak
	out.Streak = after
	out.StreakChanged = before == nil || !before.Equal(*after.LastStudyDate)
	if out.StreakChanged {
		if err := users.UpdateStreak(ctx, userID, after); err != nil {
			return nil, err
		}
	}

	if after.Current >= domain.StreakBadgeDays {
		b := domain.BadgeWeekWarrior
		b.EarnedAt = now
		awarded, err := users.AddBadge(ctx, userID, b)
		if err != nil {
			return nil, err
		}
		if awarded {
			out.Badge = &b
		}
	}
	return out, nil
}

// rewardEvents translates a reward outcome into the notification events the
// caller should emit after its transaction commits.
func rewardEvents(userID, source string, out *rewardOutcome, now time.Time) []notify.Event {
	events := []notify.Event{{
		Name:   notify.EventPointsAwarded,
		UserID: userID,
		At:     now,
		Data: map[string]interface{}{
			"points":       out.Points,
			"total_points": out.TotalPoints,
			"source":       source,
		},
	}}
	if out.LeveledUp {
		events = append(events, notify.Event{
			Name:   notify.EventLevelUp,
			UserID: userID,
			At:     now,
			Data:   map[string]interface{}{"level": out.Level},
		})
	}
	if out.StreakChanged {
		events = append(events, notify.Event{
			Name:   notify.EventStreakUpdated,
			UserID: userID,
			At:     now,
			Data: map[string]interface{}{
				"current": out.Streak.Current,
				"longest": out.Streak.Longest,
			},
		})
	}
	if out.Badge != nil {
		events = append(events, notify.Event{
			Name:   notify.EventBadgeEarned,
			UserID: userID,
			At:     now,
			Data:   map[string]interface{}{"badge": out.Badge.Name},
		})
	}
	return events
}
