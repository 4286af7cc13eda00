package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/studia-app/studia/internal/db"
	"github.com/studia-app/studia/internal/domain"
)

// userColumns is the canonical SELECT column list for users.
const userColumns = `id, name, email, password_hash, external_id,
		pref_daily_hours, pref_preferred_time, pref_session_min, pref_short_break_min, pref_long_break_min,
		total_points, level, streak_current, streak_longest, last_study_date,
		created_at, updated_at`

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(conn db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: conn}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, name, email, password_hash, external_id,
		pref_daily_hours, pref_preferred_time, pref_session_min, pref_short_break_min, pref_long_break_min,
		total_points, level, streak_current, streak_longest, last_study_date,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.ExternalID,
		u.Preferences.DailyHoursTarget,
		u.Preferences.PreferredTime,
		u.Preferences.SessionMin,
		u.Preferences.ShortBreakMin,
		u.Preferences.LongBreakMin,
		u.Gamification.TotalPoints,
		u.Gamification.Level,
		u.Gamification.Streak.Current,
		u.Gamification.Streak.Longest,
		nullableTimeToString(u.Gamification.Streak.LastStudyDate, dateLayout),
		u.CreatedAt.Format(time.RFC3339),
		u.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	for _, b := range u.Gamification.Badges {
		if _, err := r.AddBadge(ctx, u.ID, b); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanUser(ctx, row)
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	row := r.db.QueryRowContext(ctx, query, email)
	return r.scanUser(ctx, row)
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = ?, email = ?, password_hash = ?, external_id = ?,
		pref_daily_hours = ?, pref_preferred_time = ?, pref_session_min = ?,
		pref_short_break_min = ?, pref_long_break_min = ?,
		total_points = ?, level = ?, streak_current = ?, streak_longest = ?, last_study_date = ?,
		updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.ExternalID,
		u.Preferences.DailyHoursTarget,
		u.Preferences.PreferredTime,
		u.Preferences.SessionMin,
		u.Preferences.ShortBreakMin,
		u.Preferences.LongBreakMin,
		u.Gamification.TotalPoints,
		u.Gamification.Level,
		u.Gamification.Streak.Current,
		u.Gamification.Streak.Longest,
		nullableTimeToString(u.Gamification.Streak.LastStudyDate, dateLayout),
		u.UpdatedAt.Format(time.RFC3339),
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) AddPoints(ctx context.Context, userID string, amount int) (int, error) {
	// The level expression must match domain.LevelForPoints. Both column
	// references on the right-hand side see the pre-update value, so the
	// increment and the rederived level commit together.
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET total_points = total_points + ?,
		     level = (total_points + ?) / 1000 + 1,
		     updated_at = ?
		 WHERE id = ?`,
		amount, amount, nowUTC(), userID)
	if err != nil {
		return 0, fmt.Errorf("adding points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("adding points: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("user: %w", ErrNotFound)
	}

	var total int
	row := r.db.QueryRowContext(ctx, `SELECT total_points FROM users WHERE id = ?`, userID)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("reading point total: %w", err)
	}
	return total, nil
}

func (r *SQLiteUserRepo) UpdateStreak(ctx context.Context, userID string, s domain.Streak) error {
	query := `UPDATE users SET streak_current = ?, streak_longest = ?, last_study_date = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.Current,
		s.Longest,
		nullableTimeToString(s.LastStudyDate, dateLayout),
		nowUTC(),
		userID,
	)
	if err != nil {
		return fmt.Errorf("updating streak: %w", err)
	}
	return nil
}

func (r *SQLiteUserRepo) AddBadge(ctx context.Context, userID string, b domain.Badge) (bool, error) {
	query := `INSERT OR IGNORE INTO badges (user_id, name, descr, icon, earned_at)
		VALUES (?, ?, ?, ?, ?)`
	earnedAt := b.EarnedAt
	if earnedAt.IsZero() {
		earnedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, query,
		userID,
		b.Name,
		b.Description,
		b.Icon,
		earnedAt.Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("awarding badge: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("awarding badge: %w", err)
	}
	return affected == 1, nil
}

// scanUser scans a single user from a *sql.Row and loads their badges.
func (r *SQLiteUserRepo) scanUser(ctx context.Context, row *sql.Row) (*domain.User, error) {
	var u domain.User
	var lastStudyStr sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.ExternalID,
		&u.Preferences.DailyHoursTarget, &u.Preferences.PreferredTime, &u.Preferences.SessionMin,
		&u.Preferences.ShortBreakMin, &u.Preferences.LongBreakMin,
		&u.Gamification.TotalPoints, &u.Gamification.Level,
		&u.Gamification.Streak.Current, &u.Gamification.Streak.Longest, &lastStudyStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.Gamification.Streak.LastStudyDate = parseNullableTime(lastStudyStr, dateLayout)

	var parseErr error
	u.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	u.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	badges, err := r.loadBadges(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Gamification.Badges = badges
	return &u, nil
}

func (r *SQLiteUserRepo) loadBadges(ctx context.Context, userID string) ([]domain.Badge, error) {
	query := `SELECT name, descr, icon, earned_at FROM badges WHERE user_id = ? ORDER BY earned_at, name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing badges: %w", err)
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		var earnedAtStr string
		if err := rows.Scan(&b.Name, &b.Description, &b.Icon, &earnedAtStr); err != nil {
			return nil, fmt.Errorf("scanning badge: %w", err)
		}
		b.EarnedAt, err = time.Parse(time.RFC3339, earnedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing earned_at: %w", err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating badges: %w", err)
	}
	return badges, nil
}
