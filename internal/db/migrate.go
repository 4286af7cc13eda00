package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL,
		email                TEXT NOT NULL UNIQUE,
		password_hash        TEXT NOT NULL DEFAULT '',
		external_id          TEXT NOT NULL DEFAULT '',
		pref_daily_hours     REAL NOT NULL DEFAULT 2,
		pref_preferred_time  TEXT NOT NULL DEFAULT 'evening',
		pref_session_min     INTEGER NOT NULL DEFAULT 25,
		pref_short_break_min INTEGER NOT NULL DEFAULT 5,
		pref_long_break_min  INTEGER NOT NULL DEFAULT 15,
		total_points         INTEGER NOT NULL DEFAULT 0,
		level                INTEGER NOT NULL DEFAULT 1,
		streak_current       INTEGER NOT NULL DEFAULT 0,
		streak_longest       INTEGER NOT NULL DEFAULT 0,
		last_study_date      TEXT,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS badges (
		user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name      TEXT NOT NULL,
		descr     TEXT NOT NULL DEFAULT '',
		icon      TEXT NOT NULL DEFAULT '',
		earned_at TEXT NOT NULL,
		PRIMARY KEY (user_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS study_plans (
		id                  TEXT PRIMARY KEY,
		user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title               TEXT NOT NULL,
		subject             TEXT NOT NULL DEFAULT '',
		exam_date           TEXT NOT NULL,
		total_hours_target  REAL NOT NULL DEFAULT 0,
		daily_hours_target  REAL NOT NULL DEFAULT 0,
		difficulty          TEXT NOT NULL DEFAULT 'medium'
		                    CHECK(difficulty IN ('easy','medium','hard')),
		priority            TEXT NOT NULL DEFAULT 'medium'
		                    CHECK(priority IN ('low','medium','high')),
		status              TEXT NOT NULL DEFAULT 'active'
		                    CHECK(status IN ('active','paused','completed','archived')),
		topics_completed    INTEGER NOT NULL DEFAULT 0,
		topics_total        INTEGER NOT NULL DEFAULT 0,
		percentage_complete INTEGER NOT NULL DEFAULT 0,
		hours_studied       REAL NOT NULL DEFAULT 0,
		days_remaining      INTEGER NOT NULL DEFAULT 0,
		on_track            INTEGER NOT NULL DEFAULT 1,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_study_plans_user ON study_plans(user_id)`,

	`CREATE TABLE IF NOT EXISTS topics (
		plan_id         TEXT NOT NULL REFERENCES study_plans(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		name            TEXT NOT NULL,
		subtopics       TEXT NOT NULL DEFAULT '[]',
		estimated_hours REAL NOT NULL DEFAULT 0,
		difficulty      TEXT NOT NULL DEFAULT 'medium',
		priority        INTEGER NOT NULL DEFAULT 5,
		completed       INTEGER NOT NULL DEFAULT 0,
		completed_at    TEXT,
		notes           TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (plan_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_goals (
		plan_id      TEXT NOT NULL REFERENCES study_plans(id) ON DELETE CASCADE,
		week         INTEGER NOT NULL,
		start_date   TEXT NOT NULL,
		end_date     TEXT NOT NULL,
		target_hours REAL NOT NULL DEFAULT 0,
		actual_hours REAL NOT NULL DEFAULT 0,
		topic_hours  TEXT NOT NULL DEFAULT '{}',
		completed    INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (plan_id, week)
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		plan_id           TEXT NOT NULL REFERENCES study_plans(id) ON DELETE CASCADE,
		position          INTEGER NOT NULL,
		title             TEXT NOT NULL,
		target_date       TEXT NOT NULL,
		target_percentage INTEGER NOT NULL DEFAULT 100,
		completed         INTEGER NOT NULL DEFAULT 0,
		completed_at      TEXT,
		PRIMARY KEY (plan_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS insights (
		plan_id      TEXT NOT NULL REFERENCES study_plans(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		kind         TEXT NOT NULL DEFAULT '',
		content      TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		PRIMARY KEY (plan_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		plan_id           TEXT REFERENCES study_plans(id) ON DELETE CASCADE,
		title             TEXT NOT NULL,
		subject           TEXT NOT NULL DEFAULT '',
		topic             TEXT NOT NULL DEFAULT '',
		type              TEXT NOT NULL DEFAULT 'study',
		priority          TEXT NOT NULL DEFAULT 'medium'
		                  CHECK(priority IN ('low','medium','high')),
		difficulty        TEXT NOT NULL DEFAULT 'medium'
		                  CHECK(difficulty IN ('easy','medium','hard')),
		status            TEXT NOT NULL DEFAULT 'pending'
		                  CHECK(status IN ('pending','in_progress','completed','cancelled','overdue')),
		scheduled_date    TEXT NOT NULL,
		start_time        TEXT NOT NULL DEFAULT '',
		end_time          TEXT NOT NULL DEFAULT '',
		estimated_min     INTEGER NOT NULL DEFAULT 0,
		actual_min        INTEGER NOT NULL DEFAULT 0,
		completion_pct    INTEGER NOT NULL DEFAULT 0,
		completed_at      TEXT,
		completion_notes  TEXT NOT NULL DEFAULT '',
		completion_rating INTEGER NOT NULL DEFAULT 0,
		recurrence        TEXT NOT NULL DEFAULT '',
		tags              TEXT NOT NULL DEFAULT '[]',
		color             TEXT NOT NULL DEFAULT '',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_plan ON tasks(plan_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_scheduled ON tasks(scheduled_date)`,

	`CREATE TABLE IF NOT EXISTS pomodoro_sessions (
		task_id      TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		started_at   TEXT NOT NULL,
		ended_at     TEXT,
		duration_min INTEGER NOT NULL DEFAULT 25,
		completed    INTEGER NOT NULL DEFAULT 0,
		kind         TEXT NOT NULL DEFAULT 'work'
		             CHECK(kind IN ('work','short_break','long_break')),
		PRIMARY KEY (task_id, position)
	)`,

	`CREATE TABLE IF NOT EXISTS reminders (
		task_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL,
		remind_at TEXT NOT NULL,
		sent      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (task_id, position)
	)`,
}
