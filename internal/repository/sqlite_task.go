package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/studia-app/studia/internal/db"
	"github.com/studia-app/studia/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, user_id, plan_id, title, subject, topic, type, priority, difficulty, status,
		scheduled_date, start_time, end_time, estimated_min, actual_min,
		completion_pct, completed_at, completion_notes, completion_rating,
		recurrence, tags, color, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database. Pomodoro
// sessions and reminders live in child tables keyed by (task_id, position)
// and are rewritten wholesale on every save.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, user_id, plan_id, title, subject, topic, type, priority, difficulty, status,
		scheduled_date, start_time, end_time, estimated_min, actual_min,
		completion_pct, completed_at, completion_notes, completion_rating,
		recurrence, tags, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		emptyToNull(t.PlanID),
		t.Title,
		t.Subject,
		t.Topic,
		t.Type,
		string(t.Priority),
		string(t.Difficulty),
		string(t.Status),
		t.Scheduled.Format(dateLayout),
		t.StartTime,
		t.EndTime,
		t.EstimatedMin,
		t.ActualMin,
		completionPct(t.Completion),
		completionTime(t.Completion),
		completionNotes(t.Completion),
		completionRating(t.Completion),
		t.Recurrence,
		marshalStrings(t.Tags),
		t.Color,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return r.replaceChildren(ctx, t)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	t, err := r.scanTask(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByUser(ctx context.Context, userID string, f TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []interface{}{userID}

	if f.PlanID != "" {
		query += ` AND plan_id = ?`
		args = append(args, f.PlanID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.From != nil {
		query += ` AND scheduled_date >= ?`
		args = append(args, f.From.Format(dateLayout))
	}
	if f.To != nil {
		query += ` AND scheduled_date <= ?`
		args = append(args, f.To.Format(dateLayout))
	}
	query += ` ORDER BY scheduled_date, start_time, created_at`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := r.scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	for _, t := range tasks {
		if err := r.loadChildren(ctx, t); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET plan_id = ?, title = ?, subject = ?, topic = ?, type = ?,
		priority = ?, difficulty = ?, status = ?,
		scheduled_date = ?, start_time = ?, end_time = ?, estimated_min = ?, actual_min = ?,
		completion_pct = ?, completed_at = ?, completion_notes = ?, completion_rating = ?,
		recurrence = ?, tags = ?, color = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		emptyToNull(t.PlanID),
		t.Title,
		t.Subject,
		t.Topic,
		t.Type,
		string(t.Priority),
		string(t.Difficulty),
		string(t.Status),
		t.Scheduled.Format(dateLayout),
		t.StartTime,
		t.EndTime,
		t.EstimatedMin,
		t.ActualMin,
		completionPct(t.Completion),
		completionTime(t.Completion),
		completionNotes(t.Completion),
		completionRating(t.Completion),
		t.Recurrence,
		marshalStrings(t.Tags),
		t.Color,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return r.replaceChildren(ctx, t)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) replaceChildren(ctx context.Context, t *domain.Task) error {
	for _, table := range []string{"pomodoro_sessions", "reminders"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE task_id = ?`, t.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, s := range t.Sessions {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO pomodoro_sessions (task_id, position, started_at, ended_at, duration_min, completed, kind)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, s.StartedAt.Format(time.RFC3339), nullableTimeToString(s.EndedAt, time.RFC3339),
			s.DurationMin, boolToInt(s.Completed), string(s.Kind),
		)
		if err != nil {
			return fmt.Errorf("inserting pomodoro session: %w", err)
		}
	}

	for i, rem := range t.Reminders {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO reminders (task_id, position, remind_at, sent) VALUES (?, ?, ?, ?)`,
			t.ID, i, rem.At.Format(time.RFC3339), boolToInt(rem.Sent),
		)
		if err != nil {
			return fmt.Errorf("inserting reminder: %w", err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) loadChildren(ctx context.Context, t *domain.Task) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT started_at, ended_at, duration_min, completed, kind
		FROM pomodoro_sessions WHERE task_id = ? ORDER BY position`, t.ID)
	if err != nil {
		return fmt.Errorf("listing pomodoro sessions: %w", err)
	}
	defer rows.Close()

	t.Sessions = nil
	for rows.Next() {
		var s domain.PomodoroSession
		var startedStr, kindStr string
		var endedStr sql.NullString
		var completedInt int
		if err := rows.Scan(&startedStr, &endedStr, &s.DurationMin, &completedInt, &kindStr); err != nil {
			return fmt.Errorf("scanning pomodoro session: %w", err)
		}
		s.StartedAt, err = time.Parse(time.RFC3339, startedStr)
		if err != nil {
			return fmt.Errorf("parsing started_at: %w", err)
		}
		s.EndedAt = parseNullableTime(endedStr, time.RFC3339)
		s.Completed = intToBool(completedInt)
		s.Kind = domain.SessionKind(kindStr)
		t.Sessions = append(t.Sessions, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating pomodoro sessions: %w", err)
	}

	remRows, err := r.db.QueryContext(ctx,
		`SELECT remind_at, sent FROM reminders WHERE task_id = ? ORDER BY position`, t.ID)
	if err != nil {
		return fmt.Errorf("listing reminders: %w", err)
	}
	defer remRows.Close()

	t.Reminders = nil
	for remRows.Next() {
		var rem domain.Reminder
		var atStr string
		var sentInt int
		if err := remRows.Scan(&atStr, &sentInt); err != nil {
			return fmt.Errorf("scanning reminder: %w", err)
		}
		rem.At, err = time.Parse(time.RFC3339, atStr)
		if err != nil {
			return fmt.Errorf("parsing remind_at: %w", err)
		}
		rem.Sent = intToBool(sentInt)
		t.Reminders = append(t.Reminders, rem)
	}
	return remRows.Err()
}

// scanTask scans a single task from a *sql.Row.
func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var planIDStr, completedAtStr sql.NullString
	var priorityStr, difficultyStr, statusStr, scheduledStr, tagsStr string
	var pctInt, ratingInt int
	var notesStr string
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.UserID, &planIDStr, &t.Title, &t.Subject, &t.Topic, &t.Type,
		&priorityStr, &difficultyStr, &statusStr,
		&scheduledStr, &t.StartTime, &t.EndTime, &t.EstimatedMin, &t.ActualMin,
		&pctInt, &completedAtStr, &notesStr, &ratingInt,
		&t.Recurrence, &tagsStr, &t.Color, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return r.populateTask(&t, planIDStr, completedAtStr, priorityStr, difficultyStr, statusStr,
		scheduledStr, tagsStr, pctInt, ratingInt, notesStr, createdAtStr, updatedAtStr)
}

// scanTaskRow scans a single task from *sql.Rows.
func (r *SQLiteTaskRepo) scanTaskRow(rows *sql.Rows) (*domain.Task, error) {
	var t domain.Task
	var planIDStr, completedAtStr sql.NullString
	var priorityStr, difficultyStr, statusStr, scheduledStr, tagsStr string
	var pctInt, ratingInt int
	var notesStr string
	var createdAtStr, updatedAtStr string

	err := rows.Scan(
		&t.ID, &t.UserID, &planIDStr, &t.Title, &t.Subject, &t.Topic, &t.Type,
		&priorityStr, &difficultyStr, &statusStr,
		&scheduledStr, &t.StartTime, &t.EndTime, &t.EstimatedMin, &t.ActualMin,
		&pctInt, &completedAtStr, &notesStr, &ratingInt,
		&t.Recurrence, &tagsStr, &t.Color, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning task row: %w", err)
	}
	return r.populateTask(&t, planIDStr, completedAtStr, priorityStr, difficultyStr, statusStr,
		scheduledStr, tagsStr, pctInt, ratingInt, notesStr, createdAtStr, updatedAtStr)
}

func (r *SQLiteTaskRepo) populateTask(
	t *domain.Task,
	planIDStr, completedAtStr sql.NullString,
	priorityStr, difficultyStr, statusStr, scheduledStr, tagsStr string,
	pctInt, ratingInt int,
	notesStr string,
	createdAtStr, updatedAtStr string,
) (*domain.Task, error) {
	if planIDStr.Valid {
		t.PlanID = planIDStr.String
	}
	t.Priority = domain.Priority(priorityStr)
	t.Difficulty = domain.Difficulty(difficultyStr)
	t.Status = domain.TaskStatus(statusStr)
	t.Tags = unmarshalStrings(tagsStr)

	var parseErr error
	t.Scheduled, parseErr = time.Parse(dateLayout, scheduledStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing scheduled_date: %w", parseErr)
	}
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	// A completion record exists exactly when completed_at is set.
	if at := parseNullableTime(completedAtStr, time.RFC3339); at != nil {
		t.Completion = &domain.Completion{
			Percentage:  pctInt,
			CompletedAt: *at,
			Notes:       notesStr,
			Rating:      ratingInt,
		}
	}
	return t, nil
}

// emptyToNull maps an empty string to SQL NULL for nullable foreign keys.
func emptyToNull(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func completionPct(c *domain.Completion) int {
	if c == nil {
		return 0
	}
	return c.Percentage
}

func completionTime(c *domain.Completion) interface{} {
	if c == nil {
		return nil
	}
	return c.CompletedAt.Format(time.RFC3339)
}

func completionNotes(c *domain.Completion) string {
	if c == nil {
		return ""
	}
	return c.Notes
}

func completionRating(c *domain.Completion) int {
	if c == nil {
		return 0
	}
	return c.Rating
}
