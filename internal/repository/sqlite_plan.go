package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/studia-app/studia/internal/db"
	"github.com/studia-app/studia/internal/domain"
)

// dateLayout is the storage format for date-granularity columns.
const dateLayout = "2006-01-02"

// planColumns is the canonical SELECT column list for study_plans.
const planColumns = `id, user_id, title, subject, exam_date,
		total_hours_target, daily_hours_target, difficulty, priority, status,
		topics_completed, topics_total, percentage_complete, hours_studied, days_remaining, on_track,
		created_at, updated_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database. Topics, weekly
// goals, milestones and insights live in child tables keyed by (plan_id,
// position) and are rewritten wholesale on every save.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.StudyPlan) error {
	query := `INSERT INTO study_plans (id, user_id, title, subject, exam_date,
		total_hours_target, daily_hours_target, difficulty, priority, status,
		topics_completed, topics_total, percentage_complete, hours_studied, days_remaining, on_track,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Subject,
		p.ExamDate.Format(dateLayout),
		p.TotalHoursTarget,
		p.DailyHoursTarget,
		string(p.Difficulty),
		string(p.Priority),
		string(p.Status),
		p.Progress.TopicsCompleted,
		p.Progress.TopicsTotal,
		p.Progress.PercentageComplete,
		p.Progress.HoursStudied,
		p.Progress.DaysRemaining,
		boolToInt(p.Progress.OnTrack),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting study plan: %w", err)
	}
	return r.replaceChildren(ctx, p)
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.StudyPlan, error) {
	query := `SELECT ` + planColumns + ` FROM study_plans WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	p, err := r.scanPlan(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) ListByUser(ctx context.Context, userID string, includeArchived bool) ([]*domain.StudyPlan, error) {
	query := `SELECT ` + planColumns + ` FROM study_plans WHERE user_id = ?`
	if !includeArchived {
		query += ` AND status != 'archived'`
	}
	query += ` ORDER BY exam_date, created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing study plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.StudyPlan
	for rows.Next() {
		p, err := r.scanPlanRow(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating study plans: %w", err)
	}

	for _, p := range plans {
		if err := r.loadChildren(ctx, p); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.StudyPlan) error {
	query := `UPDATE study_plans SET title = ?, subject = ?, exam_date = ?,
		total_hours_target = ?, daily_hours_target = ?, difficulty = ?, priority = ?, status = ?,
		topics_completed = ?, topics_total = ?, percentage_complete = ?, hours_studied = ?,
		days_remaining = ?, on_track = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Subject,
		p.ExamDate.Format(dateLayout),
		p.TotalHoursTarget,
		p.DailyHoursTarget,
		string(p.Difficulty),
		string(p.Priority),
		string(p.Status),
		p.Progress.TopicsCompleted,
		p.Progress.TopicsTotal,
		p.Progress.PercentageComplete,
		p.Progress.HoursStudied,
		p.Progress.DaysRemaining,
		boolToInt(p.Progress.OnTrack),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating study plan: %w", err)
	}
	return r.replaceChildren(ctx, p)
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM study_plans WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting study plan: %w", err)
	}
	return nil
}

// replaceChildren rewrites all child rows for the plan. Positions are the
// slice indices, so load order always matches in-memory order.
func (r *SQLitePlanRepo) replaceChildren(ctx context.Context, p *domain.StudyPlan) error {
	for _, table := range []string{"topics", "weekly_goals", "milestones", "insights"} {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE plan_id = ?`, p.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, t := range p.Topics {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO topics (plan_id, position, name, subtopics, estimated_hours, difficulty, priority, completed, completed_at, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, t.Name, marshalStrings(t.Subtopics), t.EstimatedHours,
			string(t.Difficulty), t.Priority, boolToInt(t.Completed),
			nullableTimeToString(t.CompletedAt, time.RFC3339), t.Notes,
		)
		if err != nil {
			return fmt.Errorf("inserting topic: %w", err)
		}
	}

	for _, g := range p.WeeklyGoals {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO weekly_goals (plan_id, week, start_date, end_date, target_hours, actual_hours, topic_hours, completed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, g.Week, g.StartDate.Format(dateLayout), g.EndDate.Format(dateLayout),
			g.TargetHours, g.ActualHours, marshalFloatMap(g.TopicHours), boolToInt(g.Completed),
		)
		if err != nil {
			return fmt.Errorf("inserting weekly goal: %w", err)
		}
	}

	for i, m := range p.Milestones {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO milestones (plan_id, position, title, target_date, target_percentage, completed, completed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, i, m.Title, m.TargetDate.Format(dateLayout), m.TargetPercentage,
			boolToInt(m.Completed), nullableTimeToString(m.CompletedAt, time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting milestone: %w", err)
		}
	}

	for i, in := range p.Insights {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO insights (plan_id, position, kind, content, generated_at)
			VALUES (?, ?, ?, ?, ?)`,
			p.ID, i, in.Kind, in.Content, in.GeneratedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting insight: %w", err)
		}
	}
	return nil
}

func (r *SQLitePlanRepo) loadChildren(ctx context.Context, p *domain.StudyPlan) error {
	if err := r.loadTopics(ctx, p); err != nil {
		return err
	}
	if err := r.loadWeeklyGoals(ctx, p); err != nil {
		return err
	}
	if err := r.loadMilestones(ctx, p); err != nil {
		return err
	}
	return r.loadInsights(ctx, p)
}

func (r *SQLitePlanRepo) loadTopics(ctx context.Context, p *domain.StudyPlan) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, subtopics, estimated_hours, difficulty, priority, completed, completed_at, notes
		FROM topics WHERE plan_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	p.Topics = nil
	for rows.Next() {
		var t domain.Topic
		var subtopicsStr, difficultyStr string
		var completedInt int
		var completedAtStr sql.NullString
		if err := rows.Scan(&t.Name, &subtopicsStr, &t.EstimatedHours, &difficultyStr,
			&t.Priority, &completedInt, &completedAtStr, &t.Notes); err != nil {
			return fmt.Errorf("scanning topic: %w", err)
		}
		t.Subtopics = unmarshalStrings(subtopicsStr)
		t.Difficulty = domain.Difficulty(difficultyStr)
		t.Completed = intToBool(completedInt)
		t.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
		p.Topics = append(p.Topics, t)
	}
	return rows.Err()
}

func (r *SQLitePlanRepo) loadWeeklyGoals(ctx context.Context, p *domain.StudyPlan) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT week, start_date, end_date, target_hours, actual_hours, topic_hours, completed
		FROM weekly_goals WHERE plan_id = ? ORDER BY week`, p.ID)
	if err != nil {
		return fmt.Errorf("listing weekly goals: %w", err)
	}
	defer rows.Close()

	p.WeeklyGoals = nil
	for rows.Next() {
		var g domain.WeeklyGoal
		var startStr, endStr, topicHoursStr string
		var completedInt int
		if err := rows.Scan(&g.Week, &startStr, &endStr, &g.TargetHours,
			&g.ActualHours, &topicHoursStr, &completedInt); err != nil {
			return fmt.Errorf("scanning weekly goal: %w", err)
		}
		g.StartDate, err = time.Parse(dateLayout, startStr)
		if err != nil {
			return fmt.Errorf("parsing start_date: %w", err)
		}
		g.EndDate, err = time.Parse(dateLayout, endStr)
		if err != nil {
			return fmt.Errorf("parsing end_date: %w", err)
		}
		g.TopicHours = unmarshalFloatMap(topicHoursStr)
		g.Completed = intToBool(completedInt)
		p.WeeklyGoals = append(p.WeeklyGoals, g)
	}
	return rows.Err()
}

func (r *SQLitePlanRepo) loadMilestones(ctx context.Context, p *domain.StudyPlan) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT title, target_date, target_percentage, completed, completed_at
		FROM milestones WHERE plan_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	p.Milestones = nil
	for rows.Next() {
		var m domain.Milestone
		var targetStr string
		var completedInt int
		var completedAtStr sql.NullString
		if err := rows.Scan(&m.Title, &targetStr, &m.TargetPercentage, &completedInt, &completedAtStr); err != nil {
			return fmt.Errorf("scanning milestone: %w", err)
		}
		m.TargetDate, err = time.Parse(dateLayout, targetStr)
		if err != nil {
			return fmt.Errorf("parsing target_date: %w", err)
		}
		m.Completed = intToBool(completedInt)
		m.CompletedAt = parseNullableTime(completedAtStr, time.RFC3339)
		p.Milestones = append(p.Milestones, m)
	}
	return rows.Err()
}

func (r *SQLitePlanRepo) loadInsights(ctx context.Context, p *domain.StudyPlan) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, content, generated_at FROM insights WHERE plan_id = ? ORDER BY position`, p.ID)
	if err != nil {
		return fmt.Errorf("listing insights: %w", err)
	}
	defer rows.Close()

	p.Insights = nil
	for rows.Next() {
		var in domain.Insight
		var generatedStr string
		if err := rows.Scan(&in.Kind, &in.Content, &generatedStr); err != nil {
			return fmt.Errorf("scanning insight: %w", err)
		}
		in.GeneratedAt, err = time.Parse(time.RFC3339, generatedStr)
		if err != nil {
			return fmt.Errorf("parsing generated_at: %w", err)
		}
		p.Insights = append(p.Insights, in)
	}
	return rows.Err()
}

// scanPlan scans a single plan from a *sql.Row.
func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*domain.StudyPlan, error) {
	var p domain.StudyPlan
	var examStr, difficultyStr, priorityStr, statusStr string
	var onTrackInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Subject, &examStr,
		&p.TotalHoursTarget, &p.DailyHoursTarget, &difficultyStr, &priorityStr, &statusStr,
		&p.Progress.TopicsCompleted, &p.Progress.TopicsTotal, &p.Progress.PercentageComplete,
		&p.Progress.HoursStudied, &p.Progress.DaysRemaining, &onTrackInt,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("study plan: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning study plan: %w", err)
	}
	return r.populatePlan(&p, examStr, difficultyStr, priorityStr, statusStr, onTrackInt, createdAtStr, updatedAtStr)
}

// scanPlanRow scans a single plan from *sql.Rows.
func (r *SQLitePlanRepo) scanPlanRow(rows *sql.Rows) (*domain.StudyPlan, error) {
	var p domain.StudyPlan
	var examStr, difficultyStr, priorityStr, statusStr string
	var onTrackInt int
	var createdAtStr, updatedAtStr string

	err := rows.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Subject, &examStr,
		&p.TotalHoursTarget, &p.DailyHoursTarget, &difficultyStr, &priorityStr, &statusStr,
		&p.Progress.TopicsCompleted, &p.Progress.TopicsTotal, &p.Progress.PercentageComplete,
		&p.Progress.HoursStudied, &p.Progress.DaysRemaining, &onTrackInt,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning study plan row: %w", err)
	}
	return r.populatePlan(&p, examStr, difficultyStr, priorityStr, statusStr, onTrackInt, createdAtStr, updatedAtStr)
}

func (r *SQLitePlanRepo) populatePlan(
	p *domain.StudyPlan,
	examStr, difficultyStr, priorityStr, statusStr string,
	onTrackInt int,
	createdAtStr, updatedAtStr string,
) (*domain.StudyPlan, error) {
	p.Difficulty = domain.Difficulty(difficultyStr)
	p.Priority = domain.Priority(priorityStr)
	p.Status = domain.PlanStatus(statusStr)
	p.Progress.OnTrack = intToBool(onTrackInt)

	var parseErr error
	p.ExamDate, parseErr = time.Parse(dateLayout, examStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing exam_date: %w", parseErr)
	}
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return p, nil
}
