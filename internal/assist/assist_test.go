package assist

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/llm"
)

type mockClient struct {
	response string
	err      error
	lastReq  llm.GenerateRequest
}

func (m *mockClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &llm.GenerateResponse{Text: m.response, Model: "llama3.2"}, nil
}

func (m *mockClient) Available(_ context.Context) bool { return m.err == nil }

func draftJSON(d PlanDraft) string {
	data, _ := json.Marshal(d)
	return string(data)
}

func minimalDraft() PlanDraft {
	return PlanDraft{
		Title:      "Linear Algebra Finals",
		Subject:    "Mathematics",
		ExamDate:   "2025-07-01",
		TotalHours: 40,
		DailyHours: 2,
		Difficulty: "medium",
		Topics: []DraftTopic{
			{Name: "Vectors", EstimatedHours: 10, Priority: 8},
			{Name: "Matrices", EstimatedHours: 12, Priority: 9, Subtopics: []string{"Determinants"}},
		},
		Confidence: 0.8,
	}
}

func TestPlanDraftService_Draft(t *testing.T) {
	client := &mockClient{response: draftJSON(minimalDraft())}

	svc := NewPlanDraftService(client)
	draft, err := svc.Draft(context.Background(), "I need to pass linear algebra on July 1st")

	require.NoError(t, err)
	assert.Equal(t, llm.TaskPlanDraft, client.lastReq.Task)
	assert.Equal(t, "Linear Algebra Finals", draft.Title)
	assert.Len(t, draft.Topics, 2)
}

func TestPlanDraftService_FencedOutput(t *testing.T) {
	client := &mockClient{response: "```json\n" + draftJSON(minimalDraft()) + "\n```"}

	svc := NewPlanDraftService(client)
	draft, err := svc.Draft(context.Background(), "linear algebra")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", draft.Subject)
}

func TestPlanDraftService_RejectsInvalidDraft(t *testing.T) {
	d := minimalDraft()
	d.Topics = nil
	client := &mockClient{response: draftJSON(d)}

	svc := NewPlanDraftService(client)
	_, err := svc.Draft(context.Background(), "linear algebra")
	assert.Error(t, err)
}

func TestPlanDraftService_PropagatesClientError(t *testing.T) {
	client := &mockClient{err: llm.ErrUnavailable}

	svc := NewPlanDraftService(client)
	_, err := svc.Draft(context.Background(), "linear algebra")
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestPlanDraft_ToPlan(t *testing.T) {
	d := minimalDraft()
	p, err := d.ToPlan("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "Linear Algebra Finals", p.Title)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), p.ExamDate)
	assert.Equal(t, domain.DifficultyMedium, p.Difficulty)
	require.Len(t, p.Topics, 2)
	assert.Equal(t, []string{"Determinants"}, p.Topics[1].Subtopics)
}

func TestPlanDraft_ToPlan_BadDate(t *testing.T) {
	d := minimalDraft()
	d.ExamDate = "July 1st"
	_, err := d.ToPlan("user-1")
	assert.Error(t, err)
}

func TestPlanDraft_ToPlan_UnknownDifficultyDefaultsMedium(t *testing.T) {
	d := minimalDraft()
	d.Difficulty = "brutal"
	p, err := d.ToPlan("user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyMedium, p.Difficulty)
}

func TestChatService_Reply(t *testing.T) {
	client := &mockClient{response: "Start with vectors, they underpin everything else."}

	svc := NewChatService(client)
	reply, err := svc.Reply(context.Background(), []ChatTurn{
		{Role: "User", Content: "What should I study first?"},
		{Role: "Assistant", Content: "What is the exam about?"},
	}, "Linear algebra")

	require.NoError(t, err)
	assert.Equal(t, llm.TaskChat, client.lastReq.Task)
	assert.Equal(t, "Start with vectors, they underpin everything else.", reply)
	assert.Contains(t, client.lastReq.UserPrompt, "What should I study first?")
	assert.Contains(t, client.lastReq.UserPrompt, "User: Linear algebra")
}

func TestChatService_EmptyReplyIsInvalidOutput(t *testing.T) {
	client := &mockClient{response: "   \n"}

	svc := NewChatService(client)
	_, err := svc.Reply(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func summaryTestPlan() *domain.StudyPlan {
	p := &domain.StudyPlan{
		Title:    "Algebra",
		Subject:  "Mathematics",
		ExamDate: time.Now().UTC().AddDate(0, 0, 14),
		Topics: []domain.Topic{
			{Name: "Vectors", EstimatedHours: 10, Completed: true},
			{Name: "Matrices", EstimatedHours: 12},
		},
		CreatedAt: time.Now().UTC().AddDate(0, 0, -14),
	}
	p.RecomputeProgress(time.Now().UTC())
	return p
}

func TestSummaryService_UsesLLMText(t *testing.T) {
	client := &mockClient{response: "Halfway there. Focus on matrices next."}

	svc := NewSummaryService(client)
	summary, err := svc.Summarize(context.Background(), summaryTestPlan())

	require.NoError(t, err)
	assert.Equal(t, llm.TaskSummary, client.lastReq.Task)
	assert.Equal(t, "Halfway there. Focus on matrices next.", summary)
	assert.Contains(t, client.lastReq.UserPrompt, "Matrices", "remaining topics go into the prompt")
}

func TestSummaryService_FallsBackWhenUnavailable(t *testing.T) {
	client := &mockClient{err: llm.ErrUnavailable}

	svc := NewSummaryService(client)
	summary, err := svc.Summarize(context.Background(), summaryTestPlan())

	require.NoError(t, err)
	assert.Contains(t, summary, "1 of 2 topics completed")
}

func quizJSON(q Quiz) string {
	data, _ := json.Marshal(q)
	return string(data)
}

func validQuiz() Quiz {
	return Quiz{
		Topic: "Vectors",
		Questions: []QuizQuestion{{
			Question:    "What is the dot product of orthogonal vectors?",
			Options:     []string{"0", "1", "-1", "undefined"},
			AnswerIndex: 0,
			Explanation: "Orthogonal vectors have a dot product of zero.",
		}},
	}
}

func TestQuizService_Generate(t *testing.T) {
	client := &mockClient{response: quizJSON(validQuiz())}

	svc := NewQuizService(client)
	quiz, err := svc.Generate(context.Background(), "Vectors", 1)

	require.NoError(t, err)
	assert.Equal(t, llm.TaskQuiz, client.lastReq.Task)
	assert.Contains(t, client.lastReq.UserPrompt, "Number of questions: 1")
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 0, quiz.Questions[0].AnswerIndex)
}

func TestQuizService_DefaultAndCappedCount(t *testing.T) {
	client := &mockClient{response: quizJSON(validQuiz())}
	svc := NewQuizService(client)

	_, err := svc.Generate(context.Background(), "Vectors", 0)
	require.NoError(t, err)
	assert.Contains(t, client.lastReq.UserPrompt, "Number of questions: 5")

	_, err = svc.Generate(context.Background(), "Vectors", 99)
	require.NoError(t, err)
	assert.Contains(t, client.lastReq.UserPrompt, "Number of questions: 20")
}

func TestQuizService_RejectsOutOfRangeAnswer(t *testing.T) {
	q := validQuiz()
	q.Questions[0].AnswerIndex = 7
	client := &mockClient{response: quizJSON(q)}

	svc := NewQuizService(client)
	_, err := svc.Generate(context.Background(), "Vectors", 1)
	assert.Error(t, err)
}

func TestInsightService_FallsBackDeterministically(t *testing.T) {
	client := &mockClient{err: llm.ErrTimeout}

	svc := NewInsightService(client)
	insight, err := svc.PaceInsight(context.Background(), summaryTestPlan())

	require.NoError(t, err)
	assert.NotEmpty(t, insight)
}

func TestInsightService_UsesLLMText(t *testing.T) {
	client := &mockClient{response: "Two hours a day gets you there with a week to spare."}

	svc := NewInsightService(client)
	insight, err := svc.PaceInsight(context.Background(), summaryTestPlan())

	require.NoError(t, err)
	assert.Equal(t, llm.TaskInsight, client.lastReq.Task)
	assert.Equal(t, "Two hours a day gets you there with a week to spare.", insight)
}
