package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/studia-app/studia/internal/api"
	"github.com/studia-app/studia/internal/assist"
	"github.com/studia-app/studia/internal/auth"
	"github.com/studia-app/studia/internal/cli"
	"github.com/studia-app/studia/internal/config"
	"github.com/studia-app/studia/internal/db"
	"github.com/studia-app/studia/internal/domain"
	"github.com/studia-app/studia/internal/llm"
	"github.com/studia-app/studia/internal/notify"
	"github.com/studia-app/studia/internal/repository"
	"github.com/studia-app/studia/internal/service"
)

// localEmail identifies the account CLI commands act as. It is created on
// first run and has no password; it cannot be used to log in over HTTP.
const localEmail = "local@studia"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	userRepo := repository.NewSQLiteUserRepo(database)
	planRepo := repository.NewSQLitePlanRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	// The hub doubles as the event emitter so completions reach websocket
	// subscribers while "studia serve" is running.
	hub := notify.NewHub(log)

	app := &cli.App{
		Users: service.NewUserService(userRepo),
		Plans: service.NewPlanService(planRepo, uow, hub),
		Tasks: service.NewTaskService(taskRepo, uow, hub),
		Stats: service.NewStatsService(userRepo, planRepo, taskRepo),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	localID, err := ensureLocalUser(context.Background(), userRepo)
	if err != nil {
		return fmt.Errorf("preparing local account: %w", err)
	}
	app.UserID = localID

	var llmClient llm.Client
	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			observer = llm.NewZapObserver(log)
		}
		llmClient = llm.NewOllamaClient(llmCfg, observer)

		app.Draft = assist.NewPlanDraftService(llmClient)
		app.Chat = assist.NewChatService(llmClient)
		app.Summary = assist.NewSummaryService(llmClient)
		app.Quiz = assist.NewQuizService(llmClient)
		app.Insight = assist.NewInsightService(llmClient)
	}

	app.Serve = func() error {
		if err := cfg.RequireJWTSecret(); err != nil {
			return err
		}
		handler := api.NewHandler(api.HandlerConfig{
			Users:     app.Users,
			Plans:     app.Plans,
			Tasks:     app.Tasks,
			Stats:     app.Stats,
			Tokens:    auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL),
			Hub:       hub,
			Draft:     app.Draft,
			Chat:      app.Chat,
			Summary:   app.Summary,
			Quiz:      app.Quiz,
			Insight:   app.Insight,
			LLMClient: llmClient,
			Log:       log,
		})
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		return http.ListenAndServe(cfg.HTTPAddr, api.NewRouter(handler, cfg.CORSOrigins))
	}

	return cli.NewRootCmd(app).Execute()
}

// ensureLocalUser finds or creates the passwordless account the CLI acts
// as, and returns its ID.
func ensureLocalUser(ctx context.Context, users repository.UserRepo) (string, error) {
	u, err := users.GetByEmail(ctx, localEmail)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	now := time.Now().UTC()
	u = &domain.User{
		ID:    uuid.New().String(),
		Name:  "Local",
		Email: localEmail,
		Preferences: domain.StudyPreferences{
			DailyHoursTarget: 2,
			PreferredTime:    "evening",
			SessionMin:       domain.DefaultPomodoroMin,
			ShortBreakMin:    5,
			LongBreakMin:     15,
		},
		Gamification: domain.Gamification{Level: 1},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		return "", err
	}
	return u.ID, nil
}
