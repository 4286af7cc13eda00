package service

import (
	"testing"

	"github.com/studia-app/studia/internal/db"
	"github.com/studia-app/studia/internal/notify"
	"github.com/studia-app/studia/internal/repository"
	"github.com/studia-app/studia/internal/testutil"
)

func setupRepos(t *testing.T) (repository.UserRepo, repository.PlanRepo, repository.TaskRepo, db.UnitOfWork) {
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteUserRepo(database),
		repository.NewSQLitePlanRepo(database),
		repository.NewSQLiteTaskRepo(database),
		testutil.NewTestUoW(database)
}

// drainEvents collects everything the emitter has buffered so far.
func drainEvents(e *notify.ChannelEmitter) []notify.Event {
	var events []notify.Event
	for {
		select {
		case ev := <-e.C:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func eventNames(events []notify.Event) []string {
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name)
	}
	return names
}
