package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter builds the HTTP routing table. The websocket endpoint lives
// outside the logging middleware because the status recorder would break
// connection hijacking.
func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/ws", h.ServeWS)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.requestLogger)

	api.HandleFunc("/health", h.HealthCheck).Methods("GET")
	api.HandleFunc("/auth/register", h.Register).Methods("POST")
	api.HandleFunc("/auth/login", h.Login).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(h.authMiddleware)

	authed.HandleFunc("/me", h.Me).Methods("GET")
	authed.HandleFunc("/me", h.DeleteAccount).Methods("DELETE")
	authed.HandleFunc("/me/preferences", h.UpdatePreferences).Methods("PUT")
	authed.HandleFunc("/me/stats", h.UserStats).Methods("GET")

	authed.HandleFunc("/plans", h.CreatePlan).Methods("POST")
	authed.HandleFunc("/plans", h.ListPlans).Methods("GET")
	authed.HandleFunc("/plans/{id}", h.GetPlan).Methods("GET")
	authed.HandleFunc("/plans/{id}", h.DeletePlan).Methods("DELETE")
	authed.HandleFunc("/plans/{id}/archive", h.ArchivePlan).Methods("POST")
	authed.HandleFunc("/plans/{id}/complete-topic", h.CompleteTopic).Methods("POST")
	authed.HandleFunc("/plans/{id}/hours", h.LogStudyHours).Methods("POST")
	authed.HandleFunc("/plans/{id}/pace", h.PlanPace).Methods("GET")
	authed.HandleFunc("/plans/{id}/insights", h.AddInsight).Methods("POST")
	authed.HandleFunc("/plans/{id}/insights/generate", h.GenerateInsight).Methods("POST")
	authed.HandleFunc("/plans/{id}/summary", h.SummarizePlan).Methods("GET")

	authed.HandleFunc("/tasks", h.CreateTask).Methods("POST")
	authed.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	authed.HandleFunc("/tasks/{id}", h.GetTask).Methods("GET")
	authed.HandleFunc("/tasks/{id}", h.DeleteTask).Methods("DELETE")
	authed.HandleFunc("/tasks/{id}/complete", h.CompleteTask).Methods("POST")
	authed.HandleFunc("/tasks/{id}/cancel", h.CancelTask).Methods("POST")
	authed.HandleFunc("/tasks/{id}/sessions", h.StartSession).Methods("POST")
	authed.HandleFunc("/tasks/{id}/sessions/{index}/complete", h.CompleteSession).Methods("POST")

	authed.HandleFunc("/assist/draft-plan", h.DraftPlan).Methods("POST")
	authed.HandleFunc("/assist/chat", h.Chat).Methods("POST")
	authed.HandleFunc("/assist/quiz", h.GenerateQuiz).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
