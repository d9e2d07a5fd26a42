package handlers

import (
	"net/http"

	"github.com/gurkanusta/WorkNest/middleware"
	"github.com/gurkanusta/WorkNest/services"

	"github.com/gorilla/mux"
)

// NewRouter builds the full route table. Everything under /projects sits
// behind the JWT middleware.
func NewRouter(authHandler *AuthHandler, projectHandler *ProjectHandler, taskHandler *TaskHandler, jwtService *services.JWTService) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Recovery)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api := r.PathPrefix("/projects").Subrouter()
	api.Use(middleware.JWTAuth(jwtService))
	api.HandleFunc("", projectHandler.CreateProject).Methods("POST")
	api.HandleFunc("", projectHandler.ListProjects).Methods("GET")
	api.HandleFunc("/{id}", projectHandler.GetProject).Methods("GET")
	api.HandleFunc("/{id}/members", projectHandler.ListMembers).Methods("GET")
	api.HandleFunc("/{id}/invite", projectHandler.InviteMember).Methods("POST")
	api.HandleFunc("/{id}/tasks", taskHandler.CreateTask).Methods("POST")
	api.HandleFunc("/{id}/tasks", taskHandler.ListTasks).Methods("GET")
	api.HandleFunc("/{id}/tasks/{taskId}", taskHandler.UpdateTask).Methods("PUT")
	api.HandleFunc("/{id}/tasks/{taskId}", taskHandler.DeleteTask).Methods("DELETE")

	return r
}
