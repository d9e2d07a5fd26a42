package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gurkanusta/WorkNest/middleware"
	"github.com/gurkanusta/WorkNest/models"
	"github.com/gurkanusta/WorkNest/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type InviteRequest struct {
	Email string `json:"email"`
}

func projectIDFromRequest(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	return id, err == nil
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if len(req.Name) < 3 || len(req.Name) > 50 {
		respondValidationErrors(w, map[string]string{
			"name": "Project name must be between 3 and 50 characters.",
		})
		return
	}

	project, err := h.Service.CreateProject(r.Context(), req.Name, user.ID)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	projects, err := h.Service.ListProjectsForUser(r.Context(), user.ID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	if projects == nil {
		projects = []models.ProjectSummary{}
	}

	respondJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	projectID, ok := projectIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.Service.GetProject(r.Context(), projectID, user.ID)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	projectID, ok := projectIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	members, err := h.Service.ListMembers(r.Context(), projectID, user.ID)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, members)
}

func (h *ProjectHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	projectID, ok := projectIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Email == "" {
		respondValidationErrors(w, map[string]string{"email": "Email is required."})
		return
	}

	member, err := h.Service.InviteMember(r.Context(), projectID, user.ID, req.Email)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, member)
}
