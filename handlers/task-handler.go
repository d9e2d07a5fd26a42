package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gurkanusta/WorkNest/middleware"
	"github.com/gurkanusta/WorkNest/models"
	"github.com/gurkanusta/WorkNest/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	Service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

type CreateTaskRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         *models.TaskStatus `json:"status"`
	AssignedUserID string             `json:"assignedUserId"`
	DueDate        *time.Time         `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Status         *models.TaskStatus `json:"status"`
	AssignedUserID string             `json:"assignedUserId"`
	DueDate        *time.Time         `json:"dueDate"`
}

func validateTaskFields(title, description string) map[string]string {
	errs := make(map[string]string)
	if len(title) < 3 || len(title) > 100 {
		errs["title"] = "Title must be between 3 and 100 characters."
	}
	if len(description) > 500 {
		errs["description"] = "Description must be at most 500 characters."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
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

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if errs := validateTaskFields(req.Title, req.Description); errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	task := models.TaskItem{
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.StatusTodo,
		AssignedUserID: req.AssignedUserID,
		DueDate:        req.DueDate,
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	created, err := h.Service.CreateTask(r.Context(), projectID, user.ID, task)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
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

	query := models.TaskListQuery{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}
	query.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	query.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseTaskStatus(raw)
		if err != nil {
			respondValidationErrors(w, map[string]string{"status": "Unknown task status."})
			return
		}
		query.Status = &status
	}

	page, err := h.Service.ListTasks(r.Context(), projectID, user.ID, query)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
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

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	errs := validateTaskFields(req.Title, req.Description)
	if req.Status == nil {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["status"] = "Status is required."
	}
	if errs != nil {
		respondValidationErrors(w, errs)
		return
	}

	task := models.TaskItem{
		Title:          req.Title,
		Description:    req.Description,
		Status:         *req.Status,
		AssignedUserID: req.AssignedUserID,
		DueDate:        req.DueDate,
	}

	updated, err := h.Service.UpdateTask(r.Context(), projectID, user.ID, taskID, task)
	if err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
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

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["taskId"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.Service.DeleteTask(r.Context(), projectID, user.ID, taskID); err != nil {
		mapServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
