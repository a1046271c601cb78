package handler

import (
	"net/http"

	"emysore/repository"
)

// DepartmentHandler exposes the department directory
type DepartmentHandler struct {
	deptRepo *repository.DepartmentRepository
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(deptRepo *repository.DepartmentRepository) *DepartmentHandler {
	return &DepartmentHandler{deptRepo: deptRepo}
}

// List handles GET /api/departments
func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	departments, err := h.deptRepo.List()
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, departments)
}
