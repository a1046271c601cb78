package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"emysore/models"
	"emysore/repository"
)

// CityServiceHandler exposes the municipal service directory: public reads,
// staff-managed writes
type CityServiceHandler struct {
	repo *repository.CityServiceRepository
}

// NewCityServiceHandler creates a new city service handler
func NewCityServiceHandler(repo *repository.CityServiceRepository) *CityServiceHandler {
	return &CityServiceHandler{repo: repo}
}

// List handles GET /api/services
func (h *CityServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.List()
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, services)
}

// ListByCategory handles GET /api/services/category/{category}
func (h *CityServiceHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.ListByCategory(mux.Vars(r)["category"])
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, services)
}

// Get handles GET /api/services/{id}
func (h *CityServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := servicePathID(w, r)
	if !ok {
		return
	}

	service, err := h.repo.GetByID(serviceID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, service)
}

// Create handles POST /api/services (staff)
func (h *CityServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var service models.CityService
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(service.Name) == "" {
		respondBadRequest(w, "service name is required")
		return
	}

	if err := h.repo.Create(&service); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, service)
}

// Update handles PUT /api/services/{id} (staff)
func (h *CityServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := servicePathID(w, r)
	if !ok {
		return
	}

	var service models.CityService
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	service.ServiceID = serviceID

	if err := h.repo.Update(&service); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, service)
}

// Delete handles DELETE /api/services/{id} (staff)
func (h *CityServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serviceID, ok := servicePathID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(serviceID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "service deleted"})
}

func servicePathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(w, "invalid service id")
		return 0, false
	}
	return id, true
}
