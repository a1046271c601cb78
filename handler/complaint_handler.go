package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"emysore/middleware"
	"emysore/models"
	"emysore/service"
)

// 5 MB cap on complaint images
const maxImageBytes = 5 << 20

// ComplaintHandler exposes the complaint lifecycle over HTTP
type ComplaintHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaints *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints}
}

// Create handles POST /api/complaints. Accepts either a bare JSON body or a
// multipart form with a "complaint" JSON part and an optional "image" part.
func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetActingUser(r)

	var req models.CreateComplaintRequest
	var imageData []byte
	var imageContentType string

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			respondBadRequest(w, "invalid multipart form")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("complaint")), &req); err != nil {
			respondBadRequest(w, "invalid complaint payload")
			return
		}
		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			imageData, err = io.ReadAll(io.LimitReader(file, maxImageBytes))
			if err != nil {
				respondBadRequest(w, "failed to read image")
				return
			}
			imageContentType = header.Header.Get("Content-Type")
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondBadRequest(w, "invalid request body")
			return
		}
	}

	complaint, err := h.complaints.CreateComplaint(r.Context(), user.UserID, &req, imageData, imageContentType)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, models.ComplaintToResponse(complaint))
}

// List handles GET /api/complaints. Citizens see their own complaints; staff
// page through all of them with ?page= and ?size=.
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetActingUser(r)

	var complaints []models.Complaint
	var err error
	if user.Role == models.RoleCitizen {
		complaints, err = h.complaints.GetUserComplaints(user.UserID)
	} else {
		page, size := listPaging(r)
		complaints, err = h.complaints.ListComplaints(size, page*size)
	}
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, complaintsToResponses(complaints))
}

// Get handles GET /api/complaints/{id}. Citizens may only read their own
// complaints; staff may read any.
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	complaintID, ok := pathID(w, r)
	if !ok {
		return
	}

	complaint, err := h.complaints.GetComplaint(complaintID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	user := middleware.GetActingUser(r)
	if user.Role == models.RoleCitizen && complaint.UserID != user.UserID {
		respondWithJSON(w, http.StatusForbidden, map[string]string{"error": "not your complaint"})
		return
	}

	respondWithJSON(w, http.StatusOK, models.ComplaintToResponse(complaint))
}

// AuditTrail handles GET /api/complaints/{id}/audit. Entries come oldest
// first; ?order=desc flips to the timeline display order.
func (h *ComplaintHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	complaintID, ok := pathID(w, r)
	if !ok {
		return
	}

	var entries []models.AuditEntry
	var err error
	if r.URL.Query().Get("order") == "desc" {
		entries, err = h.complaints.GetAuditTrailNewestFirst(complaintID)
	} else {
		entries, err = h.complaints.GetAuditTrail(complaintID)
	}
	if err != nil {
		respondWithError(w, err)
		return
	}

	responses := make([]models.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, models.AuditEntryToResponse(&entries[i]))
	}
	respondWithJSON(w, http.StatusOK, responses)
}

// UpdateStatus handles PUT /api/complaints/{id}/status (officer/admin)
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	complaintID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	complaint, err := h.complaints.UpdateStatus(complaintID, middleware.GetActingUser(r), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.ComplaintToResponse(complaint))
}

// Escalate handles PUT /api/complaints/{id}/escalate (officer/admin)
func (h *ComplaintHandler) Escalate(w http.ResponseWriter, r *http.Request) {
	complaintID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.EscalateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	complaint, err := h.complaints.Escalate(complaintID, middleware.GetActingUser(r), req.Escalate)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.ComplaintToResponse(complaint))
}

// AddComment handles POST /api/complaints/{id}/comments
func (h *ComplaintHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	complaintID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	if err := h.complaints.AddComment(complaintID, middleware.GetActingUser(r), req.Comment); err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "comment added"})
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// listPaging reads ?page= (zero-based) and ?size= with sane bounds
func listPaging(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = 0
	}
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(w, "invalid complaint id")
		return 0, false
	}
	return id, true
}

func complaintsToResponses(complaints []models.Complaint) []models.ComplaintResponse {
	responses := make([]models.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		responses = append(responses, models.ComplaintToResponse(&complaints[i]))
	}
	return responses
}
