package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"emysore/handler"
	"emysore/middleware"
	"emysore/models"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth          *handler.AuthHandler
	Complaints    *handler.ComplaintHandler
	Notifications *handler.NotificationHandler
	Departments   *handler.DepartmentHandler
	CityServices  *handler.CityServiceHandler
	AuthMW        *middleware.AuthMiddleware
	UploadDir     string
}

// SetupRoutes builds the full API router
func SetupRoutes(h *Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// Public routes
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/departments", h.Departments.List).Methods(http.MethodGet)
	api.HandleFunc("/services", h.CityServices.List).Methods(http.MethodGet)
	api.HandleFunc("/services/category/{category}", h.CityServices.ListByCategory).Methods(http.MethodGet)
	api.HandleFunc("/services/{id:[0-9]+}", h.CityServices.Get).Methods(http.MethodGet)

	// Authenticated routes
	authed := api.NewRoute().Subrouter()
	authed.Use(h.AuthMW.RequireAuth)
	authed.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)
	authed.HandleFunc("/complaints", h.Complaints.Create).Methods(http.MethodPost)
	authed.HandleFunc("/complaints", h.Complaints.List).Methods(http.MethodGet)
	authed.HandleFunc("/complaints/{id:[0-9]+}", h.Complaints.Get).Methods(http.MethodGet)
	authed.HandleFunc("/complaints/{id:[0-9]+}/audit", h.Complaints.AuditTrail).Methods(http.MethodGet)
	authed.HandleFunc("/complaints/{id:[0-9]+}/comments", h.Complaints.AddComment).Methods(http.MethodPost)
	authed.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/unread-count", h.Notifications.UnreadCount).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/read-all", h.Notifications.MarkAllRead).Methods(http.MethodPut)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notifications.MarkRead).Methods(http.MethodPut)

	// Staff-only routes
	staff := api.NewRoute().Subrouter()
	staff.Use(h.AuthMW.RequireAuth, h.AuthMW.RequireRole(models.RoleOfficer, models.RoleAdmin))
	staff.HandleFunc("/complaints/{id:[0-9]+}/status", h.Complaints.UpdateStatus).Methods(http.MethodPut)
	staff.HandleFunc("/complaints/{id:[0-9]+}/escalate", h.Complaints.Escalate).Methods(http.MethodPut)
	staff.HandleFunc("/services", h.CityServices.Create).Methods(http.MethodPost)
	staff.HandleFunc("/services/{id:[0-9]+}", h.CityServices.Update).Methods(http.MethodPut)
	staff.HandleFunc("/services/{id:[0-9]+}", h.CityServices.Delete).Methods(http.MethodDelete)

	// Static serving of stored complaint images
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir))),
	)

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
