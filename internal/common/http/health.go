package http

import (
	"net/http"
)

type healthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// HealthHandler answers liveness checks. Method filtering is left to the router.
func HealthHandler(serviceName string) http.HandlerFunc {
	body := healthStatus{Status: "ok", Service: serviceName}
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, body)
	}
}
