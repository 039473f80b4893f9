// cmd/insight-server/http.go
package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	stderrors "aq-insight/internal/common/errors"
	"aq-insight/internal/common/logger"
	"aq-insight/internal/service"
)

type apiServer struct {
	svc *service.Service
	log logger.Logger
}

func newAPIServer(svc *service.Service, log logger.Logger) *apiServer {
	return &apiServer{svc: svc, log: log}
}

func (a *apiServer) register(mux *http.ServeMux) {
	mux.HandleFunc("/api/chat", a.handleChat)
	mux.HandleFunc("/api/predict", a.handlePredict)
	mux.HandleFunc("/api/health-risk", a.handleHealthRisk)
	mux.HandleFunc("/api/countries", a.handleCountries)
	mux.HandleFunc("/api/debug/parse", a.handleDebugParse)
	mux.HandleFunc("/api/debug/status", a.handleDebugStatus)
	mux.HandleFunc("/health", a.handleHealthz)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (a *apiServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST required"})
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body must be JSON with a message field"})
		return
	}

	result := a.svc.Handle(r.Context(), req.Message)
	status := http.StatusOK
	if result.IsError() {
		status = statusForCode(result.ErrorCode)
	}
	writeJSON(w, status, result)
}

func (a *apiServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "country is required"})
		return
	}
	year, err := queryYear(r, a.svc.DefaultYear())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "year must be an integer"})
		return
	}

	fc, err := a.svc.Predict(r.Context(), country, year)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

func (a *apiServer) handleHealthRisk(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "country is required"})
		return
	}
	year, err := queryYear(r, a.svc.DefaultYear())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "year must be an integer"})
		return
	}

	res, err := a.svc.HealthRisk(r.Context(), country, year,
		r.URL.Query().Get("age_group"), r.URL.Query().Get("disease"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *apiServer) handleCountries(w http.ResponseWriter, r *http.Request) {
	infos, err := a.svc.Countries(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(infos),
		"countries": infos,
	})
}

func (a *apiServer) handleDebugParse(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	writeJSON(w, http.StatusOK, a.svc.DebugParse(message))
}

func (a *apiServer) handleDebugStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.svc.DebugStatus(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (a *apiServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (a *apiServer) writeError(w http.ResponseWriter, err error) {
	se := stderrors.AsStandard(err)
	if se.Code == stderrors.CodeInternalError {
		a.log.Error("request failed", map[string]interface{}{"error": err.Error()})
	}
	writeJSON(w, statusForCode(se.Code), se)
}

func statusForCode(code string) int {
	switch code {
	case stderrors.CodeUnknownRegion, stderrors.CodeUnknownCountry:
		return http.StatusNotFound
	case stderrors.CodeUnrecognizedIntent, stderrors.CodeMissingRequiredEntity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func queryYear(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
