package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes a response body as JSON
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// sessionID pulls the session id from the query string
func sessionID(r *http.Request) string {
	return r.URL.Query().Get("session_id")
}

// handleUploadTickets parses a multipart batch of ticket PDFs into a new
// session and reports the per-document outcome
func (s *Server) handleUploadTickets(w http.ResponseWriter, r *http.Request) {
	// Max 50MB per upload batch
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		corsError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		corsError(w, "No files provided", http.StatusBadRequest)
		return
	}

	files := make([]UploadedFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			slog.Error("Error opening uploaded file", "filename", header.Filename, "error", err)
			corsError(w, fmt.Sprintf("Error reading %s", header.Filename), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			slog.Error("Error reading uploaded file", "filename", header.Filename, "error", err)
			corsError(w, fmt.Sprintf("Error reading %s", header.Filename), http.StatusInternalServerError)
			return
		}
		files = append(files, UploadedFile{Name: header.Filename, Data: data})
	}

	report, err := s.service.UploadTickets(files)
	if err != nil {
		slog.Error("Error processing uploaded tickets", "error", err)
		setCORSHeaders(w)
		body := map[string]any{"error": err.Error()}
		if report != nil {
			body["failures"] = report.Failures
		}
		writeJSON(w, http.StatusBadRequest, body)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// handleTicketsAnalysis returns the spending summary for a session
func (s *Server) handleTicketsAnalysis(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		corsError(w, "Session ID required", http.StatusBadRequest)
		return
	}
	result, err := s.service.Analysis(id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			corsError(w, "Session not found", http.StatusNotFound)
			return
		}
		slog.Error("Error analyzing session", "session_id", id, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleProductNames returns the distinct product names in a session
func (s *Server) handleProductNames(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		corsError(w, "Session ID required", http.StatusBadRequest)
		return
	}
	names, err := s.service.ProductNames(id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			corsError(w, "Session not found", http.StatusNotFound)
			return
		}
		slog.Error("Error listing product names", "session_id", id, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

// handlePriceEvolution returns the unit price history of one product
func (s *Server) handlePriceEvolution(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		corsError(w, "Session ID required", http.StatusBadRequest)
		return
	}
	productName := r.URL.Query().Get("product_name")
	if productName == "" {
		corsError(w, "Product name required", http.StatusBadRequest)
		return
	}
	points, err := s.service.PriceEvolution(id, productName)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			corsError(w, "Session not found", http.StatusNotFound)
			return
		}
		slog.Error("Error computing price evolution", "session_id", id, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// handleExportTickets streams a session's rows as an XLSX workbook
func (s *Server) handleExportTickets(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		corsError(w, "Session ID required", http.StatusBadRequest)
		return
	}
	data, err := s.service.ExportXLSX(id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			corsError(w, "Session not found", http.StatusNotFound)
			return
		}
		slog.Error("Error exporting session", "session_id", id, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="tickets.xlsx"`)
	w.Write(data)
}

// handleDeleteSession clears a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		corsError(w, "Session ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteSession(id); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			corsError(w, "Session not found", http.StatusNotFound)
			return
		}
		slog.Error("Error deleting session", "session_id", id, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session cleared"})
}

// handleLocalTickets analyzes the configured local folder directly
func (s *Server) handleLocalTickets(w http.ResponseWriter, r *http.Request) {
	if s.localDir == "" {
		corsError(w, "No local ticket folder configured", http.StatusNotFound)
		return
	}
	result, report, err := s.service.LocalTickets(s.localDir)
	if err != nil {
		slog.Error("Error analyzing local tickets", "dir", s.localDir, "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if len(report.Failures) > 0 {
		slog.Warn("Some local tickets failed to parse", "failures", len(report.Failures))
	}
	writeJSON(w, http.StatusOK, result)
}
