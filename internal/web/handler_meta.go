package web

import (
	"net/http"
	"os"
	"unicode/utf8"
)

const maxReportedCollections = 10

type diagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Store            string   `json:"store,omitempty"`
	Collections      []string `json:"collections"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Real Estate Agent API running"})
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Hello from the backend API!"})
}

// handleDiagnostics reports whether the document store is reachable. It
// always answers 200; failures are described in the body.
func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	resp := diagnosticsResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if s.diagnostics != nil {
		resp.Database = "✅ Available"
		resp.ConnectionStatus = "Connected"
		resp.Store = s.diagnostics.Name()
		names, err := s.diagnostics.CollectionNames(r.Context())
		if err != nil {
			resp.Database = "⚠️  Connected but Error: " + clip(err.Error(), 50)
		} else {
			if len(names) > maxReportedCollections {
				names = names[:maxReportedCollections]
			}
			resp.Collections = append(resp.Collections, names...)
			resp.Database = "✅ Connected & Working"
		}
	}

	resp.DatabaseURL = setFlag("DATABASE_URL")
	resp.DatabaseName = setFlag("DATABASE_NAME")

	writeJSON(w, http.StatusOK, resp)
}

func setFlag(key string) string {
	if os.Getenv(key) != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
