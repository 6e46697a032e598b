package modules

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// moduleSummary is the listing/search shape: metadata only, no description.
type moduleSummary struct {
	Code         string         `json:"code"`
	Name         string         `json:"name"`
	CommentCount int            `json:"comment_count"`
	Units        int            `json:"units"`
	Semesters    pq.StringArray `json:"semesters"`
	Sentiment    JSONB          `json:"sentiment_data,omitempty"`
}

func summarize(m Module, withSentiment bool) moduleSummary {
	s := moduleSummary{
		Code:         m.Code,
		Name:         m.Name,
		CommentCount: m.CommentCount,
		Units:        m.Units,
		Semesters:    m.SemestersAvailable,
	}
	if withSentiment {
		s.Sentiment = m.SentimentData
	}
	return s
}

func ListModulesHandler(w http.ResponseWriter, r *http.Request) {
	all, err := store.List()
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]moduleSummary, 0, len(all))
	for _, m := range all {
		response = append(response, summarize(m, true))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func GetModuleHandler(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	module, err := store.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Module not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(module); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func SearchModulesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Missing query parameter 'q'", http.StatusBadRequest)
		return
	}

	matches, err := store.Search(query, 10)
	if err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]moduleSummary, 0, len(matches))
	for _, m := range matches {
		response = append(response, summarize(m, false))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
