package analytics

import (
	"encoding/json"
	"net/http"
)

// StatsHandler serves the aggregated scan statistics.
func StatsHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(agg.Summarize())
	}
}
