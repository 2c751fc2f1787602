package server

import (
	"encoding/json"
	"net/http"
	"time"

	"tomgalvin.uk/receiptprint/internal/spool"
)

type jobJson struct {
	Id        string    `json:"id"`
	Status    string    `json:"status"`
	Source    string    `json:"source"`
	Error     string    `json:"error,omitempty"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func mapJobToJson(j *spool.Job) jobJson {
	return jobJson{
		Id:        j.Uuid.String(),
		Status:    string(j.Status),
		Source:    string(j.Source),
		Error:     j.Error,
		Attempts:  j.Attempts,
		CreatedAt: j.CreatedAt.UTC(),
		UpdatedAt: j.UpdatedAt.UTC(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
