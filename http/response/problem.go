package response

import (
	"encoding/json"
	"net/http"

	"github.com/godamri/helix-audit/pkg/contextx"
)

// RFC 7807 problem details, used for the machine-facing ops endpoints.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	TraceID string `json:"trace_id,omitempty"`
}

func (p *Problem) Render(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func ErrorProblem(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	prob := &Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
		TraceID:  contextx.GetTraceID(r.Context()),
	}
	prob.Render(w)
}
