package inspect

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/objkit/autobind"
)

// memberView is the JSON projection of a MemberDescriptor.
type memberView struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Type     string `json:"type,omitempty"`
	Order    int    `json:"order"`
	Scope    string `json:"scope,omitempty"`
	HasValue bool   `json:"hasValue,omitempty"`
	Args     int    `json:"args,omitempty"`
}

func (s *Server) routes() {
	s.router.Get("/bindings", s.handleListTargets)
	s.router.Get("/bindings/{target}", s.handleTargetPlan)
	s.router.Get("/groups", s.handleGroups)
	s.router.Post("/groups/{owner}/{label}/toggle", s.handleToggle)
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	names := make([]string, 0, len(s.plans))
	for name := range s.plans {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	writeJSON(w, http.StatusOK, map[string]any{"targets": names})
}

func (s *Server) handleTargetPlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "target")

	s.mu.RLock()
	plan, ok := s.plans[name]
	s.mu.RUnlock()

	if !ok {
		http.Error(w, "unknown target", http.StatusNotFound)
		return
	}

	out := make(map[string][]memberView, len(plan))
	for phase, members := range plan {
		views := make([]memberView, 0, len(members))
		for _, d := range members {
			view := memberView{
				Name:     d.Name,
				Kind:     d.Kind.String(),
				Order:    d.Order,
				HasValue: d.HasValue,
				Args:     len(d.Args),
			}
			if d.Type != nil {
				view.Type = d.Type.String()
			}
			if d.Kind != autobind.KindMethod && !d.HasValue {
				view.Scope = d.Scope.String()
			}
			views = append(views, view)
		}
		out[phase.String()] = views
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	if s.profile == nil {
		http.Error(w, "no profile attached", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.profile.Snapshot())
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if s.profile == nil {
		http.Error(w, "no profile attached", http.StatusNotFound)
		return
	}

	owner := chi.URLParam(r, "owner")
	label := chi.URLParam(r, "label")
	shown, err := s.profile.Toggle(label, owner)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"label": label, "owner": owner, "shown": shown})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
