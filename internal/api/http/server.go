package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/trade-hub/trade-hub/internal/application/dispatch"
	"github.com/trade-hub/trade-hub/internal/application/policy"
	"github.com/trade-hub/trade-hub/internal/domain/message"
	"github.com/trade-hub/trade-hub/internal/infrastructure/eventhub"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	actors *policy.Actors
	hub    *eventhub.Hub
	logger zerolog.Logger
}

func NewServer(actors *policy.Actors, hub *eventhub.Hub, logger zerolog.Logger) *Server {
	return &Server{
		actors: actors,
		hub:    hub,
		logger: logger.With().Str("component", "httpapi").Logger(),
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Get("/stats", s.listActors)
	r.Get("/events", s.sseEndpoint)
	r.Get("/actors/{actorId}", s.getActor)
	r.Get("/actors/{actorId}/chains", s.listOpenChains)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type actorView struct {
	ID         string         `json:"actor_id"`
	Balance    float64        `json:"balance"`
	OpenChains int            `json:"open_chains"`
	Dispatch   dispatch.Stats `json:"dispatch"`
}

func (s *Server) snapshot(a *policy.Actor) actorView {
	v := actorView{ID: string(a.ID)}
	if a.Account != nil {
		v.Balance = a.Account.Balance()
	}
	if a.Store != nil {
		v.OpenChains = len(a.Store.OpenChains())
	}
	if a.Dispatcher != nil {
		v.Dispatch = a.Dispatcher.Stats()
	}
	return v
}

func (s *Server) listActors(w http.ResponseWriter, r *http.Request) {
	all := s.actors.All()
	views := make([]actorView, 0, len(all))
	for _, a := range all {
		views = append(views, s.snapshot(a))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"actors": views})
}

func (s *Server) getActor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "actorId")
	a := s.actors.Get(message.ActorID(id))
	if a == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "actor not found")
		return
	}
	respondJSON(w, http.StatusOK, s.snapshot(a))
}

func (s *Server) listOpenChains(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "actorId")
	a := s.actors.Get(message.ActorID(id))
	if a == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "actor not found")
		return
	}
	chains := a.Store.OpenChains()
	out := make([]string, 0, len(chains))
	for _, c := range chains {
		out = append(out, c.String())
	}
	sort.Strings(out)
	respondJSON(w, http.StatusOK, map[string]interface{}{"actor_id": id, "chains": out})
}

// sseEndpoint streams chain lifecycle events to the client.
func (s *Server) sseEndpoint(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming not supported")
		return
	}

	id, ch := s.hub.Subscribe(64)
	defer s.hub.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Send an initial comment to flush headers and keep the connection alive.
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			_, _ = w.Write([]byte("event: " + string(ev.Type) + "\ndata: "))
			_, _ = w.Write(payload)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
