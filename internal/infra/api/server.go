package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ai-study-guide/internal/domain/model"
	"ai-study-guide/internal/infra/logging"
	"ai-study-guide/internal/usecase"
)

const (
	roadmapNotFound  = "Roadmap not found"
	progressNotFound = "Progress not found"

	// local wall clock, no zone, microseconds
	chatTimestampLayout = "2006-01-02T15:04:05.000000"
)

type Options struct {
	StaticDir      string
	RequestTimeout time.Duration
	Identity       *Identity // nil: every chat belongs to the default user
}

// Server exposes the study guide over HTTP.
type Server struct {
	chat     usecase.ChatUseCase
	roadmaps usecase.RoadmapUseCase
	progress usecase.ProgressUseCase
	catalog  usecase.CatalogUseCase

	opts     Options
	validate *validator.Validate
	log      *zerolog.Logger
	now      func() time.Time
}

func NewServer(
	chat usecase.ChatUseCase,
	roadmaps usecase.RoadmapUseCase,
	progress usecase.ProgressUseCase,
	catalog usecase.CatalogUseCase,
	opts Options,
	logger *zerolog.Logger,
) *Server {
	if opts.StaticDir == "" {
		opts.StaticDir = "static"
	}
	if opts.Identity == nil {
		opts.Identity = NewIdentity("")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	l := logger.With().Str("component", "HTTP").Logger()
	return &Server{
		chat:     chat,
		roadmaps: roadmaps,
		progress: progress,
		catalog:  catalog,
		opts:     opts,
		validate: validator.New(),
		log:      &l,
		now:      time.Now,
	}
}

// Router builds the full route table with middleware applied.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		TraceID(),
		RequestLog(s.log),
		Recover(s.log),
		cors.Handler(cors.Options{
			// echo any origin; "*" is not valid alongside credentials
			AllowOriginFunc:  func(*http.Request, string) bool { return true },
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{traceHeader},
			AllowCredentials: true,
		}),
	)

	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.opts.StaticDir))))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(Timeout(s.opts.RequestTimeout))

		r.With(s.opts.Identity.Middleware()).Post("/chat", s.handleChat)

		r.Post("/roadmap/generate", s.handleGenerateRoadmap)
		r.Get("/roadmap/{roadmapID}", s.handleGetRoadmap)
		r.Post("/roadmap/{roadmapID}/select", s.handleSelectTrack)

		r.Get("/progress/{roadmapID}", s.handleGetProgress)
		r.Post("/progress/update", s.handleUpdateProgress)
		r.Post("/progress/{roadmapID}/adjust", s.handleAdjustGoals)

		r.Get("/study-techniques", s.handleStudyTechniques)
		r.Get("/motivation/daily", s.handleDailyQuote)
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(s.opts.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	http.ServeFile(w, r, index)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeDomainError(w, err, "")
		return
	}
	reply, err := s.chat.RecordAndRespond(r.Context(), UserIDFrom(r.Context()), req.Message, model.ParseChatMode(req.Mode))
	if err != nil {
		writeDomainError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		Response:  reply,
		Timestamp: s.now().Format(chatTimestampLayout),
	})
}

func (s *Server) handleGenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req RoadmapRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeDomainError(w, err, "")
		return
	}
	rm, err := s.roadmaps.Generate(r.Context(), req.toModel())
	if err != nil {
		writeDomainError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, RoadmapGenerated{RoadmapID: rm.ID, Roadmaps: rm.Tracks})
}

func (s *Server) handleGetRoadmap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "roadmapID")
	rm, err := s.roadmaps.Get(logging.WithRoadmapID(r.Context(), id), id)
	if err != nil {
		writeDomainError(w, err, roadmapNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

func (s *Server) handleSelectTrack(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "roadmapID")
	var req SelectTrackRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeDomainError(w, err, "")
		return
	}
	pid, err := s.progress.SelectTrack(r.Context(), id, model.TrackName(req.TrackType))
	if err != nil {
		writeDomainError(w, err, roadmapNotFound)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", ProgressID: pid})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.progress.Get(r.Context(), chi.URLParam(r, "roadmapID"))
	if err != nil {
		writeDomainError(w, err, progressNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req ProgressUpdateRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeDomainError(w, err, "")
		return
	}
	p, err := s.progress.Update(r.Context(), usecase.ProgressUpdate{
		RoadmapID: req.RoadmapID,
		TaskID:    req.TaskID,
		Completed: req.Completed,
		TimeSpent: req.TimeSpent,
	})
	if err != nil {
		writeDomainError(w, err, progressNotFound)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Progress: p})
}

func (s *Server) handleAdjustGoals(w http.ResponseWriter, r *http.Request) {
	var req GoalAdjustmentRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeDomainError(w, err, "")
		return
	}
	err := s.progress.AdjustGoals(r.Context(), usecase.GoalAdjustment{
		RoadmapID:         chi.URLParam(r, "roadmapID"),
		NewTimeCommitment: req.NewTimeCommitment,
		NewDeadline:       req.NewDeadline,
	})
	if err != nil {
		writeDomainError(w, err, roadmapNotFound)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Goals adjusted successfully"})
}

func (s *Server) handleStudyTechniques(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"techniques": s.catalog.StudyTechniques(r.Context())})
}

func (s *Server) handleDailyQuote(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.DailyQuote(r.Context()))
}
