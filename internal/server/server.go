package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"tomgalvin.uk/receiptprint/internal/document"
	"tomgalvin.uk/receiptprint/internal/printer"
	"tomgalvin.uk/receiptprint/internal/receipt"
	"tomgalvin.uk/receiptprint/internal/script"
	"tomgalvin.uk/receiptprint/internal/spool"
)

const (
	maxBodySize      = 1 << 20
	defaultListLimit = 50
	maxListLimit     = 500
)

// Notifier is told whenever a job is added to the queue.
type Notifier interface {
	Notify()
}

// StatusReporter is a printer connection that knows the printer's state.
type StatusReporter interface {
	Status() printer.Status
}

type Server struct {
	logger     *slog.Logger
	status     StatusReporter
	renderer   *receipt.Renderer
	repository *spool.Repository
	notifier   Notifier
	options    printer.Options
}

func NewServer(logger *slog.Logger, renderer *receipt.Renderer, repository *spool.Repository, notifier Notifier, options printer.Options) *Server {
	return &Server{
		logger:     logger,
		renderer:   renderer,
		repository: repository,
		notifier:   notifier,
		options:    options,
	}
}

// ReportStatusFrom enables GET /api/printer.
func (s *Server) ReportStatusFrom(r StatusReporter) {
	s.status = r
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/receipts", s.createReceipt)
	mux.HandleFunc("POST /api/preview", s.preview)
	mux.HandleFunc("GET /api/jobs", s.listJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.getJob)
	mux.HandleFunc("POST /api/jobs/{id}/reprint", s.reprintJob)
	mux.HandleFunc("GET /api/printer", s.printerStatus)
	return mux
}

// readDocument decodes a request body as a script when sent as text/plain
// and as a JSON document otherwise.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (*document.Document, spool.Source, []byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, "", nil, fmt.Errorf("%w: %w", document.ErrInvalidDocument, err)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		d, err := script.Parse("", bytes.NewReader(body))
		return d, spool.ScriptSource, body, err
	}
	d, err := document.Decode(bytes.NewReader(body))
	return d, spool.JSONSource, body, err
}

func (s *Server) createReceipt(w http.ResponseWriter, r *http.Request) {
	d, source, body, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	p := printer.NewProgram(s.options)
	if err := document.Render(s.renderer, d, p); err != nil {
		s.writeError(w, err)
		return
	}
	p.Finish()

	j, err := s.repository.Enqueue(source, body, p.Bytes())
	if err != nil {
		s.writeError(w, fmt.Errorf("Couldn't queue receipt:\n%w", err))
		return
	}
	s.logger.Info("Queued receipt", "job", j.Uuid.String(), "blocks", len(d.Blocks), "size", len(j.Program))
	if s.notifier != nil {
		s.notifier.Notify()
	}

	writeJSON(w, http.StatusAccepted, mapJobToJson(j))
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	d, _, _, err := s.readDocument(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	p := document.NewPreview(s.renderer.PaperWidth())
	if err := document.Render(s.renderer, d, p); err != nil {
		s.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.Image()); err != nil {
		s.writeError(w, fmt.Errorf("Couldn't encode preview:\n%w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxListLimit)
	}

	jobs, err := s.repository.List(limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]jobJson, len(jobs))
	for i := range jobs {
		out[i] = mapJobToJson(&jobs[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	u, ok := parseJobId(w, r)
	if !ok {
		return
	}
	j, err := s.repository.Get(u)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if j == nil {
		http.Error(w, "no such job", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, mapJobToJson(j))
}

func (s *Server) reprintJob(w http.ResponseWriter, r *http.Request) {
	u, ok := parseJobId(w, r)
	if !ok {
		return
	}
	requeued, err := s.repository.Requeue(u)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !requeued {
		j, err := s.repository.Get(u)
		switch {
		case err != nil:
			s.writeError(w, err)
		case j == nil:
			http.Error(w, "no such job", http.StatusNotFound)
		case j.Status == spool.Printing:
			http.Error(w, "job is printing now", http.StatusConflict)
		default:
			http.Error(w, "job is still waiting to print", http.StatusConflict)
		}
		return
	}
	if s.notifier != nil {
		s.notifier.Notify()
	}

	j, err := s.repository.Get(u)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, mapJobToJson(j))
}

func (s *Server) printerStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		http.Error(w, "printer does not report its status", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, mapStatusToJson(s.status.Status()))
}

func parseJobId(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	u, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid job id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return u, true
}

// statusFor maps rendering errors to client errors; anything else is ours.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, document.ErrInvalidDocument),
		errors.Is(err, script.ErrSyntax),
		errors.Is(err, receipt.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, receipt.ErrMeasurementFailure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
