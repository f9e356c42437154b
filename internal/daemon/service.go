// Package daemon serves the session's budget over a local HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/budgetdash/internal/budget"
	"github.com/theirongolddev/budgetdash/internal/export"
	"github.com/theirongolddev/budgetdash/internal/model"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr          string
	EventsBuffer  int
	OutflowFields []string // nil means every category plus savings
	Logger        *slog.Logger
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	builder *budget.Builder
	log     *slog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	writes      int64
	rejected    int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service writing through b.
func New(cfg Config, b *budget.Builder) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.OutflowFields == nil {
		cfg.OutflowFields = budget.DefaultOutflowFields(b.Schema())
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		builder:   b,
		log:       cfg.Logger.With("component", "daemon"),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/records/{period}", s.handleGetRecord)
	mux.HandleFunc("PUT /v1/records/{period}/fields/{field}", s.handleSetField)
	mux.HandleFunc("PUT /v1/records/{period}/line-items", s.handleSetLineItems)
	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("GET /v1/export/{period}", s.handleExport)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return withRequestLog(s.log, mux)
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("daemon listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves the API on ln until ctx is canceled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Service) summarize(r model.InputRecord) (model.Summary, error) {
	return budget.Summarize(r, s.cfg.OutflowFields)
}

func (s *Service) recordFailure(err error) {
	s.mu.Lock()
	s.rejected++
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *Service) emit(typ string, period model.PeriodKey, field string, sum model.Summary) {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()

	s.publishEvent(Event{
		Type:      typ,
		Timestamp: time.Now(),
		Period:    string(period),
		Field:     field,
		Summary:   summaryView(sum),
	})
}

// publishEvent assigns the next event ID, appends to the ring buffer and
// fans out to subscribers without blocking on slow readers.
func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		Periods:         s.builder.Store().Len(),
		Writes:          s.writes,
		Rejected:        s.rejected,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func periodParam(r *http.Request) model.PeriodKey {
	return model.PeriodKey(r.PathValue("period")).Canonical()
}

func (s *Service) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	period := periodParam(r)
	_, stored := s.builder.Store().Get(period)
	rec := s.builder.GetRecord(period)

	sum, err := s.summarize(rec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordView(rec, stored, sum))
}

func (s *Service) handleSetField(w http.ResponseWriter, r *http.Request) {
	period := periodParam(r)
	field := r.PathValue("field")

	var req SetFieldRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := s.builder.SetFieldString(period, field, req.Value); err != nil {
		if errors.Is(err, model.ErrInvalidAmount) {
			err = &fieldError{field: field, err: err}
		}
		s.writeError(w, err)
		return
	}

	rec := s.builder.GetRecord(period)
	sum, err := s.summarize(rec)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.emit("field_updated", period, field, sum)
	writeJSON(w, http.StatusOK, recordView(rec, true, sum))
}

func (s *Service) handleSetLineItems(w http.ResponseWriter, r *http.Request) {
	period := periodParam(r)

	var req []LineItemInput
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	items := make([]model.ExpenseLineItem, 0, len(req))
	for _, in := range req {
		projected, err := budget.ParseAmount(in.Projected)
		if err != nil {
			s.writeError(w, &fieldError{field: in.Category + " projected", err: err})
			return
		}
		actual, err := budget.ParseAmount(in.Actual)
		if err != nil {
			s.writeError(w, &fieldError{field: in.Category + " actual", err: err})
			return
		}
		items = append(items, model.ExpenseLineItem{Category: in.Category, Projected: projected, Actual: actual})
	}

	computed, err := s.builder.SetLineItems(period, items)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sum, err := s.summarize(s.builder.GetRecord(period))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.emit("line_items_updated", period, "", sum)
	writeJSON(w, http.StatusOK, lineItemViews(computed))
}

func (s *Service) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, historyViews(budget.History(s.builder.Store())))
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	period := periodParam(r)
	rec := s.builder.GetRecord(period)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(period)))
	if err := export.WriteCSV(w, rec); err != nil {
		s.log.Error("export failed", "period", period, "error", err)
	}
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send a hello so clients know the stream is live.
	writeSSE(w, Event{Type: "hello", Timestamp: time.Now()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// fieldError attaches a field name to a parse error that carries none.
type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.field + ": " + e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }

func (s *Service) writeError(w http.ResponseWriter, err error) {
	s.recordFailure(err)

	kind := ErrorKind(err)
	if kind == "" {
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := ErrorResponse{Error: err.Error(), Kind: kind}
	var ve *model.ValidationError
	var fe *fieldError
	switch {
	case errors.As(err, &ve):
		resp.Field = ve.Name
	case errors.As(err, &fe):
		resp.Field = fe.field
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
