package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/prefillgrid/internal/ctxlog"
	"github.com/specialistvlad/prefillgrid/internal/dag"
	"github.com/specialistvlad/prefillgrid/internal/mapping"
	"github.com/specialistvlad/prefillgrid/internal/notify"
	"github.com/specialistvlad/prefillgrid/internal/prefill"
	"github.com/specialistvlad/prefillgrid/internal/session"
)

var errBadRequest = errors.New("bad request")

// serve runs the HTTP API until ctx is cancelled.
func (a *App) serve(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	publisher := a.startNotifier(ctx)
	defer publisher.Close()

	addr := fmt.Sprintf(":%d", a.model.Server.Port)
	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		logger.Info("🚀 Prefill API server starting", "address", fmt.Sprintf("http://localhost%s", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return a.closeServer()
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("prefill API server failed: %w", err)
	}
}

func (a *App) closeServer() error {
	logger := a.logger
	if a.httpServer == nil {
		logger.Debug("API server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()

	logger.Info("Shutting down API server...")
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("API server shutdown failed", "error", err)
		return err
	}
	logger.Debug("API server shut down gracefully.")
	return nil
}

// startNotifier connects the configured publisher to the mapping store.
func (a *App) startNotifier(ctx context.Context) notify.Publisher {
	logger := ctxlog.FromContext(ctx)

	var publisher notify.Publisher = notify.Nop{}
	if n := a.model.Notify; n == nil {
		logger.Warn("Mapping notifier not started: disabled")
	} else {
		sio, err := notify.NewSocketIO(ctx, notify.SocketIOConfig{
			URL:                n.URL,
			Namespace:          n.Namespace,
			InsecureSkipVerify: n.InsecureSkipVerify,
		})
		if err != nil {
			logger.Warn("Mapping notifier not started", "error", err)
		} else {
			publisher = sio
		}
	}

	notify.Forward(ctx, a.session.Mappings(), publisher)
	return publisher
}

// Handler returns the HTTP API.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.healthHandler)

	mux.HandleFunc("GET /api/blueprint", a.blueprintStatusHandler)
	mux.HandleFunc("POST /api/blueprint/reload", a.reloadHandler)
	mux.HandleFunc("DELETE /api/blueprint/error", a.clearErrorHandler)
	mux.HandleFunc("GET /api/blueprint/nodes", a.nodesHandler)
	mux.HandleFunc("GET /api/blueprint/edges", a.edgesHandler)
	mux.HandleFunc("GET /api/globals", a.globalsHandler)

	mux.HandleFunc("GET /api/nodes/{id}/fields", a.fieldsHandler)
	mux.HandleFunc("GET /api/nodes/{id}/sources", a.sourcesHandler)

	mux.HandleFunc("GET /api/selection", a.selectionHandler)
	mux.HandleFunc("PUT /api/selection", a.selectHandler)
	mux.HandleFunc("DELETE /api/selection", a.clearSelectionHandler)

	mux.HandleFunc("GET /api/mappings", a.listMappingsHandler)
	mux.HandleFunc("POST /api/mappings", a.addMappingHandler)
	mux.HandleFunc("DELETE /api/mappings", a.removeMappingHandler)
	mux.HandleFunc("GET /api/mappings/recent", a.recentMappingHandler)

	return a.withLogger(mux)
}

func (a *App) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlog.With(ctxlog.WithLogger(r.Context(), a.logger), "method", r.Method, "path", r.URL.Path)
		ctxlog.FromContext(ctx).Debug("API request received.", "remote_addr", r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) blueprintStatusHandler(w http.ResponseWriter, r *http.Request) {
	resp := struct {
		session.Status
		ID   string `json:"id,omitempty"`
		Name string `json:"name,omitempty"`
	}{Status: a.session.Status()}
	if bp, err := a.session.Blueprint(); err == nil {
		resp.ID, resp.Name = bp.ID, bp.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) reloadHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.loadBlueprint(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: a.session.Status().Error})
		return
	}
	a.blueprintStatusHandler(w, r)
}

func (a *App) clearErrorHandler(w http.ResponseWriter, r *http.Request) {
	a.session.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) nodesHandler(w http.ResponseWriter, r *http.Request) {
	views, err := a.session.NodeViews()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *App) edgesHandler(w http.ResponseWriter, r *http.Request) {
	views, err := a.session.EdgeViews()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *App) globalsHandler(w http.ResponseWriter, r *http.Request) {
	views, err := a.globalViews()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (a *App) fieldsHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	fields, err := a.session.FieldsOf(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"nodeId": id, "fields": fields})
}

func (a *App) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	grouped, err := a.session.GroupedFor(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

type selectionResponse struct {
	NodeID    string               `json:"nodeId,omitempty"`
	FormID    string               `json:"formId,omitempty"`
	Available []prefill.DataSource `json:"available"`
	Sources   prefill.Grouped      `json:"sources"`
}

func (a *App) selectionHandler(w http.ResponseWriter, r *http.Request) {
	available, err := a.session.AvailableSources()
	if err != nil {
		writeError(w, r, err)
		return
	}
	grouped, err := a.session.GroupedSources()
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := selectionResponse{Available: available, Sources: grouped}
	if n, ok := a.session.SelectedNode(); ok {
		resp.NodeID = n.ID
	}
	if f, ok := a.session.SelectedForm(); ok {
		resp.FormID = f.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) selectHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeID string `json:"nodeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if err := a.session.Select(req.NodeID); err != nil {
		writeError(w, r, err)
		return
	}
	a.selectionHandler(w, r)
}

func (a *App) clearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	a.session.ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) listMappingsHandler(w http.ResponseWriter, r *http.Request) {
	store := a.session.Mappings()
	if node := r.URL.Query().Get("node"); node != "" {
		writeJSON(w, http.StatusOK, store.ForNode(node))
		return
	}
	writeJSON(w, http.StatusOK, store.All())
}

// mappingRequest is either a leaf selection (LeafID set) or a full mapping.
type mappingRequest struct {
	LeafID         string              `json:"leafId"`
	TargetNodeID   string              `json:"targetNodeId"`
	TargetFieldKey string              `json:"targetFieldKey"`
	Source         *prefill.DataSource `json:"source"`
}

func (a *App) addMappingHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(r.Context())

	var req mappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	if req.TargetNodeID == "" || req.TargetFieldKey == "" {
		writeError(w, r, fmt.Errorf("%w: targetNodeId and targetFieldKey are required", errBadRequest))
		return
	}

	var m mapping.PrefillMapping
	switch {
	case req.LeafID != "":
		var err error
		m, err = a.session.MappingFromLeaf(req.TargetNodeID, req.TargetFieldKey, req.LeafID)
		if err != nil {
			writeError(w, r, err)
			return
		}
	case req.Source != nil:
		var err error
		m, err = a.session.MappingFromSource(req.TargetNodeID, req.TargetFieldKey, *req.Source)
		if err != nil {
			writeError(w, r, err)
			return
		}
	default:
		writeError(w, r, fmt.Errorf("%w: either leafId or source is required", errBadRequest))
		return
	}

	a.session.Mappings().Add(m)
	logger.Info("Mapping added.", "mapping", m.String())
	writeJSON(w, http.StatusCreated, m)
}

func (a *App) removeMappingHandler(w http.ResponseWriter, r *http.Request) {
	node, field := r.URL.Query().Get("node"), r.URL.Query().Get("field")
	if node == "" || field == "" {
		writeError(w, r, fmt.Errorf("%w: node and field query parameters are required", errBadRequest))
		return
	}
	removed := a.session.Mappings().Remove(node, field)
	ctxlog.FromContext(r.Context()).Info("Mappings removed.", "node", node, "field", field, "count", removed)
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (a *App) recentMappingHandler(w http.ResponseWriter, r *http.Request) {
	m, ok := a.session.Mappings().RecentlyAdded()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := ctxlog.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("API request failed.", "status", status, "error", err)
	} else {
		logger.Debug("API request rejected.", "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnknownLeaf):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrNoBlueprint):
		return http.StatusServiceUnavailable
	case errors.Is(err, dag.ErrCycle):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
