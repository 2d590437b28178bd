// Package server exposes the export pipeline over HTTP. One request is one
// job: it carries its own credentials, gets its own session and output
// directory, and reports one tagged result per requested channel.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matillion/mattermost-export/internal/config"
	"github.com/matillion/mattermost-export/internal/export"
	"github.com/matillion/mattermost-export/internal/mattermost"
)

// Dialer opens an authenticated API session for one job.
type Dialer func(ctx context.Context, cfg mattermost.Config, logger *zap.Logger) (mattermost.API, error)

func dial(ctx context.Context, cfg mattermost.Config, logger *zap.Logger) (mattermost.API, error) {
	client, err := mattermost.NewClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := client.Login(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// Server is the HTTP front of the export service.
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	dialer     Dialer
	httpServer *http.Server
}

// NewServer builds the server and its routes.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		dialer: dial,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /export", s.handleExport)
	mux.HandleFunc("GET /channels", s.handleChannels)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      withLogging(logger, mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start blocks until the server is shut down or fails.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight jobs and stops listening.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ExportRequest is one export job.
type ExportRequest struct {
	// Connection overrides the server's default Mattermost settings for
	// this job only.
	Connection *ConnectionConfig `json:"connection,omitempty"`

	// TeamID scopes channel-name resolution. Optional; channel IDs never
	// need it.
	TeamID string `json:"team_id,omitempty"`

	// Channels are the channels to export, by ID or by name. At least one
	// is required.
	Channels []string `json:"channels"`

	Before           string `json:"before,omitempty"`
	After            string `json:"after,omitempty"`
	DownloadFiles    bool   `json:"download_files,omitempty"`
	IndexAfterFilter bool   `json:"index_after_filter,omitempty"`
}

// ConnectionConfig mirrors the credential part of the service config.
type ConnectionConfig struct {
	URL      string `json:"url,omitempty"`
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// ChannelResult is the outcome for one requested channel. Exactly one of
// Export or Error is set.
type ChannelResult struct {
	ChannelID string         `json:"channel_id"`
	Export    *ChannelExport `json:"export,omitempty"`
	Error     *ChannelError  `json:"error,omitempty"`
}

// ChannelExport summarizes one written document.
type ChannelExport struct {
	File        export.FileRef `json:"file"`
	DisplayName string         `json:"display_name"`
	Team        string         `json:"team,omitempty"`
	PostCount   int            `json:"post_count"`
}

// ChannelError reports where in the pipeline a channel failed.
type ChannelError struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// ExportResponse is the body of a finished job.
type ExportResponse struct {
	JobID     string          `json:"job_id"`
	OutputDir string          `json:"output_dir"`
	Results   []ChannelResult `json:"results"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body: "+err.Error())
		return
	}
	if len(req.Channels) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "channels must list at least one channel id")
		return
	}

	jobID := uuid.NewString()
	logger := s.logger.With(zap.String("job_id", jobID))

	api, err := s.dialer(r.Context(), s.sessionConfig(req.Connection), logger)
	if err != nil {
		s.writeDialError(w, logger, err)
		return
	}

	sink, err := export.NewDirSink(filepath.Join(s.cfg.OutputDir, jobID))
	if err != nil {
		logger.Error("could not create job directory", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "could not create job output directory")
		return
	}

	exporter := export.NewExporter(api, sink, logger, s.cfg.Workers)
	if err := exporter.Prepare(r.Context()); err != nil {
		s.writeDialError(w, logger, err)
		return
	}

	logger.Info("export job accepted",
		zap.Int("channels", len(req.Channels)),
		zap.String("output_dir", sink.Dir()))

	resp := ExportResponse{
		JobID:     jobID,
		OutputDir: sink.Dir(),
		Results:   make([]ChannelResult, len(req.Channels)),
	}

	// Resolve names up front so a bad name costs one result entry, not
	// the job.
	ids := make([]string, 0, len(req.Channels))
	positions := make([]int, 0, len(req.Channels))
	for i, requested := range req.Channels {
		id, err := exporter.ResolveChannel(r.Context(), req.TeamID, requested)
		if err != nil {
			resp.Results[i] = ChannelResult{
				ChannelID: requested,
				Error:     &ChannelError{Stage: "resolve", Message: err.Error()},
			}
			continue
		}
		ids = append(ids, id)
		positions = append(positions, i)
	}

	results := exporter.Export(r.Context(), ids, export.Options{
		DownloadFiles:    req.DownloadFiles,
		Before:           req.Before,
		After:            req.After,
		IndexAfterFilter: req.IndexAfterFilter,
	})
	for j, res := range results {
		resp.Results[positions[j]] = s.channelResult(exporter, logger, res)
	}

	writeJSON(w, http.StatusOK, resp)
}

// channelResult writes a successful document through the sink and folds
// the outcome into the response entry.
func (s *Server) channelResult(exporter *export.Exporter, logger *zap.Logger, res export.Result) ChannelResult {
	out := ChannelResult{ChannelID: res.ChannelID}

	if res.Err != nil {
		logger.Warn("channel export failed",
			zap.String("channel_id", res.ChannelID),
			zap.Error(res.Err))
		out.Error = &ChannelError{Stage: errorStage(res.Err), Message: res.Err.Error()}
		return out
	}

	ref, err := exporter.WriteDocument(res.Document)
	if err != nil {
		out.Error = &ChannelError{Stage: "write", Message: err.Error()}
		return out
	}
	out.Export = &ChannelExport{
		File:        ref,
		DisplayName: res.Document.Channel.DisplayName,
		Team:        res.Document.Channel.Team,
		PostCount:   len(res.Document.Posts),
	}
	return out
}

// errorStage classifies a pipeline failure for the response body.
func errorStage(err error) string {
	var fetchErr *export.FetchError
	var nameErr *export.MalformedChannelNameError
	var authErr *mattermost.AuthError
	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &fetchErr):
		return "fetch"
	case errors.As(err, &nameErr):
		return "label"
	case errors.Is(err, mattermost.ErrNotFound):
		return "resolve"
	default:
		return "export"
	}
}

// ChannelsResponse is the body of a channel listing.
type ChannelsResponse struct {
	TeamID   string               `json:"team_id"`
	Channels []mattermost.Channel `json:"channels"`
}

// handleChannels lists exportable channels using the server's default
// credentials. team_id is optional; the default is the session user's
// first team.
func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("handler", "channels"))

	api, err := s.dialer(r.Context(), s.sessionConfig(nil), logger)
	if err != nil {
		s.writeDialError(w, logger, err)
		return
	}

	exporter := export.NewExporter(api, nil, logger, s.cfg.Workers)
	if err := exporter.Prepare(r.Context()); err != nil {
		s.writeDialError(w, logger, err)
		return
	}

	teamID := r.URL.Query().Get("team_id")
	if teamID == "" {
		teams, err := api.GetTeamsForUser(r.Context(), exporter.Me())
		if err != nil || len(teams) == 0 {
			writeError(w, http.StatusNotFound, "not_found", "the session user belongs to no team")
			return
		}
		teamID = teams[0].ID
	}

	channels, err := exporter.TeamChannels(r.Context(), teamID)
	if err != nil {
		logger.Error("channel listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ChannelsResponse{TeamID: teamID, Channels: channels})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sessionConfig merges per-job connection settings over the server
// defaults.
func (s *Server) sessionConfig(conn *ConnectionConfig) mattermost.Config {
	cfg := mattermost.Config{
		URL:      s.cfg.Mattermost.URL,
		Token:    s.cfg.Mattermost.Token,
		Username: s.cfg.Mattermost.Username,
		Password: s.cfg.Mattermost.Password,
	}
	if conn == nil {
		return cfg
	}
	if conn.URL != "" {
		cfg.URL = conn.URL
	}
	if conn.Token != "" || conn.Username != "" {
		// Explicit job credentials replace the defaults wholesale so a
		// job token cannot silently combine with a default password.
		cfg.Token = conn.Token
		cfg.Username = conn.Username
		cfg.Password = conn.Password
	}
	return cfg
}

// writeDialError maps session setup failures onto status codes. Auth
// failures abort the whole job with 401.
func (s *Server) writeDialError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var authErr *mattermost.AuthError
	if errors.As(err, &authErr) {
		logger.Warn("authentication failed", zap.String("code", authErr.Code))
		writeError(w, http.StatusUnauthorized, "auth_failed", authErr.Message)
		return
	}
	logger.Error("session setup failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, "upstream", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, map[string]string{
		"error":   errType,
		"message": message,
	})
}

func withLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
