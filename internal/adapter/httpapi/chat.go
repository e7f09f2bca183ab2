package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"crew-agent/internal/application/service"
	"crew-agent/internal/domain/entity"

	"github.com/google/uuid"
)

type chatRequest struct {
	Prompt       string   `json:"prompt"`
	Backend      string   `json:"backend"`
	Mode         string   `json:"mode"`
	EnabledTools []string `json:"enabled_tools"`
	ModelName    string   `json:"model_name"`
	APIKey       string   `json:"api_key"`
}

func (r chatRequest) goal() entity.Goal {
	return entity.Goal{
		Prompt:       r.Prompt,
		Backend:      entity.Backend(strings.ToLower(strings.TrimSpace(r.Backend))),
		ModelName:    strings.TrimSpace(r.ModelName),
		APIKey:       strings.TrimSpace(r.APIKey),
		EnabledTools: r.EnabledTools,
		Mode:         entity.ParseMode(r.Mode),
	}
}

// handleAgentChat streams the run as server-sent events, one
// "data: {json}" frame per event. The run is cancelled when the client goes
// away.
func (s *Server) handleAgentChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	goal := req.goal()
	if err := s.runner.Validate(goal); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, entity.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	runID := uuid.NewString()
	log := s.logger.WithFields(map[string]any{"run_id": runID, "mode": string(goal.Mode)})

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Run-ID", runID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	stream := service.NewEventStream(0)
	go func() {
		defer stream.Close()
		if err := s.runner.Execute(ctx, goal, stream); err != nil {
			log.Warn("Run ended with error", "error", err)
		}
	}()

	log.Info("Run streaming")
	for ev := range stream.Events() {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Error("Failed to encode event", "event", ev.Name, "error", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			// Keep draining so the producer sees the cancellation, not a full buffer.
			continue
		}
		flusher.Flush()
	}
	log.Info("Run stream closed")
}
