// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     evalservice
// Description: WebSocket and HTTP endpoints of the evaluation service
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package evalservice

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	coregrpc "github.com/msto63/mlox/pkg/core/grpc"
	"github.com/msto63/mlox/pkg/core/logging"
	"github.com/msto63/mlox/pkg/core/version"
)

// WebSocket upgrader with permissive settings for local development
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

const wsReadTimeout = 120 * time.Second

// WSMessage represents an incoming WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "eval", "ast", "tokens", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSSourcePayload carries the source of an evaluation request
type WSSourcePayload struct {
	Source string `json:"source"`
}

// WSResponse represents an outgoing WebSocket message
type WSResponse struct {
	Type    string      `json:"type"`    // "result", "error", "pong"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// WSErrorPayload represents a protocol error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WebSocketHandler serves evaluation requests over WebSocket
type WebSocketHandler struct {
	service *Service
	logger  *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(service *Service) *WebSocketHandler {
	return &WebSocketHandler{
		service: service,
		logger:  logging.New("evalservice-websocket"),
	}
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection answers messages in order until the peer disconnects
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case "ping":
			h.sendResponse(conn, WSResponse{Type: "pong", Payload: version.Get()})

		case string(ModeEval), string(ModeAST), string(ModeTokens):
			var payload WSSourcePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, "invalid_payload", "Invalid source payload")
				continue
			}

			reqCtx := coregrpc.WithRequestID(ctx, uuid.NewString())
			resp, err := h.service.Evaluate(reqCtx, payload.Source, Mode(msg.Type))
			if err != nil {
				h.sendError(conn, "evaluation_failed", err.Error())
				continue
			}
			if resp.Error != nil {
				h.sendResponse(conn, WSResponse{Type: "error", Payload: resp})
				continue
			}
			h.sendResponse(conn, WSResponse{Type: "result", Payload: resp})

		default:
			h.sendError(conn, "unknown_type", "Unknown message type: "+msg.Type)
		}
	}
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Error("WebSocket write error", "error", err)
	}
}

// sendError sends a protocol error message via WebSocket
func (h *WebSocketHandler) sendError(conn *websocket.Conn, code, message string) {
	h.sendResponse(conn, WSResponse{
		Type:    "error",
		Payload: WSErrorPayload{Code: code, Message: message},
	})
}

// healthTimeout bounds one /healthz run
const healthTimeout = 2 * time.Second

// NewHTTPHandler returns the mux serving /ws and /healthz. /healthz
// answers 503 when a check is unhealthy.
func NewHTTPHandler(service *Service) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebSocketHandler(service))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		report := service.Health().CheckWithTimeout(r.Context(), healthTimeout)

		w.Header().Set("Content-Type", "application/json")
		if !report.Healthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  report.Status,
			"version": version.Get(),
			"uptime":  report.Uptime,
			"checks":  report.Checks,
		})
	})
	return mux
}
