package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jmcampos/techexpert/internal/chat"
	"github.com/jmcampos/techexpert/internal/llm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type     string `json:"type"` // "chat"
	Prompt   string `json:"prompt"`
	History  string `json:"history"`
	UserName string `json:"user_name"`
	Profile  string `json:"profile"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type string `json:"type"` // "response" or "error"
	llm.Result
	Error string `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Msg("websocket read failed")
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendSocketError(conn, "invalid message format")
			continue
		}

		switch req.Type {
		case "chat":
			s.handleSocketChat(conn, r, req)
		default:
			s.sendSocketError(conn, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleSocketChat(conn *websocket.Conn, r *http.Request, req wsRequest) {
	if req.Prompt == "" {
		s.sendSocketError(conn, "prompt is required")
		return
	}

	result, err := s.engine.Respond(r.Context(), chat.Request{
		Prompt:   req.Prompt,
		History:  req.History,
		UserName: req.UserName,
		Profile:  req.Profile,
	})
	if err != nil {
		s.sendSocketError(conn, chat.ErrorMessage(err))
		return
	}

	s.sendSocketResponse(conn, wsResponse{Type: "response", Result: result})
}

func (s *Server) sendSocketResponse(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Error().Err(err).Msg("websocket write failed")
	}
}

func (s *Server) sendSocketError(conn *websocket.Conn, msg string) {
	s.sendSocketResponse(conn, wsResponse{Type: "error", Error: msg})
}
