package server

import (
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/queryserve/queryserve/pkg/config"
	"github.com/queryserve/queryserve/pkg/engine"
)

// Server handles the IPC loop for autocomplete requests. The engine is
// shared; the keystroke cursor belongs to the single connected client,
// so one session is kept for the whole stream.
type Server struct {
	eng     *engine.Engine
	session *engine.Session
	cfg     *config.Config
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder
}

// NewServer creates a completion server reading requests from r and
// writing responses to w. Production wiring passes stdin/stdout.
func NewServer(eng *engine.Engine, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		eng:     eng,
		session: eng.NewSession(),
		cfg:     cfg,
		dec:     msgpack.NewDecoder(r),
		enc:     msgpack.NewEncoder(w),
	}
}

// Start runs the request loop until the input stream closes.
func (s *Server) Start() error {
	log.Debug("Starting IPC server.")
	s.send(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	switch req.Cmd {
	case "guess":
		s.handleGuess(req)
	case "feedback":
		s.eng.Feedback(req.Correct, req.Query)
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case "stats":
		s.send(StatusResponse{ID: req.ID, Status: "ok", Stats: s.eng.Stats()})
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown command: %s", req.Cmd), 400)
	}
}

func (s *Server) handleGuess(req Request) {
	ch, size := utf8.DecodeRuneInString(req.Char)
	if size == 0 || ch == utf8.RuneError && size == 1 {
		s.sendError(req.ID, "Missing or invalid 'ch' parameter", 400)
		log.Debug("Bad guess character in request", "id", req.ID)
		return
	}
	if req.Index < 0 || req.Index >= s.cfg.Server.MaxQueryLen {
		s.sendError(req.ID, fmt.Sprintf("Index out of range (max %d)", s.cfg.Server.MaxQueryLen), 400)
		return
	}

	start := time.Now()
	suggestions := s.session.Guess(ch, req.Index)
	elapsed := time.Since(start)

	count := 0
	for _, sg := range suggestions {
		if sg != "" {
			count++
		}
	}
	s.send(Response{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       count,
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
