package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the msgpack IPC stream
type Server struct {
	service *Service
	dec     *msgpack.Decoder
	enc     *msgpack.Encoder
	out     *bufio.Writer
	count   int
}

// NewServer creates a server using stdin/stdout for IPC
func NewServer(service *Service) *Server {
	return NewServerWithIO(service, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server on arbitrary streams.
func NewServerWithIO(service *Service, r io.Reader, w io.Writer) *Server {
	out := bufio.NewWriter(w)
	return &Server{
		service: service,
		dec:     msgpack.NewDecoder(bufio.NewReader(r)),
		enc:     msgpack.NewEncoder(out),
		out:     out,
	}
}

// Start begins listening for IPC requests. It returns nil once the input is exhausted.
func (s *Server) Start() error {
	log.Debug("Starting server.")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.count)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			// the stream position is unknown after a bad message
			_ = s.send(ErrorResponse{Error: "invalid msgpack request", Code: http.StatusBadRequest})
			return fmt.Errorf("failed to decode request: %w", err)
		}
		s.count++
		if err := s.send(s.handle(req)); err != nil {
			return err
		}
	}
}

// handle runs a single request and returns the response to send.
func (s *Server) handle(req Request) any {
	switch req.Action {
	case ActionMatch:
		resp, err := s.service.Match(req.Text, req.Begin, req.Length)
		if err != nil {
			return s.fail(req, err)
		}
		resp.ID = req.ID
		return resp
	case ActionAnalyze, "":
		resp, err := s.service.Analyze(req.Field, req.Text)
		if err != nil {
			return s.fail(req, err)
		}
		resp.ID = req.ID
		return resp
	case ActionExpand:
		resp := s.service.Expand(req.Text, req.Limit)
		resp.ID = req.ID
		return resp
	case ActionStats:
		resp := s.service.Stats()
		resp.ID = req.ID
		return resp
	case ActionHealth:
		return StatusResponse{ID: req.ID, Status: "ok"}
	default:
		return ErrorResponse{ID: req.ID, Error: fmt.Sprintf("unknown action: %s", req.Action), Code: http.StatusBadRequest}
	}
}

func (s *Server) fail(req Request, err error) ErrorResponse {
	code := StatusCode(err)
	if code >= http.StatusInternalServerError {
		log.Errorf("Request %s (%s) failed: %v", req.ID, req.Action, err)
	} else {
		log.Debugf("Request %s (%s) rejected: %v", req.ID, req.Action, err)
	}
	return ErrorResponse{ID: req.ID, Error: err.Error(), Code: code}
}

func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return s.out.Flush()
}
