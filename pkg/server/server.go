package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tabtab-ime/tabtab/pkg/compose"
	"github.com/tabtab-ime/tabtab/pkg/suggest"
)

// Server drives one composition session over msgpack IPC. Requests are
// handled strictly one at a time, which is exactly the session's
// concurrency contract; provider results re-enter through pending and
// are applied between requests.
type Server struct {
	session  *compose.Session
	provider suggest.Provider
	cooldown time.Duration

	dec *msgpack.Decoder
	enc *msgpack.Encoder

	pending     <-chan suggest.Result
	lastRequest time.Time
}

// NewServer creates a server on stdin/stdout. provider may be nil, in
// which case "suggest" reports no suggestions.
func NewServer(session *compose.Session, provider suggest.Provider, cooldown time.Duration) *Server {
	return &Server{
		session:  session,
		provider: provider,
		cooldown: cooldown,
		dec:      msgpack.NewDecoder(os.Stdin),
		enc:      msgpack.NewEncoder(os.Stdout),
	}
}

// NewServerWithStreams is NewServer with explicit streams, for tests.
func NewServerWithStreams(session *compose.Session, provider suggest.Provider, cooldown time.Duration, r io.Reader, w io.Writer) *Server {
	return &Server{
		session:  session,
		provider: provider,
		cooldown: cooldown,
		dec:      msgpack.NewDecoder(r),
		enc:      msgpack.NewEncoder(w),
	}
}

// Start begins the request loop. It returns nil on clean EOF.
func (s *Server) Start() error {
	log.Debug("Starting composition server.")
	s.send(Response{Status: "ready", State: s.session.State().String()})

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.applyPending()
		s.handle(req)
	}
}

// applyPending installs a finished provider result, dropping it when the
// session epoch has moved on since the request was fired.
func (s *Server) applyPending() {
	if s.pending == nil {
		return
	}
	select {
	case result, ok := <-s.pending:
		s.pending = nil
		if !ok {
			return
		}
		if result.Epoch != s.session.Epoch() {
			log.Debugf("Discarding stale suggestion result (epoch %d, now %d)", result.Epoch, s.session.Epoch())
			return
		}
		s.session.EnterSuggestionMode(result.Suggestions)
	default:
	}
}

func (s *Server) handle(req Request) {
	switch req.Op {
	case "append":
		for _, ch := range req.Ch {
			s.session.AppendSyllable(ch)
		}
		s.view(req.ID, "")
	case "backspace":
		s.session.RemoveLastSyllable()
		s.view(req.ID, "")
	case "select":
		text, _ := s.session.SelectCandidate(req.Index)
		s.view(req.ID, text)
	case "commit":
		text, _ := s.session.CommitSelection()
		s.view(req.ID, text)
	case "next_page":
		s.session.NextPage()
		s.view(req.ID, "")
	case "prev_page":
		s.session.PreviousPage()
		s.view(req.ID, "")
	case "cancel":
		s.session.Cancel()
		s.view(req.ID, "")
	case "view", "poll":
		s.view(req.ID, "")
	case "suggest_next":
		s.session.NextSuggestion()
		s.view(req.ID, "")
	case "suggest_prev":
		s.session.PreviousSuggestion()
		s.view(req.ID, "")
	case "suggest_enter":
		// The client already has a list (e.g. from its own provider).
		s.session.EnterSuggestionMode(req.List)
		s.view(req.ID, "")
	case "suggest":
		s.fireSuggestion(req.ID)
	case "health":
		s.send(Response{ID: req.ID, Status: "ok", State: s.session.State().String(), Epoch: s.session.Epoch()})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %s", req.Op), 400)
	}
}

// fireSuggestion launches a provider request for the current context.
// The session is untouched until a later request drains the result.
func (s *Server) fireSuggestion(id string) {
	if s.provider == nil {
		s.sendError(id, "No suggestion provider configured", 503)
		return
	}
	if s.pending != nil {
		s.sendError(id, "A suggestion request is already in flight", 429)
		return
	}
	if since := time.Since(s.lastRequest); since < s.cooldown {
		s.sendError(id, fmt.Sprintf("Suggestion cooldown, retry in %v", s.cooldown-since), 429)
		return
	}
	text := s.session.SuggestionContext()
	if text == "" {
		s.sendError(id, "Nothing to suggest from", 400)
		return
	}
	s.lastRequest = time.Now()
	s.pending = suggest.Request(context.Background(), s.provider, s.session.Epoch(), text)
	s.view(id, "")
}

// view reports the session as the client should render it.
func (s *Server) view(id, committed string) {
	resp := Response{
		ID:        id,
		Status:    "ok",
		State:     s.session.State().String(),
		Epoch:     s.session.Epoch(),
		Committed: committed,
		Buffer:    s.session.Buffer(),
	}
	if s.session.State() == compose.StateSuggesting {
		resp.Words, resp.Cursor = s.session.VisibleSuggestions()
	} else {
		resp.Words, resp.Page, resp.TotalPages = s.session.VisibleCandidates()
	}
	s.send(resp)
}

func (s *Server) send(resp interface{}) {
	if err := s.enc.Encode(resp); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
