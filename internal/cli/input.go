// Package cli handles cmd line input against a composition session for DBG and testing various features
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tabtab-ime/tabtab/internal/logger"
	"github.com/tabtab-ime/tabtab/pkg/compose"
	"github.com/tabtab-ime/tabtab/pkg/suggest"
)

var (
	candidateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	pageStyle      = lipgloss.NewStyle().Faint(true)
	bufferStyle    = lipgloss.NewStyle().Bold(true)
)

// InputHandler runs an interactive loop against one session. Each input
// line is a command stream: letters append syllables, digits 1-9 select,
// '<' and '>' page, '-' backspaces, '!' cancels, '@' asks the provider.
type InputHandler struct {
	session  *compose.Session
	provider suggest.Provider
	log      *log.Logger
}

// NewInputHandler handles initialization of the InputHandler.
func NewInputHandler(session *compose.Session, provider suggest.Provider) *InputHandler {
	return &InputHandler{session: session, provider: provider, log: logger.New("cli")}
}

// Start begins the interface loop.
// Loop terminates if an error occurs while reading from stdin.
func (h *InputHandler) Start() error {
	h.log.Print("TabTab CLI [DBG]")
	h.log.Print("letters compose, 1-9 select, < > page, - backspace, ! cancel, @ AI suggest (Ctrl+C to exit):")
	reader := bufio.NewReader(os.Stdin)

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, ch := range line {
			h.handleRune(ch)
		}
		h.render()
	}
}

func (h *InputHandler) handleRune(ch rune) {
	switch {
	case ch >= '1' && ch <= '9':
		if text, ok := h.session.SelectCandidate(int(ch - '1')); ok {
			h.log.Printf("committed: %s", bufferStyle.Render(text))
		}
	case ch == '>':
		h.session.NextPage()
	case ch == '<':
		h.session.PreviousPage()
	case ch == '-':
		h.session.RemoveLastSyllable()
	case ch == '!':
		h.session.Cancel()
	case ch == '@':
		h.requestSuggestions()
	case ch == ' ':
		if text, ok := h.session.CommitSelection(); ok {
			h.log.Printf("committed: %s", bufferStyle.Render(text))
		}
	default:
		h.session.AppendSyllable(ch)
	}
}

// requestSuggestions asks the provider synchronously; the CLI has no
// event loop to marshal an async result back into.
func (h *InputHandler) requestSuggestions() {
	if h.provider == nil {
		h.log.Warn("No suggestion provider configured")
		return
	}
	text := h.session.SuggestionContext()
	if text == "" {
		h.log.Warn("Nothing to suggest from")
		return
	}
	start := time.Now()
	epoch := h.session.Epoch()
	result := <-suggest.Request(context.Background(), h.provider, epoch, text)
	h.log.Debugf("Suggestion request took [ %v ]", time.Since(start))
	if result.Err != nil || len(result.Suggestions) == 0 {
		h.log.Warn("No suggestions available")
		return
	}
	if result.Epoch != h.session.Epoch() {
		h.log.Debug("Discarding stale suggestion result")
		return
	}
	h.session.EnterSuggestionMode(result.Suggestions)
}

func (h *InputHandler) render() {
	switch h.session.State() {
	case compose.StateSuggesting:
		words, cursor := h.session.VisibleSuggestions()
		for i, w := range words {
			marker := "  "
			if i == cursor {
				marker = "> "
			}
			h.log.Printf("%s%d. %s", marker, i+1, candidateStyle.Render(w))
		}
	case compose.StateComposing:
		words, page, total := h.session.VisibleCandidates()
		h.log.Printf("[%s]", bufferStyle.Render(h.session.Buffer()))
		for i, w := range words {
			h.log.Printf("%d. %s", i+1, candidateStyle.Render(w))
		}
		h.log.Print(pageStyle.Render(fmt.Sprintf("page %d/%d", page+1, total)))
	default:
		h.log.Print(pageStyle.Render("(idle)"))
	}
}
