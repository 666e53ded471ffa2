// Package cli handles cmd line input for debugging the analyzer in real time.
package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/bastiangx/wordseg/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads lines and prints how each one is analyzed. Lines
// starting with ":m", ":x" or ":s" run match, expand and stats instead.
type InputHandler struct {
	service      *server.Service
	field        string
	showLexemes  bool
	requestCount int

	in  io.Reader
	out *log.Logger
}

// NewInputHandler creates a handler reading from in and printing to out.
func NewInputHandler(service *server.Service, field string, showLexemes bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		service:     service,
		field:       field,
		showLexemes: showLexemes,
		in:          in,
		out:         log.NewWithOptions(out, log.Options{ReportTimestamp: false}),
	}
}

// Start begins the interface loop. It returns nil when the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("wordseg CLI")
	h.out.Print("type a query and press Enter (:m text, :x prefix, :s for stats, Ctrl+C to exit):")

	reader := bufio.NewReader(h.in)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case ":m":
		h.match(arg)
	case ":x":
		h.expand(arg)
	case ":s":
		h.stats()
	default:
		h.analyze(line)
	}
}

func (h *InputHandler) analyze(text string) {
	resp, err := h.service.Analyze(h.field, text)
	if err != nil {
		h.out.Errorf("Cannot analyze '%s': %v", text, err)
		return
	}
	if h.showLexemes {
		h.out.Printf("%d lexemes:", len(resp.Lexemes))
		for i, l := range resp.Lexemes {
			h.out.Printf("%2d. %3d-%-3d %s", i+1, l.Begin, l.End, wordStyle.Render(l.Text))
		}
	}
	if resp.Expr == "" {
		h.out.Warnf("No expression for '%s'", text)
		return
	}
	h.out.Printf("expr: %s", resp.Expr)
	h.out.Debugf("took %dµs", resp.TimeTaken)
}

func (h *InputHandler) match(text string) {
	resp, err := h.service.Match(text, 0, 0)
	if err != nil {
		h.out.Errorf("Cannot match '%s': %v", text, err)
		return
	}
	var states []string
	if resp.Match {
		states = append(states, "match")
	}
	if resp.Prefix {
		states = append(states, "prefix")
	}
	if resp.Unmatch {
		states = append(states, "unmatch")
	}
	h.out.Printf("%s: %s", wordStyle.Render(text), strings.Join(states, "|"))
}

func (h *InputHandler) expand(prefix string) {
	resp := h.service.Expand(prefix, 0)
	if resp.Count == 0 {
		h.out.Warnf("No words under '%s'", prefix)
		return
	}
	h.out.Printf("Found %d words under '%s':", resp.Count, prefix)
	for i, w := range resp.Words {
		h.out.Printf("%2d. %s", i+1, wordStyle.Render(w))
	}
}

func (h *InputHandler) stats() {
	st := h.service.Stats()
	h.out.Printf("words: %s  nodes: %s (array %s, map %s)  depth: %d  chars: %s",
		humanize.Comma(int64(st.Words)),
		humanize.Comma(int64(st.Nodes)),
		humanize.Comma(int64(st.ArrayNodes)),
		humanize.Comma(int64(st.MapNodes)),
		st.MaxDepth,
		humanize.Comma(int64(st.Chars)))
	if st.Loading {
		h.out.Printf("still loading, %d chunks in", st.LoadedChunks)
	}
}
