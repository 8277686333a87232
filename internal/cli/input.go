// Package cli is a debug REPL: each typed line is replayed keystroke by
// keystroke through the guess engine, and feedback commands exercise
// the learning loop.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/queryserve/queryserve/internal/logger"
	"github.com/queryserve/queryserve/internal/utils"
	"github.com/queryserve/queryserve/pkg/engine"
)

// InputHandler processes user input from stdin. A plain line is typed
// into the engine one character at a time; ":ok <query>" and
// ":miss <query>" report feedback; ":stats" dumps counters.
type InputHandler struct {
	eng        *engine.Engine
	session    *engine.Session
	log        *log.Logger
	showTiming bool
	noFilter   bool
}

// NewInputHandler handles initialization of the InputHandler
func NewInputHandler(eng *engine.Engine, showTiming, noFilter bool) *InputHandler {
	return &InputHandler{
		eng:        eng,
		session:    eng.NewSession(),
		log:        logger.New("cli"),
		showTiming: showTiming,
		noFilter:   noFilter,
	}
}

// Start begins the interface loop. It reads a line from stdin, replays
// it through the session and prints the five suggestions produced by
// the final keystroke. Terminates when stdin closes.
func (h *InputHandler) Start() error {
	h.log.Print("QueryServe CLI")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type a query and press Enter; ':ok <query>' / ':miss <query>' record feedback (Ctrl+C to exit):")

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
		h.handleInput(line)
	}
}

func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, ":") {
		cmd, rest, _ := strings.Cut(line, " ")
		switch cmd {
		case ":ok":
			h.eng.Feedback(true, rest)
			h.log.Printf("recorded correct choice: %q (freq now %d)", rest, h.eng.Frequency(rest))
		case ":miss":
			h.eng.Feedback(false, rest)
			h.log.Printf("recorded missed choice: %q (freq now %d)", rest, h.eng.Frequency(rest))
		case ":stats":
			for k, v := range h.eng.Stats() {
				h.log.Printf("%-16s %s", k, utils.FormatWithCommas(v))
			}
		default:
			h.log.Warnf("unknown command: %s", cmd)
		}
		return
	}

	if !h.noFilter && !utils.IsValidInput(line) {
		h.log.Infof("No results for input: '%s'", line)
		return
	}

	start := time.Now()
	var suggestions []string
	for i, r := range []rune(line) {
		suggestions = h.session.Guess(r, i)
	}
	elapsed := time.Since(start)

	if h.showTiming {
		h.log.Debugf("Took [ %v ] for %d keystrokes", elapsed, len([]rune(line)))
	}

	shown := 0
	for i, sg := range suggestions {
		if sg == "" {
			continue
		}
		clQuery := fmt.Sprintf("\033[38;5;75m%s\033[0m", sg)
		h.log.Printf("%2d. %-50s (freq: %6s)", i+1, clQuery, utils.FormatWithCommas(h.eng.Frequency(sg)))
		shown++
	}
	if shown == 0 {
		h.log.Warnf("No suggestions found for: '%s'", line)
	}
}
