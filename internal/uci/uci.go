// Package uci implements the Universal Chess Interface text protocol
// around the engine core.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Salsakeyy/EnzoChess/internal/board"
	"github.com/Salsakeyy/EnzoChess/internal/book"
	"github.com/Salsakeyy/EnzoChess/internal/engine"
	"github.com/Salsakeyy/EnzoChess/internal/storage"
)

// UCI drives the engine from the text protocol on an input stream.
type UCI struct {
	engine *engine.Engine
	out    io.Writer

	ownBook    bool
	useOnline  bool
	localBook  *book.Book
	searchDone chan struct{}
	searching  bool
}

// New creates a UCI protocol handler around an engine.
func New(eng *engine.Engine) *UCI {
	u := &UCI{
		engine:    eng,
		out:       os.Stdout,
		ownBook:   true,
		localBook: book.NewBuiltin(),
	}
	u.configureBook()
	return u
}

// ApplyPreferences seeds option defaults from stored preferences; GUI
// setoption commands can still override them per session.
func (u *UCI) ApplyPreferences(prefs *storage.Preferences) {
	u.ownBook = prefs.UseBook
	u.useOnline = prefs.UseExplorer
	if prefs.BookFile != "" {
		if err := u.localBook.LoadFile(prefs.BookFile); err != nil {
			fmt.Fprintf(os.Stderr, "info string book file %s: %v\n", prefs.BookFile, err)
		}
	}
	u.configureBook()
}

// Run reads commands from stdin until quit or EOF.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !u.handle(line) {
			return
		}
	}
}

// handle processes a single command line; it returns false on quit.
func (u *UCI) handle(line string) bool {
	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "uci":
		u.handleUCI()
	case "isready":
		fmt.Fprintln(u.out, "readyok")
	case "ucinewgame":
		u.handleNewGame()
	case "position":
		u.handlePosition(args)
	case "go":
		u.handleGo(args)
	case "stop":
		u.handleStop()
	case "setoption":
		u.handleSetOption(args)
	case "quit":
		u.handleStop()
		return false
	// Debug commands
	case "d":
		fmt.Fprintln(u.out, u.engine.Position().String())
	case "perft":
		u.handlePerft(args)
	case "eval":
		fmt.Fprintf(u.out, "info string static eval %d\n", u.engine.StaticEval())
	}
	return true
}

func (u *UCI) handleUCI() {
	fmt.Fprintln(u.out, "id name EnzoChess")
	fmt.Fprintln(u.out, "id author Salsakeyy")
	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, "option name OwnBook type check default true")
	fmt.Fprintln(u.out, "option name OnlineBook type check default false")
	fmt.Fprintln(u.out, "option name BookFile type string default <empty>")
	fmt.Fprintln(u.out, "uciok")
}

func (u *UCI) handleNewGame() {
	u.engine.Reset()
	u.engine.ClearTT()
}

// handlePosition parses "position [startpos | fen <fen>] [moves ...]".
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	moveStart := len(args)
	for i, arg := range args {
		if arg == "moves" {
			moveStart = i + 1
			break
		}
	}

	switch args[0] {
	case "startpos":
		u.engine.Reset()
	case "fen":
		fenEnd := moveStart
		if moveStart < len(args) {
			fenEnd = moveStart - 1
		}
		fen := strings.Join(args[1:fenEnd], " ")
		if err := u.engine.LoadFEN(fen); err != nil {
			fmt.Fprintf(os.Stderr, "info string invalid fen: %v\n", err)
			return
		}
	default:
		return
	}

	for _, moveText := range args[moveStart:] {
		if !u.engine.ApplyMoveText(moveText) {
			fmt.Fprintf(os.Stderr, "info string invalid move: %s\n", moveText)
			return
		}
	}
}

// goOptions holds parsed "go" arguments.
type goOptions struct {
	depth    int
	moveTime time.Duration
	wtime    time.Duration
	btime    time.Duration
	infinite bool
}

func parseGoOptions(args []string) goOptions {
	var opts goOptions

	readMillis := func(i int) time.Duration {
		if i < len(args) {
			ms, _ := strconv.Atoi(args[i])
			return time.Duration(ms) * time.Millisecond
		}
		return 0
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			opts.moveTime = readMillis(i + 1)
			i++
		case "wtime":
			opts.wtime = readMillis(i + 1)
			i++
		case "btime":
			opts.btime = readMillis(i + 1)
			i++
		case "winc", "binc", "movestogo", "nodes":
			i++ // recognized but unused by the allocation policy
		case "infinite":
			opts.infinite = true
		}
	}

	return opts
}

// handleGo starts a search in the background and prints bestmove when it
// finishes.
func (u *UCI) handleGo(args []string) {
	if u.searching {
		return
	}
	opts := parseGoOptions(args)

	var limit time.Duration
	switch {
	case opts.infinite:
		limit = 0
	case opts.moveTime > 0:
		limit = opts.moveTime
	case opts.wtime > 0 || opts.btime > 0:
		remaining := opts.wtime
		if u.engine.Position().SideToMove == board.Black {
			remaining = opts.btime
		}
		limit = engine.AllocateMoveTime(remaining)
	}

	depth := opts.depth
	if opts.infinite {
		depth = 0
	}

	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	u.searching = true
	u.searchDone = make(chan struct{})

	go func() {
		defer close(u.searchDone)

		move, ok := u.engine.BestMove(limit, depth)
		u.searching = false

		if !ok {
			fmt.Fprintln(u.out, "bestmove 0000")
			return
		}
		fmt.Fprintf(u.out, "bestmove %s\n", move)
	}()
}

// sendInfo emits a UCI info line for a completed iteration.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if info.Score > engine.MateThreshold {
		mateIn := (engine.MateValue - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateThreshold {
		mateIn := (engine.MateValue + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate -%d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV) > 0 {
		parts = append(parts, "pv "+strings.Join(info.PV, " "))
	}

	fmt.Fprintf(u.out, "info %s\n", strings.Join(parts, " "))
}

// handleStop aborts a running search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.searching {
		u.engine.Stop()
		<-u.searchDone
	}
}

func (u *UCI) handleSetOption(args []string) {
	name, value := parseOption(args)

	switch strings.ToLower(name) {
	case "ownbook":
		u.ownBook = strings.EqualFold(value, "true")
		u.configureBook()
	case "onlinebook":
		u.useOnline = strings.EqualFold(value, "true")
		u.configureBook()
	case "bookfile":
		if value == "" || value == "<empty>" {
			return
		}
		if err := u.localBook.LoadFile(value); err != nil {
			fmt.Fprintf(os.Stderr, "info string failed to load book: %v\n", err)
			return
		}
		u.configureBook()
	}
}

// configureBook wires the current book settings into the engine: the
// local book first, optionally backed by the cached online explorer.
func (u *UCI) configureBook() {
	if !u.ownBook {
		u.engine.SetBook(nil)
		return
	}
	if u.useOnline {
		u.engine.SetBook(fallbackSource{
			primary:  u.localBook,
			fallback: book.NewCached(book.NewExplorer(), 4096),
		})
		return
	}
	u.engine.SetBook(u.localBook)
}

// fallbackSource tries a primary book source before a fallback.
type fallbackSource struct {
	primary  book.Source
	fallback book.Source
}

func (f fallbackSource) Probe(pos *board.Position) (board.Move, bool) {
	if m, ok := f.primary.Probe(pos); ok {
		return m, true
	}
	return f.fallback.Probe(pos)
}

// parseOption splits "name <name> value <value>" allowing spaces in both.
func parseOption(args []string) (name, value string) {
	var nameParts, valueParts []string
	target := &nameParts

	for _, arg := range args {
		switch arg {
		case "name":
			target = &nameParts
		case "value":
			target = &valueParts
		default:
			*target = append(*target, arg)
		}
	}

	return strings.Join(nameParts, " "), strings.Join(valueParts, " ")
}

func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := u.engine.Perft(depth)
	elapsed := time.Since(start)

	fmt.Fprintf(u.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(u.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(u.out, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}
