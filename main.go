// EnzoChess console shell: a thin interactive front end over the engine.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Salsakeyy/EnzoChess/internal/board"
	"github.com/Salsakeyy/EnzoChess/internal/book"
	"github.com/Salsakeyy/EnzoChess/internal/engine"
	"github.com/Salsakeyy/EnzoChess/internal/storage"
)

type console struct {
	eng   *engine.Engine
	store *storage.Storage
	prefs *storage.Preferences

	// accumulated over the current game, recorded on game end
	gameNodes uint64
	gameThink time.Duration
}

func main() {
	c := &console{
		eng:   engine.NewEngine(),
		prefs: storage.DefaultPreferences(),
	}

	store, err := storage.Open()
	if err != nil {
		log.Printf("stats disabled: %v", err)
	} else {
		c.store = store
		defer store.Close()
		if prefs, err := store.LoadPreferences(); err == nil {
			c.prefs = prefs
		}
		if first, _ := store.IsFirstRun(); first {
			fmt.Println("First run: preferences saved with defaults.")
			store.SavePreferences(c.prefs)
			store.MarkFirstRunComplete()
		}
	}

	c.configureBook()

	fmt.Println("EnzoChess console. Type 'help' for commands.")
	fmt.Println(c.eng.Position())

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !c.handle(line) {
			return
		}
	}
}

func (c *console) configureBook() {
	if !c.prefs.UseBook {
		c.eng.SetBook(nil)
		return
	}
	b := book.NewBuiltin()
	if c.prefs.BookFile != "" {
		if err := b.LoadFile(c.prefs.BookFile); err != nil {
			log.Printf("book file %s: %v", c.prefs.BookFile, err)
		}
	}
	if c.prefs.UseExplorer {
		c.eng.SetBook(withFallback{b, book.NewCached(book.NewExplorer(), 4096)})
		return
	}
	c.eng.SetBook(b)
}

// withFallback chains two book sources.
type withFallback struct {
	primary, fallback book.Source
}

func (w withFallback) Probe(pos *board.Position) (board.Move, bool) {
	if m, ok := w.primary.Probe(pos); ok {
		return m, true
	}
	return w.fallback.Probe(pos)
}

func (c *console) handle(line string) bool {
	parts := strings.Fields(line)

	switch parts[0] {
	case "help":
		fmt.Println(`Commands:
 help            show this help
 print           show the board
 fen             print the current FEN
 position FEN    load a position from FEN
 moves           list legal moves
 undo            take back the last move
 perft N         count move-tree leaves to depth N
 go depth N      search to a fixed depth
 go movetime MS  search under a time budget
 eval            static evaluation of the position
 stats           search and lifetime statistics
 quit            exit
 or enter a move in long algebraic form (e2e4, e7e8q)`)

	case "print":
		fmt.Println(c.eng.Position())

	case "fen":
		fmt.Println(c.eng.Position().ToFEN())

	case "position":
		if len(parts) < 2 {
			fmt.Println("usage: position FEN")
			break
		}
		fen := strings.Join(parts[1:], " ")
		if err := c.eng.LoadFEN(fen); err != nil {
			fmt.Println("invalid position:", err)
			break
		}
		c.gameNodes, c.gameThink = 0, 0
		fmt.Println(c.eng.Position())

	case "moves":
		moves := c.eng.Position().GenerateLegalMoves()
		fmt.Printf("Legal moves (%d):\n", moves.Len())
		for i := 0; i < moves.Len(); i++ {
			fmt.Println(" ", moves.Get(i))
		}

	case "undo":
		if !c.eng.UndoMove() {
			fmt.Println("no moves to undo")
		}

	case "perft":
		if len(parts) < 2 {
			fmt.Println("usage: perft N")
			break
		}
		depth, _ := strconv.Atoi(parts[1])
		start := time.Now()
		nodes := c.eng.Perft(depth)
		fmt.Printf("perft %d: %d nodes (%.3fs)\n", depth, nodes, time.Since(start).Seconds())

	case "go":
		c.handleGo(parts[1:])

	case "eval":
		fmt.Printf("static eval: %d cp (side to move)\n", c.eng.StaticEval())

	case "stats":
		c.printStats()

	case "quit":
		return false

	default:
		c.handleMoveInput(parts[0])
	}

	return true
}

func (c *console) handleGo(args []string) {
	limit := time.Duration(c.prefs.MoveTimeMs) * time.Millisecond
	depth := c.prefs.SearchDepth

	if len(args) >= 2 {
		switch args[0] {
		case "depth":
			depth, _ = strconv.Atoi(args[1])
			limit = 0
		case "movetime":
			ms, _ := strconv.Atoi(args[1])
			limit = time.Duration(ms) * time.Millisecond
			depth = 0
		default:
			fmt.Println("usage: go depth N | go movetime MS")
			return
		}
	}

	c.eng.OnInfo = func(info engine.SearchInfo) {
		fmt.Printf("depth %d score %d nodes %d time %dms pv %s\n",
			info.Depth, info.Score, info.Nodes, info.Time.Milliseconds(),
			strings.Join(info.PV, " "))
	}

	move, ok := c.eng.BestMove(limit, depth)
	stats := c.eng.Stats()
	c.gameNodes += stats.Nodes
	c.gameThink += stats.TimeElapsed

	if !ok {
		c.reportGameEnd()
		return
	}

	fmt.Printf("engine plays %s (%d nodes, %v)\n", move, stats.Nodes, stats.TimeElapsed.Round(time.Millisecond))
	c.eng.ApplyMoveText(move)
	fmt.Println(c.eng.Position())
	c.checkGameEnd()
}

func (c *console) handleMoveInput(text string) {
	if len(text) < 4 {
		fmt.Println("unknown command (type 'help')")
		return
	}
	if !c.eng.ApplyMoveText(text) {
		fmt.Println("invalid or illegal move")
		return
	}
	fmt.Println(c.eng.Position())
	c.checkGameEnd()
}

func (c *console) checkGameEnd() {
	pos := c.eng.Position()
	if pos.IsCheckmate() || pos.IsStalemate() {
		c.reportGameEnd()
	}
}

// reportGameEnd announces the result and folds it into stored stats.
func (c *console) reportGameEnd() {
	pos := c.eng.Position()

	winner := "draw"
	if pos.IsCheckmate() {
		if pos.SideToMove == board.White {
			winner = "black"
		} else {
			winner = "white"
		}
		fmt.Printf("checkmate, %s wins\n", winner)
	} else {
		fmt.Println("game drawn")
	}

	if c.store == nil {
		return
	}
	err := c.store.RecordGame(storage.GameResult{
		Winner:    winner,
		Plies:     pos.HistoryLen(),
		Nodes:     c.gameNodes,
		ThinkTime: c.gameThink,
	})
	if err != nil {
		log.Printf("record game: %v", err)
	}
	c.gameNodes, c.gameThink = 0, 0
}

func (c *console) printStats() {
	s := c.eng.Stats()
	fmt.Printf("last search: %d nodes, %d evaluations, %v, tt %d entries\n",
		s.Nodes, s.Evaluations, s.TimeElapsed.Round(time.Millisecond), s.TTSize)

	if c.store == nil {
		return
	}
	stats, err := c.store.LoadStats()
	if err != nil {
		log.Printf("load stats: %v", err)
		return
	}
	fmt.Printf("lifetime: %d games (+%d -%d =%d), %d nodes, %v thinking, longest %d plies\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws,
		stats.TotalNodes, stats.TotalThink.Round(time.Second), stats.LongestPlies)
}
