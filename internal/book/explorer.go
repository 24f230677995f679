package book

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Salsakeyy/EnzoChess/internal/board"
)

// DefaultExplorerURL is the lichess opening-explorer endpoint for
// master-level games.
const DefaultExplorerURL = "https://explorer.lichess.ovh/masters"

// Explorer probes an online opening-explorer service for a reply.
// Network failures and unknown positions degrade silently to a miss so
// callers can fall back to a local book or the search.
type Explorer struct {
	client   *http.Client
	baseURL  string
	maxMoves int // only probe while the fullmove number is at most this
}

// NewExplorer creates an explorer probe against the default endpoint.
func NewExplorer() *Explorer {
	return &Explorer{
		client:   &http.Client{Timeout: 3 * time.Second},
		baseURL:  DefaultExplorerURL,
		maxMoves: 12,
	}
}

// NewExplorerURL creates an explorer probe against a custom endpoint.
func NewExplorerURL(baseURL string) *Explorer {
	e := NewExplorer()
	e.baseURL = baseURL
	return e
}

// explorerResponse is the subset of the opening-explorer reply we use.
type explorerResponse struct {
	Moves []struct {
		UCI   string `json:"uci"`
		White int    `json:"white"`
		Draws int    `json:"draws"`
		Black int    `json:"black"`
	} `json:"moves"`
}

// Probe asks the explorer for the most played legal reply.
func (e *Explorer) Probe(pos *board.Position) (board.Move, bool) {
	if pos.FullMoveNumber > e.maxMoves {
		return board.NoMove, false
	}

	fen := strings.ReplaceAll(pos.ToFEN(), " ", "_")
	url := fmt.Sprintf("%s?fen=%s&moves=8&topGames=0&recentGames=0", e.baseURL, fen)

	resp, err := e.client.Get(url)
	if err != nil {
		return board.NoMove, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return board.NoMove, false
	}

	var result explorerResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return board.NoMove, false
	}

	// Responses come ordered by popularity; take the first that is
	// legal here.
	for _, cand := range result.Moves {
		from, to, promo, err := board.ParseMoveText(cand.UCI)
		if err != nil {
			continue
		}
		if m, ok := pos.FindMove(from, to, promo); ok {
			return m, true
		}
	}

	return board.NoMove, false
}
