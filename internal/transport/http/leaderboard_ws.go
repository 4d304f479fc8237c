package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"school-quiz-bot/internal/leaderboard"
)

// leaderboardWS streams scoreboard snapshots to websocket clients. It is a
// read-only feed: answers come in over Telegram, not over this socket.
type leaderboardWS struct {
	board    *leaderboard.Board
	upgrader websocket.Upgrader
}

func newLeaderboardWS(board *leaderboard.Board) *leaderboardWS {
	return &leaderboardWS{
		board: board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *leaderboardWS) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := s.board.Subscribe()
	defer cancel()

	// Reader goroutine only watches for the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		case <-closed:
			return
		}
	}
}
