// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ttbt-io/dugout/backend/sim"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Message types for WebSocket communication
const (
	MsgTypeProgress = "PROGRESS"
	MsgTypeResult   = "RESULT"
	MsgTypeError    = "ERROR"
)

// WSMessage represents a WebSocket frame sent to the client.
type WSMessage struct {
	Type    string          `json:"type"`
	Game    int             `json:"game,omitempty"`
	Total   int             `json:"total,omitempty"`
	Score   *[2]int         `json:"score,omitempty"`
	Winner  string          `json:"winner,omitempty"`
	BatchID string          `json:"batchId,omitempty"`
	Summary *SummaryPayload `json:"summary,omitempty"`
	Metrics *RunMetrics     `json:"metrics,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// serveSimulateWS runs one simulation batch over a websocket connection,
// streaming progress frames and a final summary. The client sends a single
// request message and then only reads.
func serveSimulateWS(simulator *Simulator, w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	var req SimulateRequest
	if err := conn.ReadJSON(&req); err != nil {
		writeWSError(conn, "invalid request: "+err.Error())
		return
	}

	// Report at most ~100 progress frames per batch. Streaming every game
	// of a large batch would bottleneck the simulation on the socket.
	stride := req.Games / 100
	if stride < 1 {
		stride = 1
	}

	frames := make(chan WSMessage, 256)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-frames:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	progress := func(game int, res sim.GameResult) {
		if game%stride != 0 && game != req.Games {
			return
		}
		score := res.Score
		select {
		case frames <- WSMessage{
			Type:   MsgTypeProgress,
			Game:   game,
			Total:  req.Games,
			Score:  &score,
			Winner: res.Winner.String(),
		}:
		default:
			// Slow consumer. Drop the frame rather than stall the batch.
		}
	}

	rec, err := simulator.Run(r.Context(), req, userID, progress)
	if err != nil {
		frames <- WSMessage{Type: MsgTypeError, Error: err.Error()}
	} else {
		payload := rec.Payload()
		frames <- WSMessage{
			Type:    MsgTypeResult,
			BatchID: rec.ID,
			Total:   len(rec.Results),
			Summary: &payload,
			Metrics: rec.Metrics,
		}
	}
	close(frames)
	<-done

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func writeWSError(conn *websocket.Conn, msg string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(WSMessage{Type: MsgTypeError, Error: msg})
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
