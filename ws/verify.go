package ws

import (
	"net/http"
	"regexp"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"drawAuditor/audit"
	"drawAuditor/config"
	"drawAuditor/game"
	"drawAuditor/logger"
)

const (
	MsgDrawResult  = "draw_result"
	MsgGameVerdict = "game_verdict"
	MsgVerifyError = "verify_error"
)

// Message is the envelope for everything sent on the stream.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type VerifyError struct {
	GameID string `json:"gameId"`
	Error  string `json:"error"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  config.WSReadBufferSize,
	WriteBufferSize: config.WSWriteBufferSize,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

var gameIDPattern = regexp.MustCompile(config.GameIDPattern)

// VerifyStream streams a game's verification draw by draw.
// GET /ws/verify?gameId=...
type VerifyStream struct {
	auditor *audit.Auditor
	log     *zap.SugaredLogger
	clients int64
}

func NewVerifyStream(auditor *audit.Auditor, log *zap.SugaredLogger) *VerifyStream {
	if log == nil {
		log = logger.Nop()
	}
	return &VerifyStream{auditor: auditor, log: log}
}

// Clients returns the number of open streams.
func (s *VerifyStream) Clients() int64 {
	return atomic.LoadInt64(&s.clients)
}

func (s *VerifyStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if !gameIDPattern.MatchString(gameID) {
		http.Error(w, "invalid gameId", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("❌ WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	atomic.AddInt64(&s.clients, 1)
	defer atomic.AddInt64(&s.clients, -1)
	s.log.Debugf("📥 Verify stream opened - Game: %s, Clients: %d", gameID, s.Clients())

	var writeErr error
	send := func(msg Message) {
		if writeErr != nil {
			return
		}
		conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
		writeErr = conn.WriteJSON(msg)
	}

	report, err := s.auditor.Stream(r.Context(), gameID, func(d game.DrawResult) {
		send(Message{Type: MsgDrawResult, Data: d})
	})
	if err != nil {
		send(Message{Type: MsgVerifyError, Data: VerifyError{GameID: gameID, Error: err.Error()}})
	} else {
		send(Message{Type: MsgGameVerdict, Data: report})
	}

	if writeErr != nil {
		s.log.Warnf("⚠️  Verify stream for game %s dropped: %v", gameID, writeErr)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(config.WSWriteDeadline))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
}
