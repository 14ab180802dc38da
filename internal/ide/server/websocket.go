package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ojide/internal/ide/display"
	"ojide/internal/ide/judge"
	"ojide/internal/ide/runner"
	appErr "ojide/pkg/errors"
	"ojide/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream message types.
const (
	MessagePending = "pending"
	MessageResult  = "result"
	MessageError   = "error"
)

// StreamMessage is one frame sent to a WebSocket client.
type StreamMessage struct {
	Type    string           `json:"type"`
	Seq     uint64           `json:"seq,omitempty"`
	Status  *judge.Status    `json:"status,omitempty"`
	Result  *display.Result  `json:"result,omitempty"`
	Code    appErr.ErrorCode `json:"code,omitempty"`
	Message string           `json:"message,omitempty"`
}

type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) send(msg StreamMessage) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteJSON(msg)
}

// RunWS streams runs over a WebSocket. Every request message starts a run
// and supersedes the previous one; superseded runs produce no result frame.
func (s *Server) RunWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	// the upgraded request context ends with the handler, not the socket
	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request.Context()))
	defer cancel()

	ws := &wsConn{conn: conn}
	r := runner.New(s.backend, s.pollOpts)
	r.Subscribe(func(u runner.Update) {
		if u.Pending == nil || !r.Current(u.Seq) {
			return
		}
		status := u.Pending.Status
		if err := ws.send(StreamMessage{Type: MessagePending, Seq: u.Seq, Status: &status}); err != nil {
			logger.Debug(ctx, "websocket write failed", zap.Error(err))
		}
	})

	var wg sync.WaitGroup
	defer wg.Wait()
	defer r.Cancel()

	for {
		var req RunRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug(ctx, "websocket read ended", zap.Error(err))
			}
			return
		}

		judgeReq, err := s.buildRequest(req)
		if err != nil {
			e := appErr.GetError(err)
			_ = ws.send(StreamMessage{Type: MessageError, Code: e.Code, Message: e.Error()})
			continue
		}
		if !s.acquire() {
			_ = ws.send(StreamMessage{Type: MessageError, Code: appErr.TooManyRequests, Message: appErr.TooManyRequests.Message()})
			continue
		}

		seq, ch := r.Start(ctx, judgeReq)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.release()
			out := <-ch
			if out.Stale {
				return
			}
			res := out.Display
			if err := ws.send(StreamMessage{Type: MessageResult, Seq: seq, Result: &res}); err != nil {
				logger.Debug(ctx, "websocket write failed", zap.Error(err))
			}
		}()
	}
}
