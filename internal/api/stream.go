package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Iron-Ham/cobalt/internal/collect"
	"github.com/Iron-Ham/cobalt/internal/event"
	"github.com/Iron-Ham/cobalt/internal/graph"
	"github.com/Iron-Ham/cobalt/internal/rating"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to wait for the request message
	requestWait = 30 * time.Second
)

// Stream message types.
const (
	MessagePlan     = "plan"
	MessageProgress = "progress"
	MessageDone     = "done"
	MessageError    = "error"
)

// StreamMessage is one server message on the plan stream. Plans arrive in
// extraction order, not rating order. A progress message reports the depth
// of the graph after each extension.
type StreamMessage struct {
	Type  string    `json:"type"`
	ID    string    `json:"id,omitempty"`
	Index int       `json:"index,omitempty"`
	Plan  *PlanJSON `json:"plan,omitempty"`
	Plans int       `json:"plans,omitempty"`
	Depth int       `json:"depth,omitempty"`
	Error string    `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleStream reads one PlanRequest and streams each rated plan as soon as
// it is extracted. Closing the connection cancels the job.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req PlanRequest
	conn.SetReadDeadline(time.Now().Add(requestWait))
	if err := conn.ReadJSON(&req); err != nil {
		writeMessage(conn, StreamMessage{Type: MessageError, Error: "expecting a planning request: " + err.Error()})
		return
	}
	conn.SetReadDeadline(time.Time{})

	ctx, cancel := s.jobContext(r.Context())
	defer cancel()

	// Reader goroutine - detects the peer going away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var sc *streamCollector
	j, err := s.newJob(req, func(r rating.Rater) collect.Collector {
		sc = &streamCollector{rater: r, conn: conn}
		return sc
	})
	if err != nil {
		writeMessage(conn, StreamMessage{Type: MessageError, Error: err.Error()})
		return
	}
	sc.id = j.ID()

	// Job events are published on the job's goroutine, which is also the
	// only writer of conn until Run returns.
	sub := s.bus.SubscribeJob(j.ID(), func(e event.Event) {
		if ge, ok := e.(event.GraphExtendedEvent); ok {
			writeMessage(conn, StreamMessage{Type: MessageProgress, ID: ge.JobID, Depth: ge.Depth})
		}
	})
	res, err := j.Run(ctx)
	s.bus.Unsubscribe(sub)
	if err != nil {
		writeMessage(conn, StreamMessage{Type: MessageError, ID: j.ID(), Error: s.errorMessage(statusOf(err), err)})
		return
	}
	done := StreamMessage{Type: MessageDone, ID: j.ID(), Plans: sc.sent, Depth: res.Depth}
	if res.Err != nil {
		done.Error = res.Err.Error()
	}
	writeMessage(conn, done)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// streamCollector rates each plan and writes it to the connection. Plans
// the rater abstains on are not sent.
type streamCollector struct {
	rater rating.Rater
	conn  *websocket.Conn
	id    string
	sent  int
}

func (c *streamCollector) Collect(ctx context.Context, plan *graph.Plan) (collect.Result, error) {
	score, err := c.rater.Rate(ctx, plan)
	if err != nil {
		return collect.Stop, err
	}
	if score.IsAbstain() {
		return collect.Continue, nil
	}
	pj := EncodeRatedPlan(collect.RatedPlan{Plan: plan, Score: score})
	if err := writeMessage(c.conn, StreamMessage{Type: MessagePlan, ID: c.id, Index: c.sent, Plan: &pj}); err != nil {
		return collect.Stop, err
	}
	c.sent++
	return collect.Continue, nil
}

// Len reports the plans sent so far.
func (c *streamCollector) Len() int { return c.sent }

func writeMessage(conn *websocket.Conn, msg StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
