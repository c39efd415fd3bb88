package api

import (
	"io"
	"net/http"
	"time"

	"github.com/theirongolddev/nestegg/internal/money"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Event types.
const (
	EventParamsUpdated = "params_updated"
	EventGoalAdded     = "goal_added"
	EventGoalRemoved   = "goal_removed"
)

// Event is emitted after every successful mutation.
type Event struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Goal      string          `json:"goal,omitempty"`
	NetWorth  decimal.Decimal `json:"net_worth"`
}

func (s *Server) emit(typ, goal string) {
	ev := Event{
		Type:      typ,
		Timestamp: time.Now().UTC(),
		Goal:      goal,
		NetWorth:  money.Cents(s.sess.NetWorth()),
	}

	ev = s.publishEvent(ev)
	s.log.Debug("event", zap.Int64("id", ev.ID), zap.String("type", typ), zap.String("goal", goal))
}

// publishEvent numbers ev and fans it out. The ID is assigned under the same
// lock as buffering and delivery so readers see IDs in order.
func (s *Server) publishEvent(ev Event) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

func (s *Server) handleEvents(c *gin.Context) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	c.JSON(http.StatusOK, events)
}

func (s *Server) handleStream(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	c.SSEvent("networth", networthJSON{
		RetirementYear: s.sess.Params().RetirementYear,
		NetWorth:       money.Cents(s.sess.NetWorth()),
	})
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev := <-ch:
			c.SSEvent(ev.Type, ev)
			return true
		}
	})
}

func (s *Server) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Server) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
