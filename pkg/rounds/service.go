// Package rounds bridges the surfacing pipeline to the conversation layer
// over NATS. Selection is request/reply: the consumer asks for a round and
// embeds the returned items into its own output. The consumer's eventual
// response text comes back as a plain publish and is scanned against the
// round it was built from.
package rounds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"

	"github.com/kayleyai/kayley/pkg/events"
	"github.com/kayleyai/kayley/pkg/surfacing"
)

const (
	// SubjectRoundRequest accepts request/reply selection requests.
	SubjectRoundRequest = "surfacing.round.request"

	// SubjectRoundOutput accepts the consumer's downstream output text.
	SubjectRoundOutput = "surfacing.round.output"
)

// RoundRequest asks for one selection round with per-category limits.
type RoundRequest struct {
	Limits     map[string]int `json:"limits"`
	MaxAgeDays int            `json:"max_age_days"`
}

// RoundReply carries the selected items back to the requester.
type RoundReply struct {
	StartedAt time.Time                 `json:"started_at"`
	Items     []surfacing.CandidateItem `json:"items"`
	Error     string                    `json:"error,omitempty"`
}

// RoundOutput reports the output text the consumer produced after a round.
type RoundOutput struct {
	Text string `json:"text"`
}

// Service holds the most recent round and runs detection against it. Output
// reported with no round outstanding is dropped; there is nothing eligible
// to match.
type Service struct {
	selector  *surfacing.Selector
	detector  *surfacing.Detector
	publisher *events.Publisher
	logger    *log.Logger

	mu      sync.Mutex
	current *surfacing.Round

	subs []*nats.Subscription
}

func NewService(selector *surfacing.Selector, detector *surfacing.Detector, publisher *events.Publisher, logger *log.Logger) *Service {
	return &Service{
		selector:  selector,
		detector:  detector,
		publisher: publisher,
		logger:    logger,
	}
}

// Start subscribes to the round subjects. ctx bounds the work done per
// message, not the lifetime of the subscriptions; call Stop to unsubscribe.
func (s *Service) Start(ctx context.Context, nc *nats.Conn) error {
	reqSub, err := nc.Subscribe(SubjectRoundRequest, func(msg *nats.Msg) {
		reply := s.HandleRequest(ctx, msg.Data)
		if msg.Reply == "" {
			return
		}
		payload, err := json.Marshal(reply)
		if err != nil {
			s.logger.Warn("Failed to marshal round reply", "error", err)
			return
		}
		if err := msg.Respond(payload); err != nil {
			s.logger.Warn("Failed to respond to round request", "error", err)
		}
	})
	if err != nil {
		return err
	}

	outSub, err := nc.Subscribe(SubjectRoundOutput, func(msg *nats.Msg) {
		s.HandleOutput(ctx, msg.Data)
	})
	if err != nil {
		_ = reqSub.Unsubscribe()
		return err
	}

	s.subs = []*nats.Subscription{reqSub, outSub}
	s.logger.Info("Round bridge listening",
		"request", SubjectRoundRequest, "output", SubjectRoundOutput)
	return nil
}

// Stop unsubscribes from the round subjects.
func (s *Service) Stop() {
	for _, sub := range s.subs {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Warn("Failed to unsubscribe", "subject", sub.Subject, "error", err)
		}
	}
	s.subs = nil
}

// HandleRequest selects a round, stores it as the current one, and returns
// the reply. Selection failures are reported in the reply rather than
// replacing the current round.
func (s *Service) HandleRequest(ctx context.Context, data []byte) RoundReply {
	var req RoundRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.logger.Warn("Malformed round request", "error", err)
		return RoundReply{Error: "malformed round request"}
	}

	round, err := s.selector.SelectAcrossCategories(ctx, req.Limits, req.MaxAgeDays)
	if err != nil {
		s.logger.Warn("Round selection failed", "error", err)
		return RoundReply{Error: err.Error()}
	}

	s.mu.Lock()
	s.current = round
	s.mu.Unlock()

	items := round.Items()
	for _, item := range items {
		s.publisher.Publish(events.ItemSelected{
			ID:       item.ID,
			Category: item.Category,
			RoundAt:  round.StartedAt(),
		})
	}
	return RoundReply{StartedAt: round.StartedAt(), Items: items}
}

// HandleOutput scans the reported output against the current round and
// returns the matched item ids.
func (s *Service) HandleOutput(ctx context.Context, data []byte) []string {
	var out RoundOutput
	if err := json.Unmarshal(data, &out); err != nil {
		s.logger.Warn("Malformed round output", "error", err)
		return nil
	}

	s.mu.Lock()
	round := s.current
	s.mu.Unlock()

	if round == nil {
		s.logger.Debug("Output reported with no round outstanding")
		return nil
	}
	return s.detector.Scan(ctx, round, out.Text)
}
