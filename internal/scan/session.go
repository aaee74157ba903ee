package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stockpile/internal/classify"
	"stockpile/internal/inventory"
)

// State identifies what the session expects next.
type State int

const (
	// AwaitingIdentifier expects an item identifier scan.
	AwaitingIdentifier State = iota
	// AwaitingLocation expects a location scan for the pending identifier.
	AwaitingLocation
	// AwaitingSubLocationOrNext accepts an optional sub-location, the next
	// identifier, or the finalize token.
	AwaitingSubLocationOrNext
)

// String implements fmt.Stringer for log and prompt output.
func (s State) String() string {
	switch s {
	case AwaitingIdentifier:
		return "awaiting identifier"
	case AwaitingLocation:
		return "awaiting location"
	case AwaitingSubLocationOrNext:
		return "awaiting sub-location or next item"
	default:
		return "unknown"
	}
}

// Request is one not-yet-committed relocation intent. An empty NewSubLocation
// means "clear any existing sub-location", not "keep".
type Request struct {
	JAID           string
	NewLocation    string
	NewSubLocation string
}

// Resolver is the read-only record lookup the session uses for operator
// feedback. It is satisfied by *inventory.Store.
type Resolver interface {
	ResolveActive(ctx context.Context, jaID string) (*inventory.Record, error)
}

// Feedback describes the effect of one scanned token for the operator.
type Feedback struct {
	Token    string
	Kind     classify.Kind
	Accepted bool
	// Message is a human-readable note: the current location of a scanned
	// item, or why a token was discarded.
	Message string
	// Finalized is the queue entry this scan closed out, if any.
	Finalized *Request
	// Replaced reports that Finalized overwrote an earlier entry for the
	// same identifier.
	Replaced bool
}

// Session is the single-operator scan state machine. It owns the pending
// entry and queue exclusively, performs no store writes, and is not safe for
// concurrent use.
type Session struct {
	classifier *classify.Classifier
	resolver   Resolver

	state             State
	pendingIdentifier string
	pendingLocation   string
	queue             []Request
}

// NewSession constructs an empty session.
func NewSession(classifier *classify.Classifier, resolver Resolver) *Session {
	return &Session{classifier: classifier, resolver: resolver}
}

// State returns the current machine state.
func (s *Session) State() State {
	return s.state
}

// Pending returns the identifier and location of the entry being built.
func (s *Session) Pending() (jaID, location string) {
	return s.pendingIdentifier, s.pendingLocation
}

// Queue returns a copy of the accumulated relocation requests.
func (s *Session) Queue() []Request {
	out := make([]Request, len(s.queue))
	copy(out, s.queue)
	return out
}

// Len returns the number of queued requests.
func (s *Session) Len() int {
	return len(s.queue)
}

// Cancel removes a queued request by identifier.
func (s *Session) Cancel(jaID string) bool {
	for i, req := range s.queue {
		if req.JAID == jaID {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops the queue and any pending entry.
func (s *Session) Clear() {
	s.state = AwaitingIdentifier
	s.pendingIdentifier = ""
	s.pendingLocation = ""
	s.queue = nil
}

// Feed consumes one raw token and advances the machine. Classification is
// total, so Feed never fails; discarded tokens come back with Accepted=false
// and a reason in Message.
func (s *Session) Feed(ctx context.Context, token string) Feedback {
	token = strings.TrimSpace(token)
	kind := s.classifier.Classify(token)
	fb := Feedback{Token: token, Kind: kind}

	switch s.state {
	case AwaitingIdentifier:
		if kind != classify.KindIdentifier {
			fb.Message = fmt.Sprintf("scan an item identifier first (%s ignored)", kind)
			return fb
		}
		s.startEntry(ctx, token, &fb)
		return fb

	case AwaitingLocation:
		switch kind {
		case classify.KindLocation:
			s.pendingLocation = token
			s.state = AwaitingSubLocationOrNext
			fb.Accepted = true
			return fb
		case classify.KindIdentifier:
			// The pending item never got a location; it cannot queue.
			dropped := s.pendingIdentifier
			s.startEntry(ctx, token, &fb)
			fb.Message = joinMessages(fmt.Sprintf("%s dropped: no location scanned", dropped), fb.Message)
			return fb
		default:
			fb.Message = fmt.Sprintf("%s is not a location; scan a location for %s", token, s.pendingIdentifier)
			return fb
		}

	case AwaitingSubLocationOrNext:
		switch kind {
		case classify.KindSubLocation:
			fb.Accepted = true
			s.finalize(token, &fb)
			return fb
		case classify.KindFinalize:
			fb.Accepted = true
			s.finalize("", &fb)
			return fb
		case classify.KindIdentifier:
			s.finalize("", &fb)
			s.startEntry(ctx, token, &fb)
			return fb
		case classify.KindLocation:
			// Re-scan corrects the pending location, last wins.
			s.pendingLocation = token
			fb.Accepted = true
			fb.Message = "location updated"
			return fb
		}
	}

	fb.Message = "token ignored"
	return fb
}

// startEntry begins a new pending entry and surfaces the item's current
// placement immediately so the operator can spot a mis-scan before moving on.
func (s *Session) startEntry(ctx context.Context, jaID string, fb *Feedback) {
	s.pendingIdentifier = jaID
	s.pendingLocation = ""
	s.state = AwaitingLocation
	fb.Accepted = true

	if s.resolver == nil {
		return
	}
	record, err := s.resolver.ResolveActive(ctx, jaID)
	switch {
	case err == nil:
		where := record.Location
		if record.HasSubLocation() {
			where += " / " + record.SubLocation
		}
		fb.Message = fmt.Sprintf("%s currently at %s", jaID, where)
	case errors.Is(err, inventory.ErrNotFound):
		fb.Message = fmt.Sprintf("%s is not in inventory", jaID)
	case errors.Is(err, inventory.ErrNoActiveRecord):
		fb.Message = fmt.Sprintf("%s has been superseded", jaID)
	default:
		fb.Message = fmt.Sprintf("lookup failed for %s: %v", jaID, err)
	}
}

// finalize pushes the pending entry onto the queue. A later scan for an
// identifier already queued replaces the earlier entry in place, so the last
// scan for an item wins.
func (s *Session) finalize(subLocation string, fb *Feedback) {
	req := Request{
		JAID:           s.pendingIdentifier,
		NewLocation:    s.pendingLocation,
		NewSubLocation: subLocation,
	}

	replaced := false
	for i := range s.queue {
		if s.queue[i].JAID == req.JAID {
			s.queue[i] = req
			replaced = true
			break
		}
	}
	if !replaced {
		s.queue = append(s.queue, req)
	}

	s.pendingIdentifier = ""
	s.pendingLocation = ""
	s.state = AwaitingIdentifier
	fb.Finalized = &req
	fb.Replaced = replaced
}

func joinMessages(first, second string) string {
	if second == "" {
		return first
	}
	return first + "; " + second
}
