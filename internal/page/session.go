// Package page coordinates what one browser session sees on the product
// page: the load sequence, the selected variant, currency and quantity, and
// the question thread.
package page

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jaolave/ml-challenge-frontend/internal/answers"
	"github.com/jaolave/ml-challenge-frontend/internal/catalog"
	"github.com/jaolave/ml-challenge-frontend/internal/pricing"
)

// State tracks where a session is in the load sequence.
type State int

const (
	StateIdle State = iota
	StateListLoading
	StateListLoaded
	StateDetailLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListLoading:
		return "list-loading"
	case StateListLoaded:
		return "list-loaded"
	case StateDetailLoading:
		return "detail-loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// EmptyStoreMessage is the error shown when the backend answers with no
// products at all.
const EmptyStoreMessage = "no products available, the store might be empty"

// pickFn selects which product the page lands on, overridable in tests.
var pickFn = func(n int) int { return rand.IntN(n) }

// Session holds one browser session's page state. Every method locks, so a
// slow background fetch and a fresh request never race.
type Session struct {
	mu        sync.Mutex
	state     State
	errText   string
	notice    string
	products  []catalog.Summary
	targetID  int
	bundle    *catalog.Bundle
	variantID int
	quantity  int
	currency  string
	questions []catalog.Question
	lastSeen  time.Time
}

// Snapshot is a copy of the session safe to render outside the lock. The
// bundle pointer is shared but never mutated after it lands.
type Snapshot struct {
	State     State
	Err       string
	Notice    string
	Products  []catalog.Summary
	TargetID  int
	Bundle    *catalog.Bundle
	VariantID int
	Quantity  int
	Currency  string
	Questions []catalog.Question
}

// BeginMount starts the load sequence. Only an idle session mounts, so two
// concurrent first requests start a single list fetch.
func (s *Session) BeginMount() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return false
	}
	s.state = StateListLoading
	return true
}

// FinishList records the product list result. On success it picks the
// product the page lands on and returns its id; the caller starts the detail
// fetch for it. An empty list is an error state, not a blank page.
func (s *Session) FinishList(products []catalog.Summary, err error) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateListLoading {
		return 0, false
	}
	if err != nil {
		s.failLocked(err.Error())
		return 0, false
	}
	if len(products) == 0 {
		s.failLocked(EmptyStoreMessage)
		return 0, false
	}

	s.products = products
	s.state = StateListLoaded
	return products[pickFn(len(products))].ID, true
}

// BeginDetail moves the session into loading the given product. Any detail
// batch already in flight becomes stale: its product id no longer matches.
func (s *Session) BeginDetail(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateListLoaded, StateDetailLoading, StateReady:
	default:
		return false
	}
	s.state = StateDetailLoading
	s.targetID = id
	s.bundle = nil
	return true
}

// FinishDetail lands a detail batch. Results for anything other than the
// product currently being loaded are discarded, so a slow batch can never
// overwrite a newer selection.
func (s *Session) FinishDetail(id int, bundle *catalog.Bundle, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDetailLoading || s.targetID != id {
		slog.Info("discarding stale detail batch", "product", id, "state", s.state.String(), "target", s.targetID)
		return
	}
	if err != nil {
		s.failLocked(err.Error())
		return
	}

	s.bundle = bundle
	s.questions = append([]catalog.Question(nil), bundle.Questions...)
	s.quantity = 1
	s.variantID = 0
	if len(bundle.Offer.Variants) > 0 {
		first := bundle.Offer.Variants[0]
		s.variantID = first.ID
		if s.currency == "" {
			if codes := pricing.Codes(first.Pricing); len(codes) > 0 {
				s.currency = codes[0]
			}
		}
	}
	s.state = StateReady
}

// Fail puts the session into the error state from anywhere in the sequence.
func (s *Session) Fail(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLocked(message)
}

func (s *Session) failLocked(message string) {
	s.state = StateError
	s.errText = message
	s.bundle = nil
}

// Reset returns an errored session to idle so the page can remount. The
// currency choice survives, everything else reloads.
func (s *Session) Reset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateError {
		return false
	}
	s.state = StateIdle
	s.errText = ""
	s.products = nil
	s.bundle = nil
	s.questions = nil
	s.targetID = 0
	s.variantID = 0
	s.quantity = 0
	return true
}

// SelectVariant resolves the variant to show after the shopper changes one
// attribute. Landing on a different variant resets the quantity to one.
func (s *Session) SelectVariant(changedKey, newValue string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.bundle == nil {
		return nil
	}

	v, err := catalog.ResolveVariant(s.bundle.Offer.Variants, s.variantID, changedKey, newValue)
	if err != nil {
		return err
	}
	if v.ID != s.variantID {
		s.variantID = v.ID
		s.quantity = 1
	}
	return nil
}

// SetQuantity clamps to the selected variant's stock, minimum one.
func (s *Session) SetQuantity(quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.bundle == nil {
		return
	}

	if quantity < 1 {
		quantity = 1
	}
	if v, ok := lo.Find(s.bundle.Offer.Variants, func(v catalog.Variant) bool { return v.ID == s.variantID }); ok {
		if v.Stock > 0 && quantity > v.Stock {
			quantity = v.Stock
		}
	}
	s.quantity = quantity
}

// SetCurrency switches the display currency. Variants without pricing in
// the chosen currency render without a price block rather than failing.
func (s *Session) SetCurrency(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code = strings.TrimSpace(code)
	if code == "" {
		return
	}
	s.currency = code
}

// AddQuestion prepends a shopper question with no answer yet. Only a ready
// session takes questions.
func (s *Session) AddQuestion(text string) (catalog.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text = strings.TrimSpace(text)
	if s.state != StateReady || text == "" {
		return catalog.Question{}, false
	}

	q := catalog.Question{
		ID:            uuid.NewString(),
		Question:      text,
		UserGenerated: true,
	}
	s.questions = append([]catalog.Question{q}, s.questions...)
	return q, true
}

// SetAnswer fills in the answer for a question, wherever it sits in the
// thread by now.
func (s *Session) SetAnswer(id, answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.questions {
		if s.questions[i].ID == id {
			s.questions[i].Answer = &answer
			return true
		}
	}
	return false
}

// DeleteQuestion removes a shopper-written question. Catalog questions are
// not deletable.
func (s *Session) DeleteQuestion(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := lo.Find(s.questions, func(q catalog.Question) bool { return q.ID == id })
	if !ok || !q.UserGenerated {
		return false
	}
	s.questions = lo.Reject(s.questions, func(q catalog.Question, _ int) bool { return q.ID == id })
	return true
}

// SetNotice stores a flash message the next render shows once.
func (s *Session) SetNotice(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = text
}

// AnswerSubject is the product slice handed to the answer service.
func (s *Session) AnswerSubject() (answers.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundle == nil {
		return answers.Product{}, false
	}

	subject := answers.Product{
		ID:          s.bundle.Product.ID,
		Title:       s.bundle.Product.Title,
		Description: s.bundle.Product.Description,
	}
	if s.bundle.Product.Specs != nil {
		subject.Specs = strings.Join(s.bundle.Product.Specs.Highlighted, ", ")
	}
	return subject, true
}

// View snapshots the session for rendering. The notice is one-shot: reading
// it clears it.
func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:     s.state,
		Err:       s.errText,
		Notice:    s.notice,
		Products:  append([]catalog.Summary(nil), s.products...),
		TargetID:  s.targetID,
		Bundle:    s.bundle,
		VariantID: s.variantID,
		Quantity:  s.quantity,
		Currency:  s.currency,
		Questions: append([]catalog.Question(nil), s.questions...),
	}
	s.notice = ""
	return snap
}

// State reports the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Touch marks the session as recently used for the sweeper.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}
