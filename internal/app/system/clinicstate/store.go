package clinicstate

import (
	"sync"
	"time"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHistorySize is how many applied actions History keeps.
const DefaultHistorySize = 25

// Listener receives the state produced by each applied action.
type Listener func(State)

// Entry is one applied action in the history log.
type Entry struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	At      time.Time `json:"at"`
	Version uint64    `json:"version"`
	Action  Action    `json:"payload"`
}

type subscription struct {
	id uint64
	fn Listener
}

// Store is the process-wide state container.
//
// Dispatch is single-writer: concurrent callers are serialized, and every
// listener sees every state in dispatch order. Listeners run on the
// dispatching goroutine and must not call Dispatch themselves.
// Reads (State, History) never block behind listener callbacks.
type Store struct {
	dispatchMu sync.Mutex // held for reduce + notify

	mu          sync.RWMutex // guards state, history, subs
	state       State
	history     []Entry
	historySize int
	subs        []subscription
	nextSubID   uint64

	logger  *zap.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger logs each applied action at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics counts applied actions and tracks the selected range.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Store) { s.metrics = m }
}

// WithHistorySize sets how many actions History keeps. Zero disables history.
func WithHistorySize(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.historySize = n
		}
	}
}

// New creates a Store in the uninitialized state with defaultRange selected.
func New(defaultRange int, opts ...Option) *Store {
	s := &Store{
		state:       Initial(defaultRange),
		historySize: DefaultHistorySize,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.RangeSelected(defaultRange)
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Select applies a selector to the current snapshot.
func Select[T any](s *Store, sel func(State) T) T {
	return sel(s.State())
}

// Dispatch applies a and notifies listeners in subscription order. It
// returns the resulting state. A nil action, or one the reducer does not
// recognize, leaves the state as is and notifies no one.
func (s *Store) Dispatch(a Action) State {
	if a == nil {
		s.logger.Warn("ignored nil state action")
		return s.State()
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	if next.Version == prev.Version {
		s.mu.Unlock()
		s.logger.Warn("ignored unknown state action", zap.String("action", a.Type()))
		return prev
	}
	s.state = next
	s.record(a, next)
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.logger.Debug("state action applied",
		zap.String("action", a.Type()),
		zap.Uint64("version", next.Version),
		zap.Int("selected_range", next.SelectedRange),
		zap.String("status", string(next.Status())),
	)
	s.metrics.ActionApplied(a.Type())
	if a.Type() == TypeUpdateSelectedRange {
		s.metrics.RangeSelected(next.SelectedRange)
	}

	for _, sub := range subs {
		sub.fn(next)
	}
	return next
}

// record appends to the history ring. Caller holds s.mu.
func (s *Store) record(a Action, next State) {
	if s.historySize == 0 {
		return
	}
	s.history = append(s.history, Entry{
		ID:      uuid.NewString(),
		Type:    a.Type(),
		At:      s.now().UTC(),
		Version: next.Version,
		Action:  a,
	})
	if over := len(s.history) - s.historySize; over > 0 {
		s.history = append(s.history[:0:0], s.history[over:]...)
	}
}

// History returns the most recently applied actions, oldest first.
func (s *Store) History() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.history))
	copy(out, s.history)
	return out
}

// Subscribe registers fn to receive every subsequent state. The returned
// function removes the subscription; calling it more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	return s.subscribeLocked(fn)
}

// subscribeLocked adds a subscription. Caller holds s.dispatchMu.
func (s *Store) subscribeLocked(fn Listener) func() {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// SubscribeSelector calls fn with the selected value now and again whenever
// an applied action changes it. Values are compared with ==, so pointer
// selectors fire only when the reducer replaced the pointer.
func SubscribeSelector[T comparable](s *Store, sel func(State) T, fn func(T)) (unsubscribe func()) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	last := sel(s.State())
	fn(last)

	return s.subscribeLocked(func(st State) {
		v := sel(st)
		if v == last {
			return
		}
		last = v
		fn(v)
	})
}
