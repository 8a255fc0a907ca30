package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidChain marks a chain that fails hash or link verification.
var ErrInvalidChain = errors.New("invalid chain")

type (
	// Listener is notified after the ledger changes. Callbacks run outside the
	// ledger lock and receive copies.
	Listener interface {
		BlockSealed(block Block)
		ChainReplaced(chain []Block)
	}

	// Option configures a Ledger.
	Option func(*Ledger)
)

// WithClock overrides the wall clock used for block and alert timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithListener registers a change listener.
func WithListener(listener Listener) Option {
	return func(l *Ledger) {
		l.listeners = append(l.listeners, listener)
	}
}

// Ledger is the local chain plus the pool of alerts not yet sealed.
// It is safe for concurrent use.
type Ledger struct {
	mu        sync.RWMutex
	chain     []Block
	pending   []Alert
	now       func() time.Time
	listeners []Listener
}

// New returns a ledger holding only the genesis block.
func New(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.chain = []Block{NewGenesis()}
	return l
}

// AddListener registers a listener after construction.
func (l *Ledger) AddListener(listener Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, listener)
}

// CreateBlock seals the whole pending pool into a new block linked to
// previousHash, appends it and clears the pool.
func (l *Ledger) CreateBlock(previousHash, sender string) Block {
	l.mu.Lock()
	block := l.appendLocked(previousHash, sender)
	listeners := l.listeners
	l.mu.Unlock()

	for _, listener := range listeners {
		listener.BlockSealed(cloneBlock(block))
	}
	return cloneBlock(block)
}

// Seal drains a non-empty pool into a block on top of the current tip.
// It reports false and leaves the chain untouched when the pool is empty.
func (l *Ledger) Seal(sender string) (Block, bool) {
	l.mu.Lock()
	if len(l.pending) == 0 {
		l.mu.Unlock()
		return Block{}, false
	}
	block := l.appendLocked(l.chain[len(l.chain)-1].Hash, sender)
	listeners := l.listeners
	l.mu.Unlock()

	for _, listener := range listeners {
		listener.BlockSealed(cloneBlock(block))
	}
	return cloneBlock(block), true
}

func (l *Ledger) appendLocked(previousHash, sender string) Block {
	alerts := l.pending
	if alerts == nil {
		alerts = []Alert{}
	}
	block := Block{
		Index:        len(l.chain) + 1,
		Timestamp:    EpochSeconds(l.now()),
		Alerts:       alerts,
		PreviousHash: previousHash,
		Sender:       sender,
	}
	block.Hash = Hash(block)

	l.chain = append(l.chain, block)
	l.pending = nil
	return block
}

// AddAlert queues an alert and returns the index of the block expected to
// contain it. Alerts are never deduplicated.
func (l *Ledger) AddAlert(sender, alertType string, confidence float64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, Alert{
		Sender:     sender,
		Type:       alertType,
		Confidence: RoundConfidence(confidence),
		Timestamp:  EpochSeconds(l.now()),
	})
	return l.chain[len(l.chain)-1].Index + 1
}

// Validate reports whether chain is internally consistent.
func (l *Ledger) Validate(chain []Block) bool {
	return Validate(chain)
}

// ReplaceIfLonger swaps in candidate only if it is strictly longer than the
// chain held at the moment of the swap. The candidate must already be valid.
func (l *Ledger) ReplaceIfLonger(candidate []Block) bool {
	l.mu.Lock()
	if len(candidate) <= len(l.chain) {
		l.mu.Unlock()
		return false
	}
	l.chain = cloneChain(candidate)
	listeners := l.listeners
	l.mu.Unlock()

	for _, listener := range listeners {
		listener.ChainReplaced(cloneChain(candidate))
	}
	return true
}

// Chain returns a copy of the current chain.
func (l *Ledger) Chain() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneChain(l.chain)
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chain)
}

func (l *Ledger) LastBlock() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneBlock(l.chain[len(l.chain)-1])
}

func (l *Ledger) Genesis() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneBlock(l.chain[0])
}

func (l *Ledger) PendingCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

// Pending returns a copy of the unsealed alerts in arrival order.
func (l *Ledger) Pending() []Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Alert, len(l.pending))
	copy(out, l.pending)
	return out
}

// Validate reports whether every block after the first carries its own
// canonical hash and links to its predecessor.
func Validate(chain []Block) bool {
	return Verify(chain) == nil
}

// Verify is Validate with the first failure described. Errors wrap
// ErrInvalidChain.
func Verify(chain []Block) error {
	for i := 1; i < len(chain); i++ {
		current, previous := chain[i], chain[i-1]
		if want := Hash(current); current.Hash != want {
			return fmt.Errorf("%w: block %d hash %q does not match computed %q", ErrInvalidChain, current.Index, current.Hash, want)
		}
		if current.PreviousHash != previous.Hash {
			return fmt.Errorf("%w: block %d previous hash %q does not link to %q", ErrInvalidChain, current.Index, current.PreviousHash, previous.Hash)
		}
	}
	return nil
}
