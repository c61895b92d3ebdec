package daemon

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultPollInterval = 2 * time.Second

// ErrPassInProgress is returned by RunNow while another pass is running.
var ErrPassInProgress = errors.New("a scan pass is already running")

// ErrWatcherStopped is returned by RunNow when the watcher is not running.
var ErrWatcherStopped = errors.New("watcher is not running")

// Watcher re-runs Scan over a notes tree at a fixed interval. Passes never
// overlap, and a pass that has started always finishes: stopping the
// watcher waits for it instead of interrupting it.
type Watcher struct {
	processor *Processor
	root      string
	interval  time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
	passCtx    context.Context

	passMu   sync.Mutex
	lastPass *PassResult
	onPass   func(PassResult)
}

// NewWatcher creates a watcher for root. A non-positive interval uses
// DefaultPollInterval.
func NewWatcher(processor *Processor, root string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		processor: processor,
		root:      root,
		interval:  interval,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.PrintfLogger(log.Default())),
		)),
		passCtx: context.Background(),
	}
}

// OnPass registers a callback run after every pass.
func (w *Watcher) OnPass(fn func(PassResult)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onPass = fn
}

// Start runs a first pass right away and then one every interval until ctx
// is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return nil
	}

	entryID, err := w.cron.AddFunc(fmt.Sprintf("@every %s", w.interval), func() {
		w.runPass()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule scan job: %w", err)
	}
	w.entryID = entryID

	// Passes outlive cancellation so a shutdown never cuts a file in half.
	w.passCtx = context.WithoutCancel(ctx)

	var cancelCtx context.Context
	cancelCtx, w.cancelFunc = context.WithCancel(ctx)

	w.cron.Start()
	w.isRunning = true

	log.Printf("Lecture agent: watching %s every %s", w.root, w.interval)

	go w.runPass()

	go func() {
		<-cancelCtx.Done()
		w.Stop()
	}()

	return nil
}

// Stop halts scheduling and waits for a running pass to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	cancel := w.cancelFunc
	w.cancelFunc = nil
	entryID := w.entryID
	w.mu.Unlock()

	ctx := w.cron.Stop()
	<-ctx.Done()

	// Passes started by Start or RunNow run outside cron.
	w.passMu.Lock()
	w.passMu.Unlock()

	w.cron.Remove(entryID)
	if cancel != nil {
		cancel()
	}

	log.Printf("Lecture agent: watcher stopped")
}

// RunNow starts a pass in the background unless one is already running or
// the watcher has been stopped.
func (w *Watcher) RunNow() error {
	if !w.passMu.TryLock() {
		return ErrPassInProgress
	}
	if !w.IsRunning() {
		w.passMu.Unlock()
		return ErrWatcherStopped
	}
	go func() {
		defer w.passMu.Unlock()
		w.scan()
	}()
	return nil
}

// RunOnce runs a single pass synchronously, waiting for any pass already in
// progress.
func (w *Watcher) RunOnce(ctx context.Context) PassResult {
	w.passMu.Lock()
	defer w.passMu.Unlock()

	w.mu.Lock()
	w.passCtx = context.WithoutCancel(ctx)
	w.mu.Unlock()

	return w.scan()
}

// IsRunning returns whether the watcher is scheduled.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.isRunning
}

// LastPass returns the result of the most recent pass, or nil before the
// first one finished.
func (w *Watcher) LastPass() *PassResult {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.lastPass == nil {
		return nil
	}
	p := *w.lastPass
	return &p
}

// NextRun returns when the next scheduled pass starts.
func (w *Watcher) NextRun() *time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.isRunning {
		return nil
	}
	entry := w.cron.Entry(w.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}

// Interval returns the polling interval.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// runPass is the scheduled pass. Holding passMu before checking isRunning
// means Stop either waits for this pass or the pass never starts.
func (w *Watcher) runPass() {
	if !w.passMu.TryLock() {
		return
	}
	defer w.passMu.Unlock()
	if !w.IsRunning() {
		return
	}
	w.scan()
}

// scan must be called with passMu held.
func (w *Watcher) scan() PassResult {
	w.mu.RLock()
	ctx := w.passCtx
	w.mu.RUnlock()

	result := w.processor.Scan(ctx, w.root)
	if result.Annotated > 0 || result.Errors > 0 {
		log.Printf("Lecture agent: pass %s finished in %v: %d files, %d saved, %d rewritten, %d skipped, %d failed, %d errors",
			result.ID, result.Duration.Round(time.Millisecond), result.Files, result.Saved,
			result.Rewritten, result.Skipped, result.Failed, result.Errors)
	}

	w.mu.Lock()
	w.lastPass = &result
	onPass := w.onPass
	w.mu.Unlock()

	if onPass != nil {
		onPass(result)
	}
	return result
}
