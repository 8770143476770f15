package engine

import (
	"context"
	"log"
	"time"

	"servicemap/catalog"
	"servicemap/geo"
)

// Fetcher is the one network dependency of the engine. catalog.Client
// satisfies it; tests substitute fakes.
type Fetcher interface {
	FetchServices(ctx context.Context, q catalog.Query) ([]catalog.ServiceRecord, error)
}

// Status is what the UI should tell the user about the engine's health.
type Status int

const (
	StatusOK Status = iota
	// StatusOffline is raised by connectivity loss and persists until
	// connectivity returns.
	StatusOffline
	// StatusTransportError: the request never reached the server even
	// though connectivity looked fine (captive portal and friends).
	StatusTransportError
	// StatusServerError: the backend answered 5xx. "Try again later."
	StatusServerError
	// StatusClientError: the backend rejected the request; retrying the
	// same request will not help.
	StatusClientError
)

// Snapshot is the read-only projection handed to the rendering layer on
// every state change.
type Snapshot struct {
	Visible []catalog.ServiceRecord
	Status  Status
}

// Config carries the engine's tuning knobs.
type Config struct {
	MinZoom          int
	MinFetchInterval time.Duration
	Debounce         time.Duration
	ZoomInRatio      float64
	BufferFrac       float64
	CacheCap         int
	Logf             func(string, ...any)
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		MinZoom:          8,
		MinFetchInterval: 400 * time.Millisecond,
		Debounce:         500 * time.Millisecond,
		ZoomInRatio:      2,
		BufferFrac:       0.15,
		CacheCap:         DefaultCacheCap,
	}
}

// Engine is the viewport-driven synchronization engine. All state lives
// on a single owner goroutine; public methods only post events, so there
// is nothing to lock. At most one request is in flight at any time and
// only the most recent request may ever mutate state.
type Engine struct {
	cfg      Config
	gate     Gate
	fetcher  Fetcher
	onUpdate func(Snapshot)
	logf     func(string, ...any)

	events  chan any
	results chan fetchResult
	quit    chan struct{}
	done    chan struct{}
}

type viewportEvent struct{ vp geo.Viewport }
type filtersEvent struct{ filters catalog.FilterState }
type onlineEvent struct{ online bool }
type retryEvent struct{}

type fetchResult struct {
	gen     int
	records []catalog.ServiceRecord
	err     error
	bounds  geo.Bounds
	filters catalog.FilterState
}

// New starts the engine loop. onUpdate is called from the loop goroutine
// after every state change; it must return quickly and must not call back
// into the engine synchronously.
func New(fetcher Fetcher, cfg Config, onUpdate func(Snapshot)) *Engine {
	logf := cfg.Logf
	if logf == nil {
		logf = log.Printf
	}
	e := &Engine{
		cfg: cfg,
		gate: NewGate(GateConfig{
			MinZoom:     cfg.MinZoom,
			MinInterval: cfg.MinFetchInterval,
			ZoomInRatio: cfg.ZoomInRatio,
		}),
		fetcher:  fetcher,
		onUpdate: onUpdate,
		logf:     logf,
		events:   make(chan any, 16),
		results:  make(chan fetchResult, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go e.run()
	return e
}

// SetViewport feeds a camera-settle event into the engine. Raw events are
// welcome; debouncing happens inside.
func (e *Engine) SetViewport(vp geo.Viewport) { e.post(viewportEvent{vp}) }

// SetFilters replaces the active filter state.
func (e *Engine) SetFilters(f catalog.FilterState) { e.post(filtersEvent{f}) }

// SetOnline feeds connectivity transitions. Offline suspends fetching and
// clears the cache; coming back online triggers exactly one fetch with
// the current viewport and filters.
func (e *Engine) SetOnline(online bool) { e.post(onlineEvent{online}) }

// Retry is the explicit user-driven recovery path after a failure.
func (e *Engine) Retry() { e.post(retryEvent{}) }

// Close cancels any pending debounce and in-flight request and stops the
// loop. No callbacks fire after Close returns.
func (e *Engine) Close() {
	close(e.quit)
	<-e.done
}

func (e *Engine) post(ev any) {
	select {
	case e.events <- ev:
	case <-e.quit:
	}
}

// loopState is everything the owner goroutine tracks between events.
type loopState struct {
	vp     geo.Viewport
	haveVP bool

	filters catalog.FilterState
	cache   *Cache
	// cacheFilters are the filters the cache contents were fetched
	// under; a mismatch on response means wholesale replacement.
	cacheFilters catalog.FilterState
	cacheValid   bool

	memo      Memo
	online    bool
	status    Status
	zoomedOut bool

	timer  *time.Timer
	timerC <-chan time.Time

	gen      int
	cancel   context.CancelFunc
	inFlight bool
}

func (e *Engine) run() {
	defer close(e.done)

	st := &loopState{
		cache:  NewCache(e.cfg.CacheCap),
		online: true,
	}
	defer func() {
		e.stopTimer(st)
		e.cancelInFlight(st)
	}()

	for {
		select {
		case <-e.quit:
			return
		case ev := <-e.events:
			e.handle(st, ev)
		case <-st.timerC:
			st.timer = nil
			st.timerC = nil
			e.startFetch(st)
		case res := <-e.results:
			e.handleResult(st, res)
		}
	}
}

func (e *Engine) handle(st *loopState, ev any) {
	switch ev := ev.(type) {
	case viewportEvent:
		st.vp = ev.vp
		st.haveVP = true
		d := e.gate.Decide(ev.vp.Bounds.Buffer(e.cfg.BufferFrac), ev.vp.Zoom, st.filters, st.memo, time.Now())
		st.zoomedOut = d.ClearVisible
		if d.Fetch && st.online {
			e.armDebounce(st)
		}
		e.emit(st)

	case filtersEvent:
		if !ev.filters.TimeEqual(st.filters) {
			// "Open now" results age with the wall clock; neither the
			// memo nor the cache can be trusted across this toggle.
			st.memo = Memo{}
			st.cache.Clear()
			st.cacheValid = false
		}
		st.filters = ev.filters
		if st.haveVP {
			d := e.gate.Decide(st.vp.Bounds.Buffer(e.cfg.BufferFrac), st.vp.Zoom, st.filters, st.memo, time.Now())
			st.zoomedOut = d.ClearVisible
			if d.Fetch && st.online {
				e.armDebounce(st)
			}
		}
		e.emit(st)

	case onlineEvent:
		if ev.online == st.online {
			return
		}
		st.online = ev.online
		if !ev.online {
			e.stopTimer(st)
			e.cancelInFlight(st)
			st.cache.Clear()
			st.cacheValid = false
			st.memo = Memo{}
			st.status = StatusOffline
			e.emit(st)
			return
		}
		st.status = StatusOK
		// One fetch for the current view, not a backlog of missed ones.
		if st.haveVP && st.vp.Zoom >= e.cfg.MinZoom {
			e.startFetch(st)
		}
		e.emit(st)

	case retryEvent:
		if st.online && st.haveVP {
			e.startFetch(st)
		}
	}
}

func (e *Engine) handleResult(st *loopState, res fetchResult) {
	if res.gen != st.gen {
		// Superseded request resolving late; its outcome must not touch
		// any state.
		return
	}
	st.inFlight = false
	st.cancel = nil

	if res.err != nil {
		if catalog.IsCanceled(res.err) {
			return
		}
		switch catalog.KindOf(res.err) {
		case catalog.KindServer:
			st.status = StatusServerError
		case catalog.KindClient:
			st.status = StatusClientError
		default:
			st.status = StatusTransportError
		}
		e.logf("engine: fetch failed: %v", res.err)
		// Memo untouched: a failed fetch is not remembered as satisfied,
		// so the next qualifying viewport change retries.
		e.emit(st)
		return
	}

	st.memo = Memo{
		Bounds:    res.bounds,
		HasBounds: true,
		Filters:   res.filters,
		FetchedAt: time.Now(),
	}
	if st.cacheValid && res.filters.Equal(st.cacheFilters) {
		st.cache.Merge(res.records)
	} else {
		st.cache.Replace(res.records)
	}
	st.cacheFilters = res.filters
	st.cacheValid = true
	st.status = StatusOK
	e.logf("engine: merged %d records, cache size %d", len(res.records), st.cache.Len())
	e.emit(st)
}

// startFetch cancels the predecessor and issues a request with the
// current buffered bounds and filters.
func (e *Engine) startFetch(st *loopState) {
	if !st.haveVP {
		return
	}
	e.cancelInFlight(st)

	st.gen++
	gen := st.gen
	bounds := st.vp.Bounds.Buffer(e.cfg.BufferFrac)
	q := catalog.Query{Bounds: bounds, Filters: st.filters}

	ctx, cancel := context.WithCancel(context.Background())
	st.cancel = cancel
	st.inFlight = true

	go func() {
		records, err := e.fetcher.FetchServices(ctx, q)
		select {
		case e.results <- fetchResult{gen: gen, records: records, err: err, bounds: bounds, filters: q.Filters}:
		case <-e.quit:
		}
	}()
}

func (e *Engine) armDebounce(st *loopState) {
	e.stopTimer(st)
	st.timer = time.NewTimer(e.cfg.Debounce)
	st.timerC = st.timer.C
}

func (e *Engine) stopTimer(st *loopState) {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
		st.timerC = nil
	}
}

func (e *Engine) cancelInFlight(st *loopState) {
	if st.cancel != nil {
		st.cancel()
		st.cancel = nil
	}
	st.inFlight = false
}

func (e *Engine) emit(st *loopState) {
	if e.onUpdate == nil {
		return
	}
	snap := Snapshot{Status: st.status}
	if !st.zoomedOut && st.haveVP {
		snap.Visible = Visible(st.cache.Records(), st.vp, st.filters)
	}
	e.onUpdate(snap)
}
