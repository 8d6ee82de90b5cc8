// Package engine answers analytics questions, preferring the remote
// generative model but always degrading to deterministic local extraction.
// Every request completes with non-empty text; no failure reaches the caller.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meddesk-ai/meddesk/pkg/cache"
	"github.com/meddesk-ai/meddesk/pkg/extract"
	"github.com/meddesk-ai/meddesk/pkg/gemini"
	"github.com/meddesk-ai/meddesk/pkg/models"
)

// RemoteClient produces a generated answer for a prompt. The context deadline
// bounds the attempt and must cancel in-flight work when it elapses.
type RemoteClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Recorder receives one record per answered question. Failures are logged and
// otherwise ignored.
type Recorder interface {
	Record(ctx context.Context, rec models.AnswerRecord) error
}

// Options configures an Engine.
type Options struct {
	// Remote is the generative backend. Nil disables the remote path
	// entirely; every miss goes straight to extraction.
	Remote RemoteClient
	// RemoteTimeout bounds a single remote attempt. Defaults to 8s.
	RemoteTimeout time.Duration
	// CooldownWindow is how long the remote path stays disabled after a
	// quota failure. Defaults to 5m.
	CooldownWindow time.Duration
	// Recorder, when set, logs every answered question.
	Recorder Recorder
	Logger   *zap.Logger
}

// Engine orchestrates cache, cooldown, remote generation and fallback
// extraction for each question. Safe for concurrent use.
type Engine struct {
	store    *cache.Store
	remote   RemoteClient
	recorder Recorder
	log      *zap.Logger

	timeout  time.Duration
	cooldown time.Duration

	mu            sync.Mutex
	cooldownUntil time.Time

	// keyLocks serializes requests that share a fingerprint, so a burst of
	// identical questions costs one remote call, not several.
	klmu     sync.Mutex
	keyLocks map[string]*sync.Mutex

	now func() time.Time
}

// New creates an Engine over the given cache store.
func New(store *cache.Store, opts Options) *Engine {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = 8 * time.Second
	}
	if opts.CooldownWindow <= 0 {
		opts.CooldownWindow = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Engine{
		store:    store,
		remote:   opts.Remote,
		recorder: opts.Recorder,
		log:      opts.Logger,
		timeout:  opts.RemoteTimeout,
		cooldown: opts.CooldownWindow,
		keyLocks: make(map[string]*sync.Mutex),
		now:      time.Now,
	}
}

// GenerateAnswer answers a question against the context document. It always
// returns non-empty text with a valid provenance tag, bounded by the remote
// timeout plus extraction cost.
func (e *Engine) GenerateAnswer(ctx context.Context, query, contextText string) models.AnswerResult {
	start := e.now()
	key := cache.Fingerprint(query, contextText)

	unlock := e.lockKey(key)
	defer unlock()

	if text, ok := e.store.Get(key); ok {
		e.log.Debug("cache hit", zap.String("key", key[:8]))
		return e.finish(ctx, query, start, models.AnswerResult{Text: text, Provenance: models.ProvenanceCache})
	}

	if e.remote != nil && !e.InCooldown() {
		text, err := e.attemptRemote(ctx, BuildPrompt(query, contextText))

		if err == nil && text != "" {
			if perr := e.store.Put(key, text); perr != nil {
				e.log.Warn("cache write failed", zap.Error(perr))
			}
			return e.finish(ctx, query, start, models.AnswerResult{Text: text, Provenance: models.ProvenanceRemote})
		}

		kind := gemini.Classify(err)
		if kind == gemini.KindQuotaExhausted {
			e.startCooldown()
		}
		e.log.Warn("remote attempt failed, using extraction",
			zap.String("kind", string(kind)), zap.Error(err))
	} else if e.remote != nil {
		e.log.Debug("remote path in cooldown, using extraction",
			zap.Duration("remaining", e.CooldownRemaining()))
	}

	text := extract.Answer(query, contextText)
	return e.finish(ctx, query, start, models.AnswerResult{Text: text, Provenance: models.ProvenanceFallback})
}

// attemptRemote runs one bounded remote call. The deadline is enforced here,
// not delegated to the client: the call runs on its own goroutine and the
// attempt gives up when the deadline passes even if the client never returns.
// Cancelling the attempt context tells a cooperating client to stop early.
func (e *Engine) attemptRemote(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := e.remote.Generate(attemptCtx, prompt)
		done <- result{text, err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-attemptCtx.Done():
		return "", attemptCtx.Err()
	}
}

// InCooldown reports whether the remote path is currently disabled.
func (e *Engine) InCooldown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now().Before(e.cooldownUntil)
}

// CooldownRemaining returns how long until the remote path is retried, or
// zero when no cooldown is active.
func (e *Engine) CooldownRemaining() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	if remaining := e.cooldownUntil.Sub(e.now()); remaining > 0 {
		return remaining
	}
	return 0
}

func (e *Engine) lockKey(key string) func() {
	e.klmu.Lock()
	l, ok := e.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		e.keyLocks[key] = l
	}
	e.klmu.Unlock()
	l.Lock()
	return l.Unlock
}

// startCooldown disables the remote path for the configured window. A
// concurrent quota failure never shortens an already-active window.
func (e *Engine) startCooldown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	until := e.now().Add(e.cooldown)
	if until.After(e.cooldownUntil) {
		e.cooldownUntil = until
	}
}

func (e *Engine) finish(ctx context.Context, query string, start time.Time, res models.AnswerResult) models.AnswerResult {
	if e.recorder != nil {
		rec := models.AnswerRecord{
			Query:      query,
			Provenance: res.Provenance,
			AnswerLen:  len(res.Text),
			LatencyMs:  e.now().Sub(start).Milliseconds(),
			CreatedAt:  e.now().UTC(),
		}
		if e.remote != nil {
			rec.Model = e.remote.Model()
		}
		if err := e.recorder.Record(ctx, rec); err != nil {
			e.log.Warn("history record failed", zap.Error(err))
		}
	}
	return res
}
