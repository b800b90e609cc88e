// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package actor

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/disruptor/address"
	"github.com/tochemey/disruptor/config"
	"github.com/tochemey/disruptor/disruptor"
	"github.com/tochemey/disruptor/errors"
	"github.com/tochemey/disruptor/internal/errorschain"
	"github.com/tochemey/disruptor/journal"
	"github.com/tochemey/disruptor/log"
)

type outbox = disruptor.Outbox[*Message]

// internalOfferTimeout is the wait of each attempt of an internal offer
const internalOfferTimeout = 50 * time.Millisecond

// actorCell hosts a bean: its queue service, its load state and its journal.
//
// The lifecycle lock serializes every dispatch. Business methods of an actor
// with more than one worker run outside of it once the actor is active.
type actorCell struct {
	name         string
	address      *address.Address
	bean         Bean
	methods      Methods
	manager      *Manager
	config       config.Actor
	logger       log.Logger
	fullHandler  QueueFullHandler
	offerTimeout time.Duration
	concurrent   bool
	batchAware   BatchAware

	svc *disruptor.QueueService[*Message]
	ref *Ref

	// lifetime of the actor, canceled on destroy
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	status        atomic.Int32
	pending       *Pending
	replayBuffer  []*Message
	replayPending bool
	replayUntil   uint64
	modified      bool

	sequence    atomic.Uint64
	processed   atomic.Int64
	transitions atomic.Int64
	held        atomic.Int64

	journal       journal.Journal
	writer        *journal.Writer
	journaled     atomic.Uint64
	checkpointed  atomic.Uint64
	saveRequested atomic.Bool
	lastEntry     atomic.Pointer[journal.Entry]
	closeErr      error
	feedOnce      sync.Once
}

var _ disruptor.Deliver[*Message] = (*actorCell)(nil)

func newActorCell(ctx context.Context, manager *Manager, name string, bean Bean, spawn *spawnConfig) (*actorCell, error) {
	cfg := spawn.actor
	logger := manager.logger.With("actor", name)
	a := &actorCell{
		name:         name,
		address:      address.New(manager.name, name),
		bean:         bean,
		methods:      make(Methods),
		manager:      manager,
		config:       cfg,
		logger:       logger,
		fullHandler:  spawn.handler,
		offerTimeout: cfg.OfferTimeout(),
		concurrent:   cfg.MaxWorkers > 1,
	}
	a.ref = &Ref{actor: a}
	a.ctx, a.cancel = context.WithCancel(context.Background())
	if x, ok := bean.(BatchAware); ok {
		a.batchAware = x
	}
	for method, fn := range bean.Methods() {
		a.methods[method] = fn
	}
	if a.fullHandler == nil {
		a.fullHandler = queueFullHandler(cfg.QueueFullHandler, logger)
	}

	if cfg.Journal {
		if err := a.openJournal(ctx); err != nil {
			a.cancel()
			return nil, err
		}
	}

	opts := []disruptor.Option{
		disruptor.WithName(name),
		disruptor.WithCapacity(cfg.QueueCapacity),
		disruptor.WithOfferTimeout(a.offerTimeout),
		disruptor.WithWorkerPool(manager.pool),
		disruptor.WithLogger(logger),
		disruptor.WithMeter(manager.meter),
	}
	if cfg.QueueInitialSize > 0 {
		opts = append(opts, disruptor.WithInitialSize(cfg.QueueInitialSize))
	}

	var err error
	if a.journal != nil {
		a.svc, err = disruptor.New[*Message](&journalStage{actor: a}).
			Next(a).
			Workers(cfg.MaxWorkers).
			Build(opts...)
	} else {
		a.svc, err = disruptor.New[*Message](a).
			Workers(cfg.MaxWorkers).
			Build(opts...)
	}
	if err != nil {
		a.cancel()
		if a.journal != nil {
			_ = a.writer.Close(ctx)
			_ = a.journal.Close()
		}
		return nil, err
	}
	return a, nil
}

func (a *actorCell) openJournal(ctx context.Context) error {
	store := a.manager.store
	if store == nil {
		return errors.NewConfigurationError("journal", fmt.Errorf("actor %s is journaled but the manager has no journal store", a.name))
	}

	j, err := store.Journal(a.name)
	if err != nil {
		return fmt.Errorf("failed to open the journal of %s: %w", a.name, err)
	}
	size, err := j.Len(ctx)
	if err != nil {
		_ = j.Close()
		return fmt.Errorf("failed to read the journal of %s: %w", a.name, err)
	}
	last, err := j.LastSequence(ctx)
	if err != nil {
		_ = j.Close()
		return fmt.Errorf("failed to read the journal of %s: %w", a.name, err)
	}

	a.journal = j
	a.replayPending = size > 0
	a.replayUntil = last
	// the entries left to replay count toward the next checkpoint
	a.journaled.Store(uint64(size))
	if size > 0 {
		a.lastEntry.Store(&journal.Entry{Actor: a.name, Sequence: last})
	}
	a.writer = journal.NewWriter(j,
		journal.WithDelay(a.config.JournalDelay()),
		journal.WithWriterLogger(a.logger))
	return nil
}

// start initializes auto started actors. A journaled actor with entries to
// replay is initialized by its replay feed.
func (a *actorCell) start() {
	if !a.config.AutoStart {
		return
	}
	if a.replayPending {
		a.startReplayFeed()
		return
	}
	a.offerInternal(&Message{kind: kindStart})
}

func (a *actorCell) state() StateTag {
	return StateTag(a.status.Load())
}

// setState installs state unless the actor is already destroyed. A failed
// actor can only be destroyed.
func (a *actorCell) setState(state StateTag) bool {
	for {
		previous := a.state()
		if previous == StateDestroy || (previous == StateFail && state != StateDestroy) {
			return false
		}
		if previous == state {
			return true
		}
		if a.status.CompareAndSwap(int32(previous), int32(state)) {
			a.transitions.Inc()
			a.logger.Debugf("%s: %s -> %s", a.name, previous, state)
			return true
		}
	}
}

// modify flags the actor as modified. It is safe to call from business
// methods running outside of the lifecycle lock.
func (a *actorCell) modify() {
	if a.status.CompareAndSwap(int32(StateActive), int32(StateModify)) {
		a.transitions.Inc()
		a.manager.markDirty(a)
		return
	}
	if a.status.CompareAndSwap(int32(StateReplay), int32(StateReplayModify)) {
		a.transitions.Inc()
	}
}

// Deliver dispatches m according to the current load state
func (a *actorCell) Deliver(m *Message, out *outbox) error {
	if a.concurrent && m.isUser() && a.state().IsActive() {
		a.invoke(m, out)
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.dispatch(m, out)
	return nil
}

// BeforeBatch forwards to the bean
func (a *actorCell) BeforeBatch() {
	if a.batchAware != nil {
		a.batchAware.BeforeBatch()
	}
}

// AfterBatch forwards to the bean
func (a *actorCell) AfterBatch() {
	if a.batchAware != nil {
		a.batchAware.AfterBatch()
	}
}

// Shutdown destroys the actor. Messages held by a pending transition or
// waiting for the end of the replay are failed.
func (a *actorCell) Shutdown(mode disruptor.ShutdownMode) {
	// the state is switched first so that a worker busy in a method rejects
	// the remaining messages once it returns
	state := StateTag(a.status.Swap(int32(StateDestroy)))
	if state == StateDestroy {
		return
	}
	a.transitions.Inc()
	a.logger.Debugf("%s: %s -> %s", a.name, state, StateDestroy)

	a.mu.Lock()
	var held []*Message
	if a.pending != nil {
		held = a.pending.messages()
		a.pending = nil
	}
	held = append(held, a.replayBuffer...)
	a.replayBuffer = nil
	a.held.Store(0)
	a.mu.Unlock()

	a.cancel()
	for _, m := range held {
		a.reject(m)
	}

	a.logger.Debugf("%s destroyed (%s), %d held messages failed", a.name, mode, len(held))
	if state == StateNew {
		return
	}

	if destroyer, ok := a.bean.(Destroyer); ok {
		if err := a.safely(func() error { return destroyer.OnDestroy(context.Background()) }); err != nil {
			a.logger.Warnf("%s: OnDestroy failed: %v", a.name, err)
		}
	}
}

// stop shuts the queue service down and releases the journal
func (a *actorCell) stop(ctx context.Context, mode disruptor.ShutdownMode) error {
	err := a.svc.Shutdown(ctx, mode)
	a.wg.Wait()

	chain := errorschain.New(errorschain.ReturnAll()).AddError(err)
	if a.journal != nil {
		// closeErr is set by the journal stage during the service shutdown
		chain.AddError(a.closeErr).AddErrorFn(a.journal.Close)
	}
	return chain.Error()
}

func (a *actorCell) dispatch(m *Message, out *outbox) {
	if m.kind == kindComplete {
		if a.pending != nil && a.pending == m.pending {
			a.resolve(out)
		}
		return
	}

	if a.pending != nil {
		a.pending.Deliver(m)
		a.held.Inc()
		return
	}
	if handle := handlers[a.state()]; handle != nil {
		handle(a, m, out)
		return
	}
	a.reject(m)
}

// transition runs the lifecycle hook leading to next. The trigger is
// redelivered once the hook completes, after resolved.
func (a *actorCell) transition(out *outbox, trigger *Message, name hook, next StateTag, resolved func(error)) {
	fn := lifecycle(a.bean, name)
	if fn == nil {
		a.setState(next)
		if resolved != nil {
			resolved(nil)
		}
		if trigger != nil {
			a.dispatch(trigger, out)
		}
		return
	}

	from := a.state()
	if from.IsTerminal() {
		if trigger != nil {
			a.reject(trigger)
		}
		return
	}
	p := newPending(a, from, name, next, trigger, resolved)
	a.pending = p
	if trigger != nil {
		a.held.Inc()
	}
	a.setState(StatePending)

	p.begin()
	err := a.safely(func() error {
		fn(a.ctx, p)
		return nil
	})
	completed := p.end()

	if err != nil {
		a.fail(p, err)
		return
	}
	if completed {
		a.resolve(out)
	}
}

func (a *actorCell) resolve(out *outbox) {
	p := a.pending
	a.pending = nil
	a.held.Sub(int64(p.Len()))

	if p.err != nil {
		a.logger.Warn(errors.NewLifecycleCallbackError(p.from.String(), string(p.hook), p.err))
	}

	a.setState(p.next)
	if p.resolved != nil {
		p.resolved(p.err)
	}
	for _, m := range p.messages() {
		a.dispatch(m, out)
	}
}

// fail moves the actor to FAIL after a lifecycle hook panicked
func (a *actorCell) fail(p *Pending, cause error) {
	err := errors.NewLifecycleCallbackError(p.from.String(), string(p.hook), cause)
	a.logger.Error(err)

	a.pending = nil
	held := append(p.messages(), a.replayBuffer...)
	a.replayBuffer = nil
	a.held.Store(0)
	a.setState(StateFail)
	a.cancel()
	a.manager.forget(a)

	reason := fmt.Errorf("%w: %w", errors.ErrServiceClosed, err)
	for _, m := range held {
		m.complete(nil, reason)
	}
}

// activate ends the replay
func (a *actorCell) activate(out *outbox, trigger *Message) {
	next := StateActive
	if a.modified {
		next = StateModify
	}
	a.transition(out, trigger, hookActive, next, func(error) {
		if a.modified {
			a.modified = false
			a.manager.markDirty(a)
		}
		a.deliverReplayBuffer(out)
	})
}

func (a *actorCell) deliverReplayBuffer(out *outbox) {
	buffered := a.replayBuffer
	a.replayBuffer = nil
	a.held.Sub(int64(len(buffered)))
	for _, m := range buffered {
		a.dispatch(m, out)
	}
}

func (a *actorCell) invoke(m *Message, out *outbox) {
	method, ok := a.methods[m.method]
	if !ok {
		err := fmt.Errorf("%w: %s.%s", errors.ErrMethodNotFound, a.name, m.method)
		a.logger.Warn(err)
		m.complete(nil, err)
		return
	}

	ctx := newContext(a, m, out, false)
	var result any
	err := a.safely(func() (err error) {
		result, err = method(ctx)
		return err
	})
	a.processed.Inc()

	switch m.kind {
	case kindSend:
		if err != nil {
			a.logger.Warnf("%s.%s failed: %v", a.name, m.method, err)
		}
	case kindPipe:
		if err == nil {
			err = ctx.Send(m.pipeTarget, m.pipeMethod, result)
		}
	}
	m.complete(result, err)
}

func (a *actorCell) replay(m *Message, out *outbox) {
	ctx := newContext(a, m, out, true)
	err := a.safely(func() error {
		if replayer, ok := a.bean.(Replayer); ok {
			return replayer.OnReplay(ctx, m.entry)
		}
		method, ok := a.methods[m.method]
		if !ok {
			return fmt.Errorf("%w: %s.%s", errors.ErrMethodNotFound, a.name, m.method)
		}
		_, err := method(ctx)
		return err
	})
	if err != nil {
		a.logger.Warnf("%s: failed to replay entry %d: %v", a.name, m.entry.Sequence, err)
	}
	a.processed.Inc()
}

// save runs the save hook of a modified actor then checkpoints the journal
func (a *actorCell) save(out *outbox, m *Message) {
	a.transition(out, nil, hookSave, StateActive, func(error) {
		m.complete(nil, a.checkpoint(m))
	})
}

// checkpoint discards the journal entries written before the save message
func (a *actorCell) checkpoint(m *Message) error {
	if a.journal == nil {
		return nil
	}
	defer a.saveRequested.Store(false)

	if m.entry == nil || m.mark <= a.checkpointed.Load() {
		return nil
	}
	if err := a.writer.Flush(a.ctx); err != nil {
		return fmt.Errorf("failed to flush the journal of %s: %w", a.name, err)
	}
	// the entry never made it to the journal
	if m.entry.Sequence == 0 {
		return nil
	}
	if err := a.journal.Checkpoint(a.ctx, m.entry.Sequence); err != nil {
		return fmt.Errorf("failed to checkpoint the journal of %s: %w", a.name, err)
	}
	a.checkpointed.Store(m.mark)
	return nil
}

func (a *actorCell) startReplayFeed() {
	a.feedOnce.Do(func() {
		if a.ctx.Err() != nil {
			return
		}
		a.wg.Add(1)
		go a.feed()
	})
}

// feed offers the journal entries to the actor, followed by the replay end
func (a *actorCell) feed() {
	defer a.wg.Done()

	replayed := 0
	for entry, err := range a.journal.Replay(a.ctx) {
		if err != nil {
			if a.ctx.Err() == nil {
				a.logger.Errorf("%s: replay stopped after %d entries: %v", a.name, replayed, err)
			}
			break
		}
		// entries past the bound were appended by live messages, which the
		// replay buffer delivers
		if entry.Sequence > a.replayUntil {
			break
		}
		m := newMessage(a.ctx, kindReplay, entry.Method, entry.Headers, entry.Args)
		m.entry = entry
		m.sequence = entry.Sequence
		if !a.offerInternal(m) {
			return
		}
		replayed++
	}
	a.logger.Debugf("%s: replayed %d entries", a.name, replayed)
	a.offerInternal(&Message{kind: kindReplayEnd})
}

// inbox is the outbox target of an actor. A message its queue cannot take
// before the timeout goes to the actor's QueueFullHandler.
type inbox struct {
	actor *actorCell
}

var _ disruptor.Target[*Message] = inbox{}

func (i inbox) Offer(m *Message, timeout time.Duration) bool {
	a := i.actor
	if a.svc.Offer(m, timeout) {
		return true
	}
	// sends to a closed actor have no effect
	if a.svc.IsClosed() {
		return true
	}
	return a.fullHandler.OnQueueFull(a.ref, m, timeout) == nil
}

func (i inbox) Wake() {
	i.actor.svc.Wake()
}

func (i inbox) RunOne(m *Message) bool {
	return i.actor.svc.RunOne(m)
}

// submit offers a producer message
func (a *actorCell) submit(m *Message, timeout time.Duration) error {
	if timeout < 0 {
		return errors.ErrInvalidTimeout
	}
	if a.svc.IsClosed() || a.state().IsTerminal() {
		return a.closed(m)
	}

	m.sequence = a.sequence.Inc()
	if a.svc.Offer(m, timeout) {
		a.svc.Wake()
		return nil
	}
	if a.svc.IsClosed() {
		return a.closed(m)
	}
	return a.fullHandler.OnQueueFull(a.ref, m, timeout)
}

// offerInternal offers a runtime message, retrying until it is accepted or
// the actor is gone
func (a *actorCell) offerInternal(m *Message) bool {
	for a.ctx.Err() == nil && !a.svc.IsClosed() {
		if a.svc.Offer(m, internalOfferTimeout) {
			a.svc.Wake()
			return true
		}
	}
	return false
}

// requestSave asks the actor to save and waits for the outcome
func (a *actorCell) requestSave(ctx context.Context) error {
	done := make(chan error, 1)
	m := newMessage(ctx, kindSave, "", nil, nil)
	m.reply = func(_ any, err error) {
		done <- err
	}
	if !a.offerInternal(m) {
		return nil
	}

	select {
	case err := <-done:
		if stderrors.Is(err, errors.ErrServiceClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// closed returns the outcome of a message sent to a destroyed actor:
// sends have no effect, every other call fails
func (a *actorCell) closed(m *Message) error {
	if !m.ExpectsReply() {
		return nil
	}
	return fmt.Errorf("%w: actor %s", errors.ErrServiceClosed, a.name)
}

func (a *actorCell) reject(m *Message) {
	if m.ExpectsReply() {
		m.complete(nil, fmt.Errorf("%w: actor %s", errors.ErrServiceClosed, a.name))
	}
}

// safely runs fn turning a panic into an error
func (a *actorCell) safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Recovered(r)
		}
	}()
	return fn()
}
