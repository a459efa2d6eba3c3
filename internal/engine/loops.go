package engine

import "time"

// The two periodic activities. Each is an explicit cancellable goroutine
// that also self-terminates the moment the transport state no longer
// justifies it, so a missed cancel can never leave a loop running.

func (e *Engine) startFrameLoopLocked() {
	if e.stopFrame != nil {
		return
	}
	stop := make(chan struct{})
	e.stopFrame = stop
	go e.frameLoop(stop)
}

func (e *Engine) startSchedulerLocked() {
	if e.stopSched != nil {
		return
	}
	stop := make(chan struct{})
	e.stopSched = stop
	go e.schedulerLoop(stop)
}

func (e *Engine) stopSchedulerLocked() {
	if e.stopSched != nil {
		close(e.stopSched)
		e.stopSched = nil
	}
}

func (e *Engine) stopLoopsLocked() {
	if e.stopFrame != nil {
		close(e.stopFrame)
		e.stopFrame = nil
	}
	e.stopSchedulerLocked()
}

// frameLoop emits the current time every frame tick while playing, and
// detects natural end of clip.
func (e *Engine) frameLoop(stop chan struct{}) {
	ticker := time.NewTicker(frameTick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.mu.Lock()
			if e.state != StatePlaying {
				e.mu.Unlock()
				return
			}
			now := e.clock.Now() - e.startAnchor
			if now >= e.duration {
				e.finishLocked()
				dur := e.duration
				e.mu.Unlock()
				e.emit(Event{Kind: EventEnded, Time: dur})
				return
			}
			e.mu.Unlock()
			e.emit(Event{Kind: EventTime, Time: now})
		}
	}
}

// finishLocked handles natural end of clip: the only path into StateEnded.
func (e *Engine) finishLocked() {
	e.stopSchedulerLocked()
	if e.stopFrame != nil {
		// frameLoop is the caller; just forget the channel so a later
		// start creates a fresh one.
		close(e.stopFrame)
		e.stopFrame = nil
	}
	e.scheduled = make(map[int]struct{})
	e.out.Stop()
	e.pauseOffset = e.duration
	e.state = StateEnded
}

// schedulerLoop runs the fixed-interval click scheduler: every tick it
// issues a click for each beat inside the lookahead window that is not
// already in the scheduled set, then prunes entries older than the prune
// horizon to bound memory.
func (e *Engine) schedulerLoop(stop chan struct{}) {
	ticker := time.NewTicker(schedulerTick)
	defer ticker.Stop()

	// Immediate first pass so beats inside the first tick interval are not
	// missed when playback starts right before one.
	if !e.schedulePass() {
		return
	}
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !e.schedulePass() {
				return
			}
		}
	}
}

// schedulePass runs one scheduler tick. Returns false when the loop should
// terminate because the transport or flag state no longer justifies it.
func (e *Engine) schedulePass() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePlaying || !e.clickEnabled {
		return false
	}
	if e.beats == nil {
		return true
	}
	now := e.clock.Now() - e.startAnchor
	lo, hi := e.beats.Range(now, now+lookaheadSec)
	for i := lo; i < hi; i++ {
		if _, done := e.scheduled[i]; done {
			continue
		}
		e.scheduled[i] = struct{}{}
		bt := e.beats.At(i)
		e.out.ScheduleClick(bt, e.beats.IsDownbeat(bt))
	}
	for i := range e.scheduled {
		if e.beats.At(i) < now-pruneHorizonSec {
			delete(e.scheduled, i)
		}
	}
	return true
}
