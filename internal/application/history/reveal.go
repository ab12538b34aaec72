package history

import "time"

// BoundaryVisible handles the sentinel below the last revealed row scrolling into view.
// When rows remain hidden it schedules one RevealMore after the settle delay; triggers
// arriving while a reveal is pending are folded into it. It reports whether a reveal is pending.
func (h *HistoryViewModel) BoundaryVisible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.revealed >= len(h.all) {
		return false
	}
	if h.revealTimer != nil {
		return true
	}

	h.revealSeq++
	seq, gen := h.revealSeq, h.generation
	h.revealTimer = time.AfterFunc(h.cfg.RevealDelay, func() {
		h.revealAfterSettle(seq, gen)
	})
	return true
}

func (h *HistoryViewModel) revealAfterSettle(seq, gen uint64) {
	h.mu.Lock()
	if seq != h.revealSeq || h.revealTimer == nil {
		// stopped or replaced after the timer fired
		h.mu.Unlock()
		return
	}
	h.revealTimer = nil
	if gen != h.generation {
		h.mu.Unlock()
		return
	}
	_, changed := h.revealMoreLocked()
	h.mu.Unlock()

	if changed {
		h.fireChange()
	}
}

// RevealPending reports whether a settle-delayed reveal is scheduled
func (h *HistoryViewModel) RevealPending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revealTimer != nil
}

func (h *HistoryViewModel) stopRevealTimerLocked() {
	if h.revealTimer != nil {
		h.revealTimer.Stop()
		h.revealTimer = nil
	}
}
