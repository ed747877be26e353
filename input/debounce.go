package input

// Debouncer reports a line's state only after it has read the same raw
// value for a run of consecutive samples.
type Debouncer struct {
	samples int
	instant bool // presses pass at once, only releases are debounced
	stable  bool
	pending bool
	count   int
}

// NewDebouncer returns a debouncer requiring samples identical reads. Values
// below 1 report every change immediately.
func NewDebouncer(samples int) Debouncer {
	if samples < 1 {
		samples = 1
	}
	return Debouncer{samples: samples}
}

// NewStopDebouncer returns a debouncer for a safety stop line. A press is
// reported on the first sample; a release still needs samples identical
// reads.
func NewStopDebouncer(samples int) Debouncer {
	d := NewDebouncer(samples)
	d.instant = true
	return d
}

// Update feeds one raw sample and returns the debounced state.
func (d *Debouncer) Update(raw bool) bool {
	if raw && d.instant {
		d.stable = true
		d.count = 0
		return true
	}
	if raw == d.stable {
		d.count = 0
		return d.stable
	}
	if raw != d.pending || d.count == 0 {
		d.pending = raw
		d.count = 0
	}
	d.count++
	if d.count >= d.samples {
		d.stable = raw
		d.count = 0
	}
	return d.stable
}

// State returns the debounced state without sampling.
func (d *Debouncer) State() bool {
	return d.stable
}
