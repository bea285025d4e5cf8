package pager

// DefaultThreshold is how close to the last rendered item, in items, a view
// must get before a load is requested.
const DefaultThreshold = 5

// Trigger decides when a consumer approaching the end of the rendered list
// should load the next page.
//
// A load fires at most once per rendered length: after a load grows the list
// the next crossing is a new event. While a load is in flight (between Begin
// and Done) no further load fires.
type Trigger struct {
	Threshold int

	loading  bool
	firedFor int
}

// NewTrigger creates a trigger with the given threshold.
// A negative threshold selects DefaultThreshold.
func NewTrigger(threshold int) *Trigger {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return &Trigger{Threshold: threshold, firedFor: -1}
}

// Near reports whether observing item index of a rendered list of the given
// length should start a load. hasMore tells whether anything is left to load.
// When it returns true the caller must bracket the load with Begin and Done.
func (t *Trigger) Near(index, rendered int, hasMore bool) bool {
	if !hasMore || t.loading || rendered <= 0 {
		return false
	}
	if index < rendered-1-t.Threshold {
		return false
	}
	return t.firedFor != rendered
}

// Begin marks a load for the given rendered length as in flight.
func (t *Trigger) Begin(rendered int) {
	t.loading = true
	t.firedFor = rendered
}

// Done marks the in-flight load as applied.
func (t *Trigger) Done() {
	t.loading = false
}

// Loading reports whether a load is in flight.
func (t *Trigger) Loading() bool {
	return t.loading
}

// Reset forgets past crossings, for use after the list is replaced.
func (t *Trigger) Reset() {
	t.loading = false
	t.firedFor = -1
}
