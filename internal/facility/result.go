package facility

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrResultSealed = errors.New("scan result is sealed")

// Entry is the availability of one facility.
type Entry struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ScanResult maps facility names to availability, keeping the order in which
// facilities were checked. It is append-only until Seal is called.
type ScanResult struct {
	entries []Entry
	index   map[string]int
	sealed  bool
}

// NewScanResult creates an empty result.
func NewScanResult() *ScanResult {
	return &ScanResult{index: make(map[string]int)}
}

// Record appends the availability for name.
func (r *ScanResult) Record(name string, available bool) error {
	if r.sealed {
		return ErrResultSealed
	}
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("facility %q already recorded", name)
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Available: available})
	return nil
}

// Seal freezes the result.
func (r *ScanResult) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *ScanResult) Sealed() bool {
	return r.sealed
}

// Entries returns a copy of the entries in check order.
func (r *ScanResult) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Available returns the availability recorded for name.
func (r *ScanResult) Available(name string) (available, ok bool) {
	i, ok := r.index[name]
	if !ok {
		return false, false
	}
	return r.entries[i].Available, true
}

// AnyAvailable reports whether at least one facility has an open slot.
func (r *ScanResult) AnyAvailable() bool {
	for _, e := range r.entries {
		if e.Available {
			return true
		}
	}
	return false
}

// Len returns the number of recorded facilities.
func (r *ScanResult) Len() int {
	return len(r.entries)
}

// MarshalJSON renders the entries as an ordered array.
func (r *ScanResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Entries())
}
