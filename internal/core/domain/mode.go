package domain

// Mode is the process-wide rollout stage for RING issuance. It is read once
// from configuration at the start of each operation and threaded through the
// call chain; no operation re-reads it mid-flight, so a mode switch can never
// split one logical decision across two modes.
type Mode string

const (
	// ModeOff disables issuance entirely; nothing is written.
	ModeOff Mode = "off"
	// ModeShadow records would-be earns as pending rewards without touching
	// the legacy balance.
	ModeShadow Mode = "shadow"
	// ModeLive writes ledger entries and updates the legacy balance directly.
	ModeLive Mode = "live"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeOff, ModeShadow, ModeLive:
		return true
	}
	return false
}
