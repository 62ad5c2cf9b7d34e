package bootstrap

// State names a position in the linear bootstrap sequence. The sequence
// never branches back; the only side exits are Fatal (reachable from any
// state) and EarlyExit (help, version, queue removal -- reachable only
// while parsing).
type State int

const (
	StateParsing State = iota
	StateValidated
	StatePrivilegeResolved
	StateLimitsSet
	StateChannelReady
	StateHandedOff
	StateFatal
	StateEarlyExit
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateParsing:
		return "PARSING"
	case StateValidated:
		return "VALIDATED"
	case StatePrivilegeResolved:
		return "PRIVILEGE_RESOLVED"
	case StateLimitsSet:
		return "LIMITS_SET"
	case StateChannelReady:
		return "CHANNEL_READY"
	case StateHandedOff:
		return "HANDED_OFF"
	case StateFatal:
		return "FATAL"
	case StateEarlyExit:
		return "EARLY_EXIT"
	}
	return "UNKNOWN"
}
