package domain

type identityState uint8

const (
	stateUnassigned identityState = iota
	stateNoIdentityFromShape
	stateNamed
)

// Identity is the name of a domain, or one of two sentinels:
// Unassigned for domains nobody named yet, and NoIdentityFromShape for
// domains resolved from a shape that carried no name. A sentinel may be
// upgraded to a name exactly once.
type Identity struct {
	state identityState
	name  string
}

// Identity sentinels.
var (
	Unassigned          = Identity{state: stateUnassigned}
	NoIdentityFromShape = Identity{state: stateNoIdentityFromShape}
)

// Named returns an assigned identity.
func Named(name string) Identity {
	return Identity{state: stateNamed, name: name}
}

// Name returns the assigned name.
func (i Identity) Name() (string, bool) {
	return i.name, i.state == stateNamed
}

// IsSentinel reports if the identity is not a name.
func (i Identity) IsSentinel() bool {
	return i.state != stateNamed
}

// String returns the name or the sentinel description.
func (i Identity) String() string {
	switch i.state {
	case stateNamed:
		return i.name
	case stateNoIdentityFromShape:
		return "no identity from shape"
	default:
		return "unassigned"
	}
}
