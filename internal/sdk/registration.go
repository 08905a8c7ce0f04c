package sdk

// Registration is a handle for one installed native callback.
type Registration interface {
	// Revoke removes the native callback. Revoking twice is a no-op.
	Revoke()
	// Revocable reports whether Revoke actually detaches anything.
	Revocable() bool
}

// RevocableRegistration wraps a revoke function as a Registration.
type RevocableRegistration struct {
	revoke func()
}

func NewRevocable(revoke func()) *RevocableRegistration {
	return &RevocableRegistration{revoke: revoke}
}

func (r *RevocableRegistration) Revoke() {
	if r.revoke != nil {
		r.revoke()
		r.revoke = nil
	}
}

func (r *RevocableRegistration) Revocable() bool { return true }

// PermanentRegistration represents a callback the SDK keeps for the process
// lifetime. Log handlers are the known case: once installed there is no
// removal API, so Revoke only drops our side of the reference.
type PermanentRegistration struct{}

func (PermanentRegistration) Revoke()         {}
func (PermanentRegistration) Revocable() bool { return false }
