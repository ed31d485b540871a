package draft

// Lock is the single-writer edit gate: free, or held by exactly one
// student ID. Not safe for concurrent use; the coordinator serializes
// all access.
type Lock struct {
	holder string
}

// Acquire grants the lock to requester if free. When already held it
// returns false and the current holder so the requester can be told who
// is editing.
func (l *Lock) Acquire(requester string) (granted bool, holder string) {
	if l.holder != "" {
		return false, l.holder
	}
	l.holder = requester
	return true, requester
}

// Release frees the lock unconditionally.
func (l *Lock) Release() {
	l.holder = ""
}

// Held reports whether anyone holds the lock.
func (l *Lock) Held() bool {
	return l.holder != ""
}

// Holder returns the current holder's student ID, empty when free.
func (l *Lock) Holder() string {
	return l.holder
}

// HeldBy reports whether studentID is the current holder.
func (l *Lock) HeldBy(studentID string) bool {
	return l.holder != "" && l.holder == studentID
}
