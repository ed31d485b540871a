package session

import "context"

// Directory is the persistent identity directory: student ID to display
// name and last-known network address.
type Directory interface {
	// Lookup returns the stored identity for studentID, or nil when unknown.
	Lookup(ctx context.Context, studentID string) (*UserSession, error)
	// Upsert records or refreshes the identity's display name and address.
	Upsert(ctx context.Context, u UserSession) error
	// ListAll returns every known identity, for cold-start roster
	// reconstruction.
	ListAll(ctx context.Context) ([]UserSession, error)
}
