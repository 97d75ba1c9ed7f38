package ports

import "context"

// AccountPort updates account profiles on the backing platform.
type AccountPort interface {
	// UpdateProfile applies username and display name to the given account.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
