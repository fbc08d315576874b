package activity

import "context"

// Client is the backend REST surface consumed by the board.
type Client interface {
	ListActivities(ctx context.Context) (Catalog, error)
	Signup(ctx context.Context, activityName, email string) (string, error)
	RemoveParticipant(ctx context.Context, activityName, email string) (string, error)
}
