package character

import "context"

// Reader provides read-only access to character and crew state.
type Reader interface {
	Sheet(ctx context.Context, userID string) (*Sheet, error)
	Crew(ctx context.Context, crewID string) (*Crew, error)
}
