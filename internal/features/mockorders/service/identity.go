package service

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

// CreatedUser is a test-user profile created during a run, carried so later
// phases (orders, RSVPs, interests) can reference it.
type CreatedUser struct {
	// ID is the store-assigned profile id.
	ID string
	// Email is the synthetic address of the test user.
	Email string
	// DisplayName is the synthetic display name.
	DisplayName string
}

// syntheticIdentity produces a fake name and a recognizable email for a run.
// The run tag keeps generated rows easy to spot (and bulk-delete) in shared
// environments.
func syntheticIdentity(runID string, n int) (name, email string) {
	name = gofakeit.Name()
	user := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	email = fmt.Sprintf("%s+%s.%d@loadtest.local", user, runTag(runID), n)
	return name, email
}

// runTag shortens a run id to the prefix embedded in synthetic emails.
func runTag(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
