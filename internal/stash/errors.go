package stash

import (
	"fmt"
	"strings"
)

// CreateError reports a performer create that collided with an existing
// record the caller has not seen, typically because another writer created it
// mid-run.
type CreateError struct {
	Name    string
	Message string
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create performer %q: %s", e.Name, e.Message)
}

// isCollisionMessage recognizes the server-side duplicate-name failures Stash
// returns for performer creates.
func isCollisionMessage(message string) bool {
	lowered := strings.ToLower(message)
	return strings.Contains(lowered, "already exists") ||
		strings.Contains(lowered, "duplicate") ||
		strings.Contains(lowered, "unique constraint")
}
