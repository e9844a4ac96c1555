// Automod component for recording private moderation flags on a subject.
//
// Flags are add-only: once a subject is flagged it stays flagged for the lifetime of the store. This is what makes the repost escalation ledger monotonic.
package flagstore

import (
	"context"
)

type FlagStore interface {
	Get(ctx context.Context, key string) ([]string, error)
	Add(ctx context.Context, key string, flags []string) error
}

// Helper to check for a single flag on a subject.
func HasFlag(ctx context.Context, fs FlagStore, key, flag string) (bool, error) {
	l, err := fs.Get(ctx, key)
	if err != nil {
		return false, err
	}
	for _, f := range l {
		if f == flag {
			return true, nil
		}
	}
	return false, nil
}
