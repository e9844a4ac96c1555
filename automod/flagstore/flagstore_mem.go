package flagstore

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// In-process flag store, safe for concurrent use. Contents are lost on restart.
type MemFlagStore struct {
	Data *xsync.MapOf[string, []string]
}

var _ FlagStore = (*MemFlagStore)(nil)

func NewMemFlagStore() MemFlagStore {
	return MemFlagStore{
		Data: xsync.NewMapOf[string, []string](),
	}
}

func (s MemFlagStore) Get(ctx context.Context, key string) ([]string, error) {
	v, ok := s.Data.Load(key)
	if !ok {
		return []string{}, nil
	}
	out := make([]string, len(v))
	copy(out, v)
	return out, nil
}

func (s MemFlagStore) Add(ctx context.Context, key string, flags []string) error {
	if len(flags) == 0 {
		return nil
	}
	s.Data.Compute(key, func(old []string, loaded bool) ([]string, bool) {
		v := make([]string, 0, len(old)+len(flags))
		v = append(v, old...)
		v = append(v, flags...)
		return dedupeStrings(v), false
	})
	return nil
}

func dedupeStrings(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range in {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}
