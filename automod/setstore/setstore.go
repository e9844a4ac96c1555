package setstore

import (
	"context"
	"encoding/json"
	"io"
	"os"
)

type SetStore interface {
	InSet(ctx context.Context, name, val string) (bool, error)
}

// In-process set store. Sets are loaded once at startup and only read afterwards, so no locking is done.
type MemSetStore struct {
	Sets map[string]map[string]bool
}

func NewMemSetStore() MemSetStore {
	return MemSetStore{
		Sets: make(map[string]map[string]bool),
	}
}

func (s MemSetStore) InSet(ctx context.Context, name, val string) (bool, error) {
	set, ok := s.Sets[name]
	if !ok {
		// NOTE: currently returns false when entire set isn't found
		return false, nil
	}
	_, ok = set[val]
	return ok, nil
}

// Adds values to the named set, creating the set if needed. Intended for startup configuration and tests.
func (s MemSetStore) Insert(name string, vals ...string) {
	set, ok := s.Sets[name]
	if !ok {
		set = make(map[string]bool, len(vals))
		s.Sets[name] = set
	}
	for _, v := range vals {
		set[v] = true
	}
}

// Loads sets from a JSON file: an object mapping set names to arrays of string values.
func (s *MemSetStore) LoadFromFileJSON(p string) error {

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var sets map[string][]string
	if err := json.Unmarshal(raw, &sets); err != nil {
		return err
	}

	for name, l := range sets {
		m := make(map[string]bool, len(l))
		for _, val := range l {
			m[val] = true
		}
		s.Sets[name] = m
	}
	return nil
}
