package query

import (
	"context"
	"encoding/json"
	"fmt"
)

// Decode unmarshals a state's data. ok is false when there is no data.
func Decode[T any](s State) (T, bool, error) {
	var v T
	if s.Data == nil {
		return v, false, nil
	}
	if err := json.Unmarshal(s.Data, &v); err != nil {
		return v, false, fmt.Errorf("decode %s: %w", s.Key, err)
	}
	return v, true, nil
}

// Get fetches q (see Cache.Fetch) and decodes the result.
// When stale data is returned alongside an error, both are returned.
func Get[T any](ctx context.Context, c *Cache, q Query) (T, State, error) {
	state, err := c.Fetch(ctx, q)
	v, ok, decErr := Decode[T](state)
	if decErr != nil {
		return v, state, decErr
	}
	if err != nil {
		return v, state, err
	}
	if !ok && !q.Disabled && state.Err != nil {
		return v, state, state.Err
	}
	return v, state, nil
}

// Peek decodes whatever is cached for key without fetching.
func Peek[T any](c *Cache, key Key) (T, bool) {
	v, ok, err := Decode[T](c.State(key))
	if err != nil {
		return v, false
	}
	return v, ok
}
