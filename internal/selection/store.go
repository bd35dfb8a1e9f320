package selection

import (
	"context"

	"github.com/lcorp/storefront/pkg/kvstore"
)

// State is the persisted selection plus the cart snapshot it was last
// reconciled against.
type State struct {
	Selected []int
	Observed []int
}

// Load reads the persisted state. Missing or corrupt keys read as empty.
func Load(ctx context.Context, store kvstore.Store, sessionID string) (State, error) {
	state := State{Selected: []int{}, Observed: []int{}}
	if _, err := kvstore.LoadJSON(ctx, store, sessionID, kvstore.KeyCartSelectedItems, &state.Selected); err != nil {
		return state, err
	}
	if _, err := kvstore.LoadJSON(ctx, store, sessionID, kvstore.KeyCartObservedIDs, &state.Observed); err != nil {
		return state, err
	}
	if state.Selected == nil {
		state.Selected = []int{}
	}
	if state.Observed == nil {
		state.Observed = []int{}
	}
	return state, nil
}

// Save writes both the selection and the observed snapshot.
func Save(ctx context.Context, store kvstore.Store, sessionID string, state State) error {
	if err := kvstore.SaveJSON(ctx, store, sessionID, kvstore.KeyCartSelectedItems, nonNil(state.Selected)); err != nil {
		return err
	}
	return kvstore.SaveJSON(ctx, store, sessionID, kvstore.KeyCartObservedIDs, nonNil(state.Observed))
}

// Sync runs one reconciliation pass against currentIDs and persists the result.
func Sync(ctx context.Context, store kvstore.Store, sessionID string, currentIDs []int) (State, error) {
	state, err := Load(ctx, store, sessionID)
	if err != nil {
		return state, err
	}
	next := State{
		Selected: Reconcile(state.Observed, currentIDs, state.Selected),
		Observed: nonNil(append([]int(nil), currentIDs...)),
	}
	return next, Save(ctx, store, sessionID, next)
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
