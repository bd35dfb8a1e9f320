// Package selection tracks which cart products are ticked for checkout.
package selection

// Reconcile re-derives the selection after the cart changed from prevIDs to
// currentIDs. Ids that newly appeared are selected; selected ids no longer in
// the cart are dropped. The result keeps the order of the existing selection,
// followed by new ids in cart order. The caller stores currentIDs as the next
// prevIDs.
func Reconcile(prevIDs, currentIDs, selected []int) []int {
	prev := toSet(prevIDs)
	current := toSet(currentIDs)

	out := make([]int, 0, len(currentIDs))
	seen := make(map[int]struct{}, len(currentIDs))
	for _, id := range selected {
		if _, ok := current[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range currentIDs {
		if _, existed := prev[id]; existed {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Toggle flips one id in or out of the selection.
func Toggle(selected []int, id int) []int {
	out := make([]int, 0, len(selected)+1)
	found := false
	for _, existing := range selected {
		if existing == id {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, id)
	}
	return out
}

// ToggleSelectAll selects every cart id unless all are already selected, in
// which case the selection is emptied.
func ToggleSelectAll(selected, currentIDs []int) []int {
	if AllSelected(selected, currentIDs) {
		return []int{}
	}
	out := make([]int, len(currentIDs))
	copy(out, currentIDs)
	return out
}

// AllSelected reports whether every cart id is selected. An empty cart is
// never "all selected".
func AllSelected(selected, currentIDs []int) bool {
	if len(currentIDs) == 0 {
		return false
	}
	set := toSet(selected)
	for _, id := range currentIDs {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}

// Contains reports whether id is selected.
func Contains(selected []int, id int) bool {
	for _, existing := range selected {
		if existing == id {
			return true
		}
	}
	return false
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
