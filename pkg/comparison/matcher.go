package comparison

import "sort"

// matchByName builds name-keyed maps for two collections of the same entity
// kind and partitions the key space into added (present only in the second),
// removed (present only in the first) and common. Keys match exactly and
// case-sensitively. All three slices come back sorted so repeated runs of
// the engine produce structurally identical output.
func matchByName[T any](first, second []T, name func(T) string) (added, removed, common []string, firstByName, secondByName map[string]T) {
	firstByName = make(map[string]T, len(first))
	for _, item := range first {
		firstByName[name(item)] = item
	}
	secondByName = make(map[string]T, len(second))
	for _, item := range second {
		secondByName[name(item)] = item
	}

	for key := range secondByName {
		if _, exists := firstByName[key]; !exists {
			added = append(added, key)
		}
	}
	for key := range firstByName {
		if _, exists := secondByName[key]; exists {
			common = append(common, key)
		} else {
			removed = append(removed, key)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(common)
	return added, removed, common, firstByName, secondByName
}

// unionKeys returns the sorted union of the key sets of both maps.
func unionKeys[T any](first, second map[string]T) []string {
	keys := make([]string, 0, len(first)+len(second))
	for key := range first {
		keys = append(keys, key)
	}
	for key := range second {
		if _, exists := first[key]; !exists {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// equalStringSlices compares two string slices for equality, order-sensitive.
func equalStringSlices(first, second []string) bool {
	if len(first) != len(second) {
		return false
	}
	for i, v := range first {
		if v != second[i] {
			return false
		}
	}
	return true
}
