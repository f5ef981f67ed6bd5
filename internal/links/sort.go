package links

import (
	"cmp"
	"slices"
	"strings"
)

// SortForLane orders by descending priority then ascending title. The sort is
// stable so equal keys keep document order.
func SortForLane(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})
}

// SortForFeed orders by descending priority then most recent AddedAt first.
func SortForFeed(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return b.AddedAt.Compare(a.AddedAt)
	})
}

// Partition groups entries into the rendered lanes, each sorted with SortForLane.
// Entries in unknown lanes are left out. Every rendered lane has a (possibly empty) slice.
func Partition(entries []Entry) map[Lane][]Entry {
	lanes := make(map[Lane][]Entry, len(Lanes))
	for _, def := range Lanes {
		lanes[def.Key] = []Entry{}
	}
	for _, e := range entries {
		if bucket, ok := lanes[e.Lane]; ok {
			lanes[e.Lane] = append(bucket, e)
		}
	}
	for key := range lanes {
		SortForLane(lanes[key])
	}
	return lanes
}
