package reconcile

import "sort"

// Summarize counts the statuses of one reconciliation pass.
func Summarize(statuses map[string]DriverStatus) Summary {
	s := Summary{Total: len(statuses)}
	for _, st := range statuses {
		switch st.Status {
		case StatusOK:
			s.OK++
		case StatusOutdated:
			s.Outdated++
		case StatusMissing:
			s.Missing++
		default:
			s.Unknown++
		}
		if st.UpdateAvailable {
			s.UpdatesAvailable++
		}
	}
	return s
}

// NeedingUpdate returns the sorted IDs of devices flagged with an available update.
func NeedingUpdate(statuses map[string]DriverStatus) []string {
	ids := make([]string, 0)
	for id, st := range statuses {
		if st.UpdateAvailable {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Changed returns the sorted IDs whose status differs between two passes,
// including devices present in only one of them.
func Changed(prev, next map[string]DriverStatus) []string {
	ids := make([]string, 0)
	for id, st := range next {
		if old, ok := prev[id]; !ok || old != st {
			ids = append(ids, id)
		}
	}
	for id := range prev {
		if _, ok := next[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
