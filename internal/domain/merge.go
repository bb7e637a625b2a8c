package domain

// Merge combines two logs into their deduplicated union, newest first.
//
// Records are identified by (timestamp, text). Local records are taken
// first, so when both sides carry the same key the local copy is kept.
// Neither input is modified.
func Merge(local, remote HistoryLog) HistoryLog {
	seen := make(map[RecordKey]struct{}, len(local)+len(remote))
	merged := make(HistoryLog, 0, len(local)+len(remote))

	for _, log := range []HistoryLog{local, remote} {
		for _, rec := range log {
			key := rec.Key()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, rec)
		}
	}

	return merged.Sorted()
}

// MergeStats describes how a merge changed the local log
type MergeStats struct {
	Local  int // records in the local log before the merge
	Remote int // records in the remote log
	Added  int // records present only remotely
	Total  int // records after the merge
}

// MergeWithStats merges like Merge and reports what the remote side contributed
func MergeWithStats(local, remote HistoryLog) (HistoryLog, MergeStats) {
	merged := Merge(local, remote)
	localKeys := local.Keys()
	return merged, MergeStats{
		Local:  len(local),
		Remote: len(remote),
		Added:  len(merged) - len(localKeys),
		Total:  len(merged),
	}
}
