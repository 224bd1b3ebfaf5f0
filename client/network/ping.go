package network

import (
	"sort"
	"sync"
)

// maxRecentRTTs is the number of round trips the ping estimate is based on.
const maxRecentRTTs = 10

// rttTracker estimates the ping from recent round trip times in milliseconds.
type rttTracker struct {
	lock   sync.Mutex
	recent []int64
}

func (t *rttTracker) add(rtt int64) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.recent = append(t.recent, rtt)
	if len(t.recent) > maxRecentRTTs {
		t.recent = t.recent[len(t.recent)-maxRecentRTTs:]
	}
}

// ping returns the mean of the recent round trips after outliers are dropped.
func (t *rttTracker) ping() float64 {
	t.lock.Lock()
	defer t.lock.Unlock()
	kept := withoutOutliers(t.recent)
	if len(kept) == 0 {
		return 0
	}
	var sum int64
	for _, rtt := range kept {
		sum += rtt
	}
	return float64(sum) / float64(len(kept))
}

// withoutOutliers drops round trips that are more than twice the median and
// above 20ms.
func withoutOutliers(rtts []int64) []int64 {
	median := medianRTT(rtts)
	result := make([]int64, 0, len(rtts))
	for _, rtt := range rtts {
		if rtt > 2*median && rtt > 20 {
			continue
		}
		result = append(result, rtt)
	}
	return result
}

func medianRTT(rtts []int64) int64 {
	if len(rtts) == 0 {
		return 0
	}
	sorted := make([]int64, len(rtts))
	copy(sorted, rtts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if len(sorted)%2 == 0 {
		return (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}
	return sorted[len(sorted)/2]
}
