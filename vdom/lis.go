package vdom

// lis returns the positions of a longest strictly increasing subsequence of
// seq, ignoring negative entries. Positions are returned in increasing order.
func lis(seq []int) []int {
	prev := make([]int, len(seq))

	// tails[k] is the position of the smallest tail of an increasing
	// subsequence of length k+1
	tails := make([]int, 0, len(seq))

	for i, v := range seq {
		if v < 0 {
			continue
		}

		lo, hi := 0, len(tails)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}

		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}

		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	result := make([]int, len(tails))
	if len(tails) == 0 {
		return result
	}

	k := tails[len(tails)-1]
	for i := len(result) - 1; i >= 0; i-- {
		result[i] = k
		k = prev[k]
	}

	return result
}
