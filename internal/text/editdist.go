package text

// Distancer computes bounded Levenshtein distances using two reusable rolling
// rows. The rows grow to the largest row size requested and are never shrunk.
// A Distancer is not safe for concurrent use; each engine owns its own.
type Distancer struct {
	prev []int
	cur  []int
}

// Distance returns the Levenshtein distance between a and b if it is at most
// maxDist, or maxDist+1 when the true distance exceeds the bound. Insertions,
// deletions and substitutions all cost 1.
func (d *Distancer) Distance(a, b string, maxDist int) int {
	if a == b {
		return 0
	}

	la, lb := len(a), len(b)
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDist {
		return maxDist + 1
	}
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	d.grow(lb + 1)
	prev, cur := d.prev, d.cur

	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			v := prev[j-1] + cost
			if del := prev[j] + 1; del < v {
				v = del
			}
			if ins := cur[j-1] + 1; ins < v {
				v = ins
			}
			cur[j] = v
			if v < rowMin {
				rowMin = v
			}
		}
		// Costs never decrease between rows, so a row whose minimum already
		// exceeds the bound cannot lead back inside it.
		if rowMin > maxDist {
			return maxDist + 1
		}
		prev, cur = cur, prev
	}

	d.prev, d.cur = prev, cur

	if prev[lb] > maxDist {
		return maxDist + 1
	}
	return prev[lb]
}

func (d *Distancer) grow(n int) {
	if cap(d.prev) < n {
		d.prev = make([]int, n)
		d.cur = make([]int, n)
	} else {
		d.prev = d.prev[:n]
		d.cur = d.cur[:n]
	}
}
