package session

import "math"

// dtwCost computes the dynamic-time-warping alignment cost between two
// 2-D point sequences, with Euclidean local distances. This is the same
// alignment cost reported by classic DTW implementations: the square
// root of the summed squared distances along the cheapest monotonic
// alignment path. Returns 0 when either sequence is empty.
func dtwCost(a, b [][2]float64) float64 {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0
	}

	// acc[i][j] is the cheapest accumulated squared cost aligning
	// a[:i+1] with b[:j+1].
	acc := make([][]float64, n)
	for i := range acc {
		acc[i] = make([]float64, m)
	}
	acc[0][0] = sqDist(a[0], b[0])
	for i := 1; i < n; i++ {
		acc[i][0] = acc[i-1][0] + sqDist(a[i], b[0])
	}
	for j := 1; j < m; j++ {
		acc[0][j] = acc[0][j-1] + sqDist(a[0], b[j])
	}
	for i := 1; i < n; i++ {
		for j := 1; j < m; j++ {
			best := acc[i-1][j-1]
			if acc[i-1][j] < best {
				best = acc[i-1][j]
			}
			if acc[i][j-1] < best {
				best = acc[i][j-1]
			}
			acc[i][j] = best + sqDist(a[i], b[j])
		}
	}
	return math.Sqrt(acc[n-1][m-1])
}

func sqDist(p, q [2]float64) float64 {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	return dx*dx + dy*dy
}
