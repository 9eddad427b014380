// Package orderstat provides in-place selection and partition primitives
// used by the divide-and-conquer hypervolume algorithm.
//
// All functions reorder their argument in place and return positions into
// it. Nothing is allocated.
package orderstat

import "cmp"

// Rand is the random source consumed by PartialShuffle.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// MedianElement partially orders s so that the element at index len(s)/2
// is not smaller than any element before it and not larger than any
// element after it. It returns that index. An empty slice returns 0.
//
// Counting positions from one, the index is (n+1)/2 for odd n. For even n
// it is n/2+1, the upper of the two middle elements, not the lower one
// that integer (n+1)/2 would give. A single element is its own median at
// index 0.
//
// Expected running time is linear in len(s).
func MedianElement[T cmp.Ordered](s []T) int {
	k := len(s) / 2
	if len(s) < 2 {
		return k
	}
	selectNth(s, k)
	return k
}

// PartitionEqually reorders s into two contiguous parts, every element of
// s[:i] strictly smaller than every element of s[i:], with the parts as
// close to equal size as the multiplicity of the median allows. It returns
// the split index i.
//
// The left part is never empty. When all elements are equal no split
// exists and len(s) is returned. Runs in linear time: one selection, then
// two partition passes around the median.
func PartitionEqually[T cmp.Ordered](s []T) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	k := MedianElement(s)
	m := s[k]

	// s[:left] < m, s[left:k] == m
	left := partition(s[:k], func(v T) bool { return v < m })
	// s[k:right] == m, s[right:] > m
	right := k + partition(s[k:], func(v T) bool { return v == m })

	if left == 0 {
		return right
	}
	if k-left <= right-k {
		return left
	}
	return right
}

// PartialShuffle permutes s so that s[:middle] is a uniformly random
// ordered sample of the original elements. Elements past middle are left
// in an unspecified order.
func PartialShuffle[T any](s []T, middle int, rng Rand) {
	n := len(s)
	if middle > n {
		middle = n
	}
	for i := 0; i < middle; i++ {
		j := i + rng.Intn(n-i)
		s[i], s[j] = s[j], s[i]
	}
}

// partition moves the elements satisfying pred to the front of s and
// returns their count. Order is not preserved.
func partition[T any](s []T, pred func(T) bool) int {
	i := 0
	for j := range s {
		if pred(s[j]) {
			s[i], s[j] = s[j], s[i]
			i++
		}
	}
	return i
}

// selectNth is Hoare's quickselect with a median-of-three pivot.
func selectNth[T cmp.Ordered](s []T, k int) {
	lo, hi := 0, len(s)-1
	for hi > lo {
		if hi-lo < 12 {
			insertionSort(s[lo : hi+1])
			return
		}
		p := medianOfThree(s, lo, lo+(hi-lo)/2, hi)
		i, j := threeWay(s, lo, hi, p)
		switch {
		case k < i:
			hi = i - 1
		case k > j:
			lo = j + 1
		default:
			return
		}
	}
}

// threeWay partitions s[lo:hi+1] into < p, == p, > p and returns the
// bounds [i, j] of the equal block.
func threeWay[T cmp.Ordered](s []T, lo, hi int, p T) (int, int) {
	lt, i, gt := lo, lo, hi
	for i <= gt {
		switch {
		case s[i] < p:
			s[lt], s[i] = s[i], s[lt]
			lt++
			i++
		case s[i] > p:
			s[i], s[gt] = s[gt], s[i]
			gt--
		default:
			i++
		}
	}
	return lt, gt
}

func medianOfThree[T cmp.Ordered](s []T, a, b, c int) T {
	x, y, z := s[a], s[b], s[c]
	if x > y {
		x, y = y, x
	}
	if y > z {
		y = z
	}
	if x > y {
		return x
	}
	return y
}

func insertionSort[T cmp.Ordered](s []T) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
