// Package bufpool provides bucketed sync.Pool instances for the int16
// coefficient buffers that back IW44 band trees. Adapted from
// github.com/deepteams/webp/internal/pool, which pools raw byte buffers
// by size class; here the pooled unit is int16 coefficients, matching
// spec §5's memory discipline ("coefficient buffers are allocated per
// page and freed when that page's chunks are emitted").
package bufpool

import "sync"

// Size classes, in int16 elements.
const (
	Size1K   = 1024
	Size4K   = 4096
	Size16K  = 16384
	Size64K  = 65536
	Size256K = 262144
	Size1M   = 1048576
)

var sizes = [6]int{Size1K, Size4K, Size16K, Size64K, Size256K, Size1M}

var pools [6]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]int16, sz)
				return &b
			},
		}
	}
}

func bucketIndex(n int) int {
	switch {
	case n <= Size1K:
		return 0
	case n <= Size4K:
		return 1
	case n <= Size16K:
		return 2
	case n <= Size64K:
		return 3
	case n <= Size256K:
		return 4
	default:
		return 5
	}
}

// GetInt16 returns an int16 slice of length n, zeroed, drawn from the
// pool when n fits a size class. The caller must call PutInt16 when the
// page's coefficients have been fully coded into chunks.
func GetInt16(n int) []int16 {
	if n > Size1M {
		return make([]int16, n)
	}
	idx := bucketIndex(n)
	bp := pools[idx].Get().(*[]int16)
	b := *bp
	if cap(b) < n {
		b = make([]int16, sizes[idx])
		*bp = b
	}
	b = b[:n]
	for i := range b {
		b[i] = 0
	}
	return b
}

// PutInt16 returns a slice obtained from GetInt16 to the pool.
func PutInt16(b []int16) {
	c := cap(b)
	if c < Size1K || c > Size1M {
		return
	}
	idx := bucketIndex(c)
	if sizes[idx] != c {
		return
	}
	b = b[:c]
	pools[idx].Put(&b)
}
