package decorator

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	functionLimits = []float64{1, 2, 4, 6, 8, 10, 12, 20, 30}
	fileLimits     = []float64{0, 5, 10, 20, 30, 60, 90}
)

// distribution counts values by range. A value falls into the range of the
// greatest limit not above it, values below the first limit are dropped.
type distribution struct {
	limits []float64
	counts []int
}

func newDistribution(limits []float64) *distribution {
	return &distribution{limits: limits, counts: make([]int, len(limits))}
}

func (d *distribution) add(v float64, n int) {
	for i := len(d.limits) - 1; i >= 0; i-- {
		if v >= d.limits[i] {
			d.counts[i] += n
			return
		}
	}
}

// merge adds the counts of data written by String. Ranges with unknown
// limits are ignored.
func (d *distribution) merge(data string) error {
	for _, pair := range strings.Split(data, ";") {
		if pair == "" {
			continue
		}
		limit, count, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid distribution entry %q", pair)
		}
		l, err := strconv.ParseFloat(limit, 64)
		if err != nil {
			return fmt.Errorf("invalid distribution limit %q: %w", limit, err)
		}
		c, err := strconv.Atoi(count)
		if err != nil {
			return fmt.Errorf("invalid distribution count %q: %w", count, err)
		}
		for i, known := range d.limits {
			if known == l {
				d.counts[i] += c
				break
			}
		}
	}
	return nil
}

func (d *distribution) String() string {
	parts := make([]string, len(d.limits))
	for i, l := range d.limits {
		parts[i] = strconv.FormatFloat(l, 'f', -1, 64) + "=" + strconv.Itoa(d.counts[i])
	}
	return strings.Join(parts, ";")
}
