// Package visitor maps the trees of a result graph onto the resource context.
//
// Loader visitors (physical, logical, clone, component) index resources and
// upload their measures and issues. Saver visitors serialize the logical and
// clone trees as JSON.
package visitor

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/TFMV/surrealmeter/graph"
	"github.com/TFMV/surrealmeter/types"
	"github.com/dustin/go-humanize"
)

// DebugEnv enables the progress bar when set.
const DebugEnv = "COLUMBUS_SONAR_DEBUG"

const progressWidth = 30

// Progress prints a progress bar with the estimated remaining time.
type Progress struct {
	out     io.Writer
	total   int
	visited int
}

// NewProgress returns a progress bar for total nodes. It is disabled unless
// DebugEnv is set.
func NewProgress(total int) *Progress {
	if _, ok := os.LookupEnv(DebugEnv); !ok {
		return &Progress{total: total}
	}
	return &Progress{out: os.Stdout, total: total}
}

// WithOutput redirects the bar and enables it.
func (p *Progress) WithOutput(w io.Writer) *Progress {
	p.out = w
	return p
}

// Step records a visited node. elapsed is the time spent so far.
func (p *Progress) Step(elapsed time.Duration) {
	if p == nil || p.out == nil || p.total <= 0 {
		return
	}
	p.visited++
	fmt.Fprint(p.out, p.render(elapsed))
}

func (p *Progress) render(elapsed time.Duration) string {
	ratio := float64(p.visited) / float64(p.total)
	filled := int(ratio*progressWidth) + 1
	if filled > progressWidth {
		filled = progressWidth
	}

	var b strings.Builder
	b.WriteString("        [")
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", progressWidth-filled))
	if ratio >= 1 {
		b.WriteString("] done...")
		b.WriteString(strings.Repeat(" ", 78))
		b.WriteString("\r")
		return b.String()
	}

	remaining := time.Duration(float64(elapsed) / float64(p.visited) * float64(p.total-p.visited))
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Fprintf(&b, "] %d%% [%s] Time left: %s\r",
		int(ratio*100+0.5), humanize.Bytes(mem.Sys), clock(remaining))
	return b.String()
}

func clock(d time.Duration) string {
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// base is embedded by the loader visitors.
type base struct {
	graph.NopVisitor
	helper   *Helper
	progress *Progress
	elapsed  time.Duration
	// empty is set when no source file is indexed.
	empty bool
}

func newBase(h *Helper, total int) base {
	return base{
		helper:   h,
		progress: NewProgress(total),
		empty:    len(h.ctx.Resources(types.KindFile)) == 0,
	}
}

// Elapsed is the time spent in the visitor callbacks.
func (b *base) Elapsed() time.Duration { return b.elapsed }

// Progress exposes the progress bar of the visitor.
func (b *base) Progress() *Progress { return b.progress }

func (b *base) PostNode(*graph.Node) error {
	b.progress.Step(b.elapsed)
	return nil
}

func (b *base) track(start time.Time) {
	b.elapsed += time.Since(start)
}

// uploadMetricsAndWarnings reports the warnings of n and, when res is set,
// saves its metrics on res. Ruleset metrics missing on res are zero filled
// when zeroFill is set.
func (b *base) uploadMetricsAndWarnings(n *graph.Node, res *types.Resource, zeroFill bool) {
	for _, a := range n.Attributes {
		switch a.Context {
		case "warning":
			b.helper.UploadWarnings(a)
		case "metric", "metricgroup":
			if res != nil {
				b.helper.UploadMetrics(a, res.Key)
			}
		}
	}
	if res != nil && zeroFill && !b.helper.ctx.IsProject(res.Key) {
		b.helper.UploadEmptyRulesetMetricsByZero(res.Key)
	}
}
