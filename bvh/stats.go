package bvh

import (
	"bytes"
	"fmt"
	"time"
	"unsafe"

	"github.com/olekukonko/tablewriter"
)

// Statistics collected while building an index.
type Stats struct {
	Primitives   int
	LeafCapacity int

	Nodes int
	Leafs int

	// Depth of the deepest node; the root is at depth 0.
	MaxDepth int

	// Peak number of pending build entries.
	MaxStack int

	// Number of nodes whose midpoint split left one side empty.
	FallbackSplits int

	BuildTime time.Duration
}

// Build a tabular representation of the index statistics.
func (s Stats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", s.Primitives)})
	table.Append([]string{"Leaf capacity", fmt.Sprintf("%d", s.LeafCapacity)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leafs", fmt.Sprintf("%d", s.Leafs)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"Max build stack", fmt.Sprintf("%d / %d", s.MaxStack, BuildStackCapacity)})
	table.Append([]string{"Fallback splits", fmt.Sprintf("%d", s.FallbackSplits)})
	table.Append([]string{"Node memory", fmtSize(s.Nodes * int(unsafe.Sizeof(Node{})))})
	table.SetFooter([]string{"Build time", s.BuildTime.String()})

	table.Render()
	return buf.String()
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%5.1f mb", float32(totalBytes)/1e6)
}
