package doctree

import "github.com/dgallion1/docpart/internal/partition"

// Document is the root of a parsed document.
type Document struct {
	Title      string                // Document title (from metadata or filename)
	Partitions []partition.Partition // Top-level blocks in source order
}

// Append adds blocks to the end of the document.
func (d *Document) Append(p ...partition.Partition) {
	d.Partitions = append(d.Partitions, p...)
}

// Export lowers the document into plain data.
func (d *Document) Export() map[string]any {
	return map[string]any{
		"title":      d.Title,
		"partitions": partition.ExportAll(d.Partitions),
	}
}

// Records returns the exported top-level blocks.
func (d *Document) Records() []partition.Record {
	return partition.ExportAll(d.Partitions)
}

// Stats counts every node in the document by type, including nested
// partitions and list items.
func (d *Document) Stats() map[partition.Type]int {
	counts := make(map[partition.Type]int)
	var walk func(nodes []partition.Partition)
	walk = func(nodes []partition.Partition) {
		for _, n := range nodes {
			counts[n.Type()]++
			if n.HasPartitions() {
				children, _ := n.Partitions()
				walk(children)
			}
			if l, ok := n.(*partition.List); ok {
				walk(l.Items())
			}
		}
	}
	walk(d.Partitions)
	return counts
}
