package analysis

import "iter"

// Collector accumulates the diagnostics of a single file's run in discovery
// order. It is not safe for concurrent use; every run owns its own collector.
type Collector struct {
	diags []Diagnostic
}

func (c *Collector) Record(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// All returns the full ordered sequence.
func (c *Collector) All() []Diagnostic {
	return c.diags
}

func (c *Collector) Len() int {
	return len(c.diags)
}

// Filter returns a lazy view over the diagnostics matching pred, in order.
func (c *Collector) Filter(pred func(Diagnostic) bool) iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		for _, d := range c.diags {
			if pred(d) && !yield(d) {
				return
			}
		}
	}
}

// ByCode returns a lazy view over the diagnostics of one category.
func (c *Collector) ByCode(code Code) iter.Seq[Diagnostic] {
	return c.Filter(func(d Diagnostic) bool { return d.Code == code })
}
