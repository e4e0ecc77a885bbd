package columnar

// RowView reads one logical record straight from the columns without
// materializing a map. It satisfies the attribute lookup used by table
// formatters.
type RowView struct {
	c     *Collection
	index int
}

// Row returns a view of the record at index i
func (c *Collection) Row(i int) (RowView, error) {
	if err := c.checkIndex(i); err != nil {
		return RowView{}, err
	}
	return RowView{c: c, index: i}, nil
}

// Rows returns a view for every record in order
func (c *Collection) Rows() []RowView {
	views := make([]RowView, c.length)
	for i := range views {
		views[i] = RowView{c: c, index: i}
	}
	return views
}

// Index returns the position of the viewed record
func (r RowView) Index() int { return r.index }

// Attr returns the value of the named field
func (r RowView) Attr(name string) (any, bool) {
	for i, f := range r.c.fields {
		if f.Name == name {
			return r.c.columns[i].Get(r.index), true
		}
	}
	return nil, false
}
