package catalog

// Table is the loaded catalog. It is never modified after construction.
type Table struct {
	records []Record
}

// NewTable builds a table from deep copies of records.
func NewTable(records []Record) *Table {
	rs := make([]Record, len(records))
	for i, r := range records {
		rs[i] = r.Clone()
	}
	return &Table{records: rs}
}

func (t *Table) Len() int { return len(t.records) }

// At returns a copy of the record at index i.
func (t *Table) At(i int) Record { return t.records[i].Clone() }

// All returns a view over every record in table order.
func (t *Table) All() View {
	idx := make([]int, len(t.records))
	for i := range idx {
		idx[i] = i
	}
	return View{table: t, indices: idx}
}

// YearBounds returns the minimum and maximum year_added in the table.
// ok is false when no record has a year.
func (t *Table) YearBounds() (min, max int, ok bool) {
	for _, r := range t.records {
		y, has := r.Year()
		if !has {
			continue
		}
		if !ok || y < min {
			min = y
		}
		if !ok || y > max {
			max = y
		}
		ok = true
	}
	return min, max, ok
}

// View is a read-only subset of a Table, held as indices into it.
// The zero View is empty.
type View struct {
	table   *Table
	indices []int
}

func (v View) Len() int { return len(v.indices) }

// At returns a copy of the i-th record of the view.
func (v View) At(i int) Record { return v.table.records[v.indices[i]].Clone() }

// Records copies the view's records out in view order.
func (v View) Records() []Record {
	out := make([]Record, len(v.indices))
	for i, idx := range v.indices {
		out[i] = v.table.records[idx].Clone()
	}
	return out
}

// Where returns a new view of the records for which keep returns true.
func (v View) Where(keep func(Record) bool) View {
	idx := make([]int, 0, len(v.indices))
	for _, i := range v.indices {
		if keep(v.table.records[i].Clone()) {
			idx = append(idx, i)
		}
	}
	return View{table: v.table, indices: idx}
}

// Each calls fn for every record in view order.
func (v View) Each(fn func(Record)) {
	for _, i := range v.indices {
		fn(v.table.records[i].Clone())
	}
}
