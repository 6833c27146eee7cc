package strictcsv

// Row is a growable ordered sequence of field values produced by a Parser or
// handed to a Writer. A Row exclusively owns its fields; Reset empties it
// while keeping the backing capacity for reuse.
//
// The zero value is an empty row ready for use.
type Row struct {
	fields []string
}

// NewRow returns an empty row with a small initial capacity.
func NewRow() *Row {
	return &Row{fields: make([]string, 0, 8)}
}

// Append adds a field at the end of the row.
func (r *Row) Append(field string) {
	r.fields = append(r.fields, field)
}

// Len returns the number of fields in the row.
func (r *Row) Len() int {
	return len(r.fields)
}

// Field returns the field at index i. It panics unless 0 <= i < Len().
func (r *Row) Field(i int) string {
	return r.fields[i]
}

// Fields returns a copy of the row's fields.
func (r *Row) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Reset logically empties the row while keeping the backing capacity.
func (r *Row) Reset() {
	r.fields = r.fields[:0]
}

// equal reports whether two rows hold the same fields in the same order.
func (r *Row) equal(other *Row) bool {
	if r.Len() != other.Len() {
		return false
	}
	for i := range r.fields {
		if r.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}
