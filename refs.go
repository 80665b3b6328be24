package xml2xlsx

import "strconv"

// refValue is an entry in the reference table. The three forms are a single
// cell reference (ref-id), an ordered list of references (ref-append), and a
// synthetic 1-based position counter (the "row" and "col" entries).
type refValue interface {
	refText() string
}

// refList accumulates references registered under the same ref-append key,
// in declaration order.
type refList []*CellRef

func (l refList) refText() string {
	out := ""
	for i, r := range l {
		if i > 0 {
			out += ", "
		}
		out += r.refText()
	}
	return out
}

// refPosition is a synthetic counter entry.
type refPosition int

func (p refPosition) refText() string { return strconv.Itoa(int(p)) }

// refTable maps user-chosen symbolic names to reference values. Entries are
// only added or overwritten, never removed; the table lives exactly as long
// as its engine.
type refTable map[string]refValue

func newRefTable() refTable {
	return refTable{
		"row": refPosition(1),
		"col": refPosition(1),
	}
}

// resolve renders the entry for name, or "" if the name was never registered.
func (t refTable) resolve(name string) string {
	v, ok := t[name]
	if !ok {
		return ""
	}
	return v.refText()
}

// set registers a single reference, replacing any previous entry.
func (t refTable) set(name string, ref *CellRef) {
	t[name] = ref
}

// appendRef adds a reference to the list under name. A non-list entry under
// the same name is replaced by a fresh list.
func (t refTable) appendRef(name string, ref *CellRef) {
	list, _ := t[name].(refList)
	t[name] = append(list, ref)
}
