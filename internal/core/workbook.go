package core

// workbook.go holds the full uploaded document: a named, ordered set of
// Tables. The Workbook owns its Tables; mutating operations return a
// new Workbook value instead of modifying the receiver, so a session
// can swap the whole document atomically.

// Workbook maps sheet names to Tables, preserving sheet order.
type Workbook struct {
	order  []string
	sheets map[string]*Table
}

// LoadWorkbook parses every sheet of raw workbook data into a Table.
// Returns a SchemaError when the document has no sheets, or the first
// per-sheet load error.
func LoadWorkbook(raws []RawSheet, opts Options) (*Workbook, error) {
	if len(raws) == 0 {
		return nil, &SchemaError{Detail: "workbook has no sheets"}
	}

	wb := &Workbook{sheets: make(map[string]*Table, len(raws))}
	for _, raw := range raws {
		t, err := LoadTable(raw, opts)
		if err != nil {
			return nil, err
		}
		wb.order = append(wb.order, raw.Name)
		wb.sheets[raw.Name] = t
	}
	return wb, nil
}

// SheetNames returns the sheet names in order: upload order, then any
// explicitly created sheets in creation order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.order))
	copy(names, w.order)
	return names
}

// Table returns the sheet with the given name. Returns a NotFoundError
// when the workbook has no such sheet.
func (w *Workbook) Table(name string) (*Table, error) {
	t, ok := w.sheets[name]
	if !ok {
		return nil, &NotFoundError{Kind: "sheet", Name: name}
	}
	return t, nil
}

// AddSheet returns a new Workbook with an extra sheet that copies
// source's column structure with zero rows, a new project seeded from
// an existing project's task layout. Returns a DuplicateNameError when
// the name is empty or already taken.
func (w *Workbook) AddSheet(name string, source *Table) (*Workbook, error) {
	if name == "" {
		return nil, &DuplicateNameError{Name: ""}
	}
	if _, ok := w.sheets[name]; ok {
		return nil, &DuplicateNameError{Name: name}
	}

	next := w.shallowCopy()
	next.order = append(next.order, name)
	next.sheets[name] = source.emptyCopy(name)
	return next, nil
}

// ReplaceSheet returns a new Workbook identical to the receiver except
// the named sheet holds t. Returns a NotFoundError when the sheet does
// not exist.
func (w *Workbook) ReplaceSheet(name string, t *Table) (*Workbook, error) {
	if _, ok := w.sheets[name]; !ok {
		return nil, &NotFoundError{Kind: "sheet", Name: name}
	}

	next := w.shallowCopy()
	next.sheets[name] = t
	return next, nil
}

// Serialize re-encodes every sheet into codec form, deterministically,
// in sheet order.
func (w *Workbook) Serialize() []RawSheet {
	raws := make([]RawSheet, 0, len(w.order))
	for _, name := range w.order {
		raws = append(raws, w.sheets[name].Raw())
	}
	return raws
}

// shallowCopy duplicates the order slice and sheet map. Tables are
// shared: they are immutable once loaded, so sharing is safe.
func (w *Workbook) shallowCopy() *Workbook {
	next := &Workbook{
		order:  make([]string, len(w.order)),
		sheets: make(map[string]*Table, len(w.sheets)),
	}
	copy(next.order, w.order)
	for k, v := range w.sheets {
		next.sheets[k] = v
	}
	return next
}
