package lookup

import "fmt"

// Table maps the stable codes of one lookup table to their row ids.
type Table[C ~string] struct {
	name  string
	ids   map[C]uint
	codes map[uint]C
}

func newTable[C ~string](name string) Table[C] {
	return Table[C]{
		name:  name,
		ids:   make(map[C]uint),
		codes: make(map[uint]C),
	}
}

func (t Table[C]) put(code C, id uint) {
	t.ids[code] = id
	t.codes[id] = code
}

// ID resolves a code. A miss means the table was not seeded.
func (t Table[C]) ID(code C) (uint, error) {
	id, ok := t.ids[code]
	if !ok {
		return 0, fmt.Errorf("lookup %s: code %q not found", t.name, code)
	}
	return id, nil
}

func (t Table[C]) IDs(codes ...C) ([]uint, error) {
	out := make([]uint, 0, len(codes))
	for _, c := range codes {
		id, err := t.ID(c)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (t Table[C]) Code(id uint) (C, bool) {
	c, ok := t.codes[id]
	return c, ok
}

func (t Table[C]) Len() int {
	return len(t.ids)
}
