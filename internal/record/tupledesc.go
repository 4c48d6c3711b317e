package record

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/tuannm99/novatuple/internal/alias/bx"
	"github.com/tuannm99/novatuple/internal/types"
)

var (
	ErrInvalidSchema   = errors.New("record: invalid schema")
	ErrIndexOutOfRange = errors.New("record: field index out of range")
	ErrFieldNotFound   = errors.New("record: field not found")
)

// Name is an optional field name. The zero value is NoName, which never
// equals a real name, including Named("null").
type Name struct {
	value string
	valid bool
}

var NoName Name

func Named(s string) Name { return Name{value: s, valid: true} }

// Value returns the name and whether one is present.
func (n Name) Value() (string, bool) { return n.value, n.valid }

func (n Name) IsSet() bool { return n.valid }

func (n Name) String() string {
	if !n.valid {
		return "null"
	}
	return n.value
}

// Field is one column of a tuple.
type Field struct {
	Type types.Type
	Name Name
}

func (f Field) String() string {
	return f.Type.String() + "(" + f.Name.String() + ")"
}

// TupleDesc describes the layout of every tuple of a relation: an ordered,
// immutable list of fields. Tuples are fixed size; Size is the sum of the
// field type lengths.
//
// A TupleDesc is never modified after construction and may be shared
// between goroutines freely.
type TupleDesc struct {
	fields []Field
	size   int
	hash   uint64
}

// NewTupleDesc builds a descriptor from parallel slices. A nil names slice
// leaves every field unnamed.
func NewTupleDesc(ts []types.Type, names []Name) (*TupleDesc, error) {
	if len(ts) == 0 {
		return nil, fmt.Errorf("%w: at least one field is required", ErrInvalidSchema)
	}
	if names != nil && len(names) != len(ts) {
		return nil, fmt.Errorf("%w: %d types but %d names", ErrInvalidSchema, len(ts), len(names))
	}

	fields := make([]Field, len(ts))
	for i, t := range ts {
		if t.Len() == 0 {
			return nil, fmt.Errorf("%w: field %d has invalid type %s", ErrInvalidSchema, i, t)
		}
		fields[i].Type = t
		if names != nil {
			fields[i].Name = names[i]
		}
	}
	return newFromFields(fields), nil
}

// NewNamedTupleDesc is NewTupleDesc with every field named.
func NewNamedTupleDesc(ts []types.Type, names []string) (*TupleDesc, error) {
	if names == nil {
		return nil, fmt.Errorf("%w: names must not be nil", ErrInvalidSchema)
	}
	ns := make([]Name, len(names))
	for i, s := range names {
		ns[i] = Named(s)
	}
	return NewTupleDesc(ts, ns)
}

// NewAnonymousTupleDesc builds a descriptor whose fields have no names.
func NewAnonymousTupleDesc(ts ...types.Type) (*TupleDesc, error) {
	return NewTupleDesc(ts, nil)
}

// newFromFields takes ownership of fields.
func newFromFields(fields []Field) *TupleDesc {
	td := &TupleDesc{fields: fields}
	for _, f := range fields {
		td.size += f.Type.Len()
	}
	td.hash = hashFields(fields)
	return td
}

func (td *TupleDesc) NumFields() int { return len(td.fields) }

// Size is the byte length of one tuple.
func (td *TupleDesc) Size() int { return td.size }

func (td *TupleDesc) checkIndex(i int) error {
	if i < 0 || i >= len(td.fields) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(td.fields))
	}
	return nil
}

func (td *TupleDesc) Field(i int) (Field, error) {
	if err := td.checkIndex(i); err != nil {
		return Field{}, err
	}
	return td.fields[i], nil
}

func (td *TupleDesc) FieldName(i int) (Name, error) {
	if err := td.checkIndex(i); err != nil {
		return NoName, err
	}
	return td.fields[i].Name, nil
}

func (td *TupleDesc) FieldType(i int) (types.Type, error) {
	if err := td.checkIndex(i); err != nil {
		return types.Type{}, err
	}
	return td.fields[i].Type, nil
}

// Offset returns where field i starts inside an encoded tuple.
func (td *TupleDesc) Offset(i int) (int, error) {
	if err := td.checkIndex(i); err != nil {
		return 0, err
	}
	off := 0
	for _, f := range td.fields[:i] {
		off += f.Type.Len()
	}
	return off, nil
}

// Types returns a copy of the field types in order.
func (td *TupleDesc) Types() []types.Type {
	out := make([]types.Type, len(td.fields))
	for i, f := range td.fields {
		out[i] = f.Type
	}
	return out
}

// IndexOf returns the index of the first field named name. Duplicate names
// are legal (e.g. after a join); the leftmost one wins. NoName can be
// looked up like any other name.
func (td *TupleDesc) IndexOf(name Name) (int, error) {
	for i, f := range td.fields {
		if f.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrFieldNotFound, name)
}

func (td *TupleDesc) IndexOfName(name string) (int, error) {
	return td.IndexOf(Named(name))
}

// Fields iterates over the fields in order. Each call starts a new pass.
func (td *TupleDesc) Fields() iter.Seq[Field] {
	return func(yield func(Field) bool) {
		for _, f := range td.fields {
			if !yield(f) {
				return
			}
		}
	}
}

// Merge returns a new descriptor with a's fields followed by b's. Names
// are kept as they are, duplicates included.
func Merge(a, b *TupleDesc) *TupleDesc {
	fields := make([]Field, 0, len(a.fields)+len(b.fields))
	fields = append(fields, a.fields...)
	fields = append(fields, b.fields...)
	return newFromFields(fields)
}

// Equal reports whether both descriptors have the same fields, comparing
// type and name at every position.
func (td *TupleDesc) Equal(other *TupleDesc) bool {
	if td == other {
		return true
	}
	if td == nil || other == nil {
		return false
	}
	if td.hash != other.hash || len(td.fields) != len(other.fields) {
		return false
	}
	for i := range td.fields {
		if td.fields[i] != other.fields[i] {
			return false
		}
	}
	return true
}

// TypesCompatible is the looser check used for set operations such as
// UNION: same field count and types, names ignored.
func (td *TupleDesc) TypesCompatible(other *TupleDesc) bool {
	if td == nil || other == nil {
		return td == other
	}
	if len(td.fields) != len(other.fields) {
		return false
	}
	for i := range td.fields {
		if td.fields[i].Type != other.fields[i].Type {
			return false
		}
	}
	return true
}

// Hash is consistent with Equal and suitable as a map key for schema shapes.
func (td *TupleDesc) Hash() uint64 { return td.hash }

// String renders "INT(id), STRING(20)(label)".
func (td *TupleDesc) String() string {
	var sb strings.Builder
	for i, f := range td.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	return sb.String()
}

// hashFields of no fields is 0, the same as the zero TupleDesc.
func hashFields(fields []Field) uint64 {
	if len(fields) == 0 {
		return 0
	}
	buf := make([]byte, 0, 4+len(fields)*16)
	buf = bx.AppendU32(buf, uint32(len(fields)))
	for _, f := range fields {
		buf = append(buf, byte(f.Type.Kind()))
		buf = bx.AppendU32(buf, uint32(f.Type.Len()))
		name, ok := f.Name.Value()
		if ok {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = bx.AppendU32(buf, uint32(len(name)))
		buf = append(buf, name...)
	}
	return xxhash.Sum64(buf)
}
