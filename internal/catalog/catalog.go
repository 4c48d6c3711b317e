package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tuannm99/novatuple/internal/record"
)

var (
	ErrTableExists   = errors.New("catalog: table already exists")
	ErrTableNotFound = errors.New("catalog: table not found")
	ErrInvalidTable  = errors.New("catalog: invalid table definition")
)

type TableMeta struct {
	ID   uint32
	Name string
	Desc *record.TupleDesc
}

// Catalog maps table names to their schemas. Equal schemas are interned so
// tables of the same shape share one *TupleDesc.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*TableMeta
	shapes map[uint64][]*record.TupleDesc // by TupleDesc.Hash
	nextID uint32
	log    *slog.Logger
}

func New(logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		tables: make(map[string]*TableMeta),
		shapes: make(map[uint64][]*record.TupleDesc),
		nextID: 1,
		log:    logger,
	}
}

// Intern returns the canonical descriptor equal to td, registering td if
// none exists yet.
func (c *Catalog) Intern(td *record.TupleDesc) *record.TupleDesc {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internLocked(td)
}

func (c *Catalog) internLocked(td *record.TupleDesc) *record.TupleDesc {
	h := td.Hash()
	for _, known := range c.shapes[h] {
		if known.Equal(td) {
			return known
		}
	}
	c.shapes[h] = append(c.shapes[h], td)
	return td
}

func (c *Catalog) CreateTable(name string, td *record.TupleDesc) (*TableMeta, error) {
	if name == "" || td == nil || td.NumFields() == 0 {
		return nil, fmt.Errorf("%w: name=%q", ErrInvalidTable, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tables[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrTableExists, name)
	}

	meta := &TableMeta{
		ID:   c.nextID,
		Name: name,
		Desc: c.internLocked(td),
	}
	c.nextID++
	c.tables[name] = meta

	c.log.Debug("catalog: table created",
		"table", name,
		"id", meta.ID,
		"fields", td.NumFields(),
		"size", td.Size(),
	)
	return meta, nil
}

func (c *Catalog) Table(name string) (*TableMeta, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	meta, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return meta, nil
}

// Tables returns all table names, sorted.
func (c *Catalog) Tables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TablesWithSchema lists the tables whose schema equals td, sorted by name.
func (c *Catalog) TablesWithSchema(td *record.TupleDesc) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var names []string
	for name, meta := range c.tables {
		if meta.Desc.Equal(td) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// JoinSchema is the output schema of joining left with right: left's
// columns then right's, duplicate names kept.
func (c *Catalog) JoinSchema(left, right string) (*record.TupleDesc, error) {
	l, err := c.Table(left)
	if err != nil {
		return nil, err
	}
	r, err := c.Table(right)
	if err != nil {
		return nil, err
	}
	return record.Merge(l.Desc, r.Desc), nil
}
