// Package flatdoc is the Namespace Surface: a client → database →
// collection lookup that lazily opens per-database JSON files and caches
// the handles it hands back, mirroring the teacher's Schema[T]
// (lazy registration, cached accessors) generalized to the document
// store's three-level container rather than one generic schema instance.
package flatdoc

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/relux-works/flatdoc/cursor"
	"github.com/relux-works/flatdoc/doc"
	"github.com/relux-works/flatdoc/query"
	"github.com/relux-works/flatdoc/store"
)

// log is the package-level logger for database-open, table-materialize,
// and delete-many-reset events. It is silent by default — an embedded
// library should not write to a caller's terminal unless asked to — and
// can be replaced with SetLogger.
var log = zerolog.Nop()

// SetLogger replaces the package-level logger.
func SetLogger(l zerolog.Logger) {
	log = l
}

// Client is a scoped acquisition of a root folder containing zero or more
// database files. Creating a client ensures the folder exists.
type Client struct {
	root string

	mu        sync.Mutex
	databases map[string]*Database
}

// NewClient creates a client rooted at folder, creating the folder if it
// does not already exist.
func NewClient(folder string) (*Client, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, err
	}
	return &Client{root: folder, databases: map[string]*Database{}}, nil
}

// Database returns the named database, opening its backing file lazily
// and caching the handle for subsequent calls.
func (c *Client) Database(name string) *Database {
	c.mu.Lock()
	defer c.mu.Unlock()

	if db, ok := c.databases[name]; ok {
		return db
	}
	path := filepath.Join(c.root, name+".json")
	log.Debug().Str("database", name).Str("path", path).Msg("opening database")
	db := &Database{
		name:        name,
		backing:     store.NewDatabase(path),
		collections: map[string]*Collection{},
	}
	c.databases[name] = db
	return db
}

// DropDatabase removes a database's handle and its backing file. A
// database with no backing file on disk is a no-op.
func (c *Client) DropDatabase(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.databases, name)
	path := filepath.Join(c.root, name+".json")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Database is a mapping from collection name to collection, backed by
// exactly one JSON file. Opened on first access; no explicit close.
type Database struct {
	name    string
	backing *store.Database

	mu          sync.Mutex
	collections map[string]*Collection
}

// Collection returns the named collection, creating it lazily on first
// reference.
func (db *Database) Collection(name string) *Collection {
	db.mu.Lock()
	defer db.mu.Unlock()

	if c, ok := db.collections[name]; ok {
		return c
	}
	c := &Collection{database: db, name: name}
	db.collections[name] = c
	return c
}

// CollectionNames returns the names of every table the database holds,
// sorted: those loaded from the backing file plus any materialized by a
// collection operation, including empty ones.
func (db *Database) CollectionNames() ([]string, error) {
	return db.backing.Tables()
}

// DropCollection removes a collection's cached handle and its data from
// the backing file.
func (db *Database) DropCollection(name string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.collections, name)
	db.backing.DropTable(name)
	return db.backing.Persist()
}

// Collection is a named ordered sequence of documents sharing a namespace
// within a database. `_id` values are unique across the collection.
type Collection struct {
	database *Database
	name     string

	once  sync.Once
	table *store.Table
	coord *store.Coordinator
}

func (c *Collection) ensure() (*store.Coordinator, error) {
	var err error
	c.once.Do(func() {
		log.Debug().Str("database", c.database.name).Str("collection", c.name).Msg("materializing table")
		c.table, err = c.database.backing.Table(c.name)
		if err != nil {
			return
		}
		c.coord = store.NewCoordinator(c.table, c.database.backing.Persist)
	})
	if err != nil {
		return nil, err
	}
	return c.coord, nil
}

// InsertOne inserts a single document, generating an `_id` if absent.
func (c *Collection) InsertOne(d doc.Document) (store.InsertResult, error) {
	coord, err := c.ensure()
	if err != nil {
		return store.InsertResult{}, err
	}
	return coord.InsertOne(d, false)
}

// Insert is an alias for InsertOne, matching the source API's bare
// `insert` entry point (spec §6).
func (c *Collection) Insert(d doc.Document) (store.InsertResult, error) {
	return c.InsertOne(d)
}

// InsertMany inserts a batch of documents as a single operation. The
// whole batch fails validation (and nothing is inserted) if any document
// would collide on `_id`, either against existing documents or within
// the batch itself.
func (c *Collection) InsertMany(docs []doc.Document) ([]store.InsertResult, error) {
	coord, err := c.ensure()
	if err != nil {
		return nil, err
	}
	return coord.InsertMany(docs, false)
}

// Find builds a predicate from filter, searches the collection, and
// wraps the matches in a Cursor with the given sort/skip/limit applied.
// A nil or empty sort list skips the sort step.
func (c *Collection) Find(filter doc.Document, sort []cursor.SortSpec, skip, limit int) (*cursor.Cursor, error) {
	if _, err := c.ensure(); err != nil {
		return nil, err
	}
	predicate, err := query.Build(filter)
	if err != nil {
		return nil, err
	}
	matches := c.table.Search(predicate)
	return cursor.New(matches, sort, skip, limit)
}

// FindOne returns the first document matching filter, or nil if none
// matches.
func (c *Collection) FindOne(filter doc.Document) (doc.Document, error) {
	if _, err := c.ensure(); err != nil {
		return nil, err
	}
	predicate, err := query.Build(filter)
	if err != nil {
		return nil, err
	}
	d, _ := c.table.Get(predicate)
	return d, nil
}

// UpdateOne applies update's patch to every document matching filter.
func (c *Collection) UpdateOne(filter, update doc.Document) (store.UpdateResult, error) {
	coord, err := c.ensure()
	if err != nil {
		return store.UpdateResult{}, err
	}
	return coord.UpdateOne(filter, update)
}

// UpdateMany applies update against filter; update may be a single
// document or a list of update documents applied in turn (spec §4.2).
func (c *Collection) UpdateMany(filter doc.Document, update any) (store.UpdateResult, error) {
	coord, err := c.ensure()
	if err != nil {
		return store.UpdateResult{}, err
	}
	return coord.UpdateMany(filter, update)
}

// DeleteOne removes the first document matching filter, failing with
// NotFound if nothing matches.
func (c *Collection) DeleteOne(filter doc.Document) (store.DeleteResult, error) {
	coord, err := c.ensure()
	if err != nil {
		return store.DeleteResult{}, err
	}
	return coord.DeleteOne(filter)
}

// DeleteMany removes every document matching filter. An empty filter
// clears the collection and resets its record-id counter.
func (c *Collection) DeleteMany(filter doc.Document) (store.DeleteResult, error) {
	coord, err := c.ensure()
	if err != nil {
		return store.DeleteResult{}, err
	}
	result, err := coord.DeleteMany(filter)
	if err == nil && len(filter) == 0 {
		log.Debug().Str("database", c.database.name).Str("collection", c.name).Msg("record-id counter reset")
	}
	return result, err
}

// Remove is the combined delete entry point from the source API
// (tinymongo's `remove(spec, multi)`, named in spec §6): multi selects
// between DeleteOne and DeleteMany.
func (c *Collection) Remove(filter doc.Document, multi bool) (store.DeleteResult, error) {
	if multi {
		return c.DeleteMany(filter)
	}
	return c.DeleteOne(filter)
}

// Count returns how many documents in the collection match filter.
func (c *Collection) Count(filter doc.Document) (int, error) {
	coord, err := c.ensure()
	if err != nil {
		return 0, err
	}
	return coord.Count(filter)
}
