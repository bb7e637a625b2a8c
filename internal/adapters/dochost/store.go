package dochost

import (
	"errors"
	"fmt"
	"maps"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

var tblDocuments = "documents"

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblDocuments: {
			Name: tblDocuments,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"owner": {
					Name:    "owner",
					Indexer: &memdb.StringFieldIndex{Field: "Owner"},
				},
			},
		},
	},
}

// errDocumentNotFound is returned when no document matches the id and owner
var errDocumentNotFound = errors.New("document not found")

// documentRecord is a stored document. Records are immutable once inserted.
type documentRecord struct {
	ID          string
	Owner       string
	Description string
	Visibility  string
	Files       map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// documentStore keeps documents in memory, indexed by id and owner
type documentStore struct {
	db  *memdb.MemDB
	now func() time.Time
}

func newDocumentStore() (*documentStore, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}
	return &documentStore{db: db, now: time.Now}, nil
}

func (s *documentStore) create(owner, description, visibility string, files map[string]string) (*documentRecord, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	now := s.now()
	rec := &documentRecord{
		ID:          uuid.NewString(),
		Owner:       owner,
		Description: description,
		Visibility:  visibility,
		Files:       maps.Clone(files),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := txn.Insert(tblDocuments, rec); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	txn.Commit()
	return rec, nil
}

func (s *documentStore) find(id string) (*documentRecord, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", id, err)
	}
	if raw == nil {
		return nil, errDocumentNotFound
	}
	return raw.(*documentRecord), nil
}

func (s *documentStore) findOwned(owner, id string) (*documentRecord, error) {
	rec, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if rec.Owner != owner {
		return nil, errDocumentNotFound
	}
	return rec, nil
}

// list returns the owner's documents, most recently updated first
func (s *documentStore) list(owner string) ([]*documentRecord, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	iter, err := txn.Get(tblDocuments, "owner", owner)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	var recs []*documentRecord
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		recs = append(recs, raw.(*documentRecord))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].UpdatedAt.After(recs[j].UpdatedAt)
	})
	return recs, nil
}

// update replaces the content of the named files, adding new ones
func (s *documentStore) update(owner, id string, files map[string]string) (*documentRecord, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblDocuments, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", id, err)
	}
	if raw == nil || raw.(*documentRecord).Owner != owner {
		return nil, errDocumentNotFound
	}

	updated := *raw.(*documentRecord)
	updated.Files = maps.Clone(updated.Files)
	if updated.Files == nil {
		updated.Files = make(map[string]string)
	}
	maps.Copy(updated.Files, files)
	updated.UpdatedAt = s.now()

	if err := txn.Insert(tblDocuments, &updated); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	txn.Commit()
	return &updated, nil
}
