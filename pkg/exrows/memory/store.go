package memory

import (
	"io/fs"
	"sync"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
)

// Store is a Codec whose "files" live in a map keyed by path.
// It counts every write so callers can assert how often a document was persisted.
type Store struct {
	mu     sync.Mutex
	files  map[string][]models.SheetData
	writes map[string]int
}

var _ codec.Codec = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		files:  make(map[string][]models.SheetData),
		writes: make(map[string]int),
	}
}

// Put seeds path with sheets without counting a write.
func (s *Store) Put(path string, sheets ...models.SheetData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = cloneSheets(sheets)
}

// Get returns a copy of the sheets persisted at path.
func (s *Store) Get(path string) ([]models.SheetData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sheets, ok := s.files[path]
	if !ok {
		return nil, false
	}
	return cloneSheets(sheets), true
}

// Writes reports how many times path was saved.
func (s *Store) Writes(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[path]
}

// Open loads the sheets stored at path into a new Workbook.
func (s *Store) Open(path string) (codec.Workbook, error) {
	sheets, ok := s.Get(path)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	wb := NewWorkbook(s.save)
	for _, sh := range sheets {
		if err := wb.AddSheet(sh.Title, sh.Rows); err != nil {
			return nil, err
		}
	}
	return wb, nil
}

func (s *Store) save(path string, wb *Workbook) error {
	sheets := wb.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = sheets
	s.writes[path]++
	return nil
}

func cloneSheets(sheets []models.SheetData) []models.SheetData {
	out := make([]models.SheetData, len(sheets))
	for i, sh := range sheets {
		out[i] = models.SheetData{Title: sh.Title, Rows: models.CloneRows(sh.Rows)}
	}
	return out
}
