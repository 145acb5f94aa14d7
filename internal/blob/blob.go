// Package blob keeps captured data in memory and hands out URLs for it.
//
// A Store is the resource-URL capability: Put wraps bytes as a Resource
// whose URL can be played, displayed or downloaded. URLs use the blob:
// scheme until a base URL is set, typically the address of the resource
// server in package http.
package blob

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/capture-studio/internal/model"
)

// ErrNotFound is returned for unknown or revoked blobs.
var ErrNotFound = errors.New("blob: not found")

// Blob is stored data plus the information needed to serve it.
type Blob struct {
	ID       string
	MIMEType string
	FileName string
	Data     []byte
}

// Store is a concurrency-safe in-memory blob registry.
type Store struct {
	mu    sync.RWMutex
	base  string
	blobs map[string]*Blob
	now   func() time.Time
}

// NewStore creates an empty store minting blob: URLs.
func NewStore() *Store {
	return &Store{
		blobs: make(map[string]*Blob),
		now:   time.Now,
	}
}

// SetBaseURL makes later URLs "<base>/blob/<id>". Existing resources keep
// the URL they were minted with.
func (s *Store) SetBaseURL(base string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = strings.TrimSuffix(base, "/")
}

// Put stores data and returns a Resource describing it.
func (s *Store) Put(data []byte, mimeType, fileName string) *model.Resource {
	id := uuid.NewString()
	b := &Blob{
		ID:       id,
		MIMEType: mimeType,
		FileName: model.SanitizeFileName(fileName),
		Data:     data,
	}

	s.mu.Lock()
	s.blobs[id] = b
	base := s.base
	s.mu.Unlock()

	return &model.Resource{
		ID:        id,
		URL:       urlFor(base, id),
		MIMEType:  mimeType,
		FileName:  b.FileName,
		Size:      len(data),
		CreatedAt: s.now(),
	}
}

// Get returns the blob with the given id.
func (s *Store) Get(id string) (*Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Revoke drops the blob behind a resource URL. Unknown URLs are ignored.
func (s *Store) Revoke(url string) {
	id := IDFromURL(url)
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
}

// Len returns the number of live blobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Clear drops every blob.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.blobs)
}

// IDFromURL extracts the blob id from a URL minted by a Store.
func IDFromURL(url string) string {
	url, _, _ = strings.Cut(url, "?")
	if id, ok := strings.CutPrefix(url, "blob:"); ok {
		return id
	}
	if i := strings.LastIndex(url, "/blob/"); i >= 0 {
		return url[i+len("/blob/"):]
	}
	return ""
}

func urlFor(base, id string) string {
	if base == "" {
		return "blob:" + id
	}
	return base + "/blob/" + id
}
