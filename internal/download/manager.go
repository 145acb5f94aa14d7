package download

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/capture-studio/internal/blob"
	"github.com/handiism/capture-studio/internal/http"
	ioutils "github.com/handiism/capture-studio/internal/io"
	"github.com/handiism/capture-studio/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ErrNoResource is returned when Save is given nothing to save.
var ErrNoResource = errors.New("download: no resource")

const (
	defaultMaxRetries    = 3
	defaultRetryCooldown = 200 * time.Millisecond
	retryExponent        = 2.0
)

// Manager saves resources to the downloads directory.
type Manager struct {
	dir        string
	store      *blob.Store
	httpClient *http.Client

	// MaxRetries bounds HTTP attempts per save.
	MaxRetries int

	// RetryCooldown is the wait before the first retry. Later retries
	// wait exponentially longer.
	RetryCooldown time.Duration

	savedFiles int32
	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new download Manager writing into dir.
func NewManager(dir string, store *blob.Store, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		dir:           dir,
		store:         store,
		httpClient:    http.NewClient(),
		MaxRetries:    defaultMaxRetries,
		RetryCooldown: defaultRetryCooldown,
		onProgress:    onProgress,
	}
}

// Dir returns the downloads directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Saved returns how many files were written so far.
func (m *Manager) Saved() int {
	return int(atomic.LoadInt32(&m.savedFiles))
}

// Save writes res under its suggested name and returns the path used.
func (m *Manager) Save(ctx context.Context, res *model.Resource) (string, error) {
	if res == nil {
		return "", ErrNoResource
	}

	// Serialized so that two saves never pick the same free name.
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ioutils.EnsureDir(m.dir); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating directory: %v", err), Level: LevelError})
		return "", err
	}

	name := model.SanitizeFileName(res.FileName)
	path := ioutils.UniquePath(filepath.Join(m.dir, name))
	if filepath.Base(path) != name {
		m.progress(ProgressEvent{Message: fmt.Sprintf("%s exists, saving as %s", name, filepath.Base(path)), Level: LevelVerbose})
	}

	var err error
	if isServed(res.URL) {
		err = m.fetch(ctx, res, path)
	} else {
		err = m.copyFromStore(ctx, res, path)
	}
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving %s: %v", name, err), Level: LevelError})
		return "", err
	}

	atomic.AddInt32(&m.savedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", path), Level: LevelSuccess})
	return path, nil
}

func isServed(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (m *Manager) fetch(ctx context.Context, res *model.Resource, path string) error {
	retries := max(m.MaxRetries, 1)

	var err error
	for tries := 0; tries < retries; tries++ {
		err = m.httpClient.DownloadFile(ctx, res.DownloadURL(), path, func(written, total int64) {
			if total > 0 && written == total {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Received %s", model.FormatBytes(int(total))), Level: LevelVerbose})
			}
		})
		if err == nil || ctx.Err() != nil {
			break
		}
		if tries+1 < retries {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, retries-1, res.FileName), Level: LevelWarning})
			m.waitForRetry(ctx, tries)
		}
	}
	return err
}

func (m *Manager) copyFromStore(ctx context.Context, res *model.Resource, path string) error {
	if m.store == nil {
		return fmt.Errorf("download: %s is not served and no store is attached", res.URL)
	}
	b, err := m.store.Get(blob.IDFromURL(res.URL))
	if err != nil {
		return err
	}
	return ioutils.WriteFile(ctx, path, b.Data)
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := float64(m.RetryCooldown) * math.Pow(retryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown)):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
