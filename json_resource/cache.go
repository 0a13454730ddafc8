package json_resource

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
	"github.com/zeebo/xxh3"
)

var cacheLog = commonlog.GetLogger("i18nav.cache")

// CacheEntry represents a parsed resource with the file metadata it was parsed from
type CacheEntry struct {
	Document  Document
	Timestamp time.Time
	FileSize  int64
	ModTime   time.Time
	Hash      uint64
}

// CacheManager keeps parsed resource documents in memory until their file changes
type CacheManager struct {
	mutex   sync.RWMutex
	entries map[string]*CacheEntry
	watched map[string]bool
	watcher *fsnotify.Watcher
	stats   cacheCounters
	done    chan struct{}
	closed  sync.Once
}

// NewCacheManager creates a cache manager and starts watching for resource changes
func NewCacheManager() (*CacheManager, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	cacheManager := &CacheManager{
		entries: make(map[string]*CacheEntry),
		watched: make(map[string]bool),
		watcher: watcher,
		stats:   cacheCounters{since: time.Now()},
		done:    make(chan struct{}),
	}

	go cacheManager.watch()

	return cacheManager, nil
}

// isFileChanged checks if a file has been modified since it was cached.
// A changed mtime with identical content refreshes the entry instead.
func (cm *CacheManager) isFileChanged(filePath string, entry *CacheEntry) (bool, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return true, err
	}

	if fileInfo.ModTime().Equal(entry.ModTime) && fileInfo.Size() == entry.FileSize {
		return false, nil
	}
	if fileInfo.Size() != entry.FileSize {
		return true, nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return true, err
	}
	if xxh3.Hash(content) != entry.Hash {
		return true, nil
	}

	entry.ModTime = fileInfo.ModTime()
	return false, nil
}

// Get returns the cached document for filePath if the file is unchanged
func (cm *CacheManager) Get(filePath string) (Document, bool) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	entry, ok := cm.entries[filePath]
	if !ok {
		cm.recordCacheMiss()
		return nil, false
	}

	changed, err := cm.isFileChanged(filePath, entry)
	if err != nil || changed {
		delete(cm.entries, filePath)
		cm.recordInvalidation()
		cm.recordCacheMiss()
		return nil, false
	}

	cm.recordCacheHit()
	return entry.Document, true
}

// Set stores a parsed document together with the content it was parsed from
func (cm *CacheManager) Set(filePath string, content []byte, document Document) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	if shared, ok := document.(interface{ markShared() }); ok {
		shared.markShared()
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.entries[filePath] = &CacheEntry{
		Document:  document,
		Timestamp: time.Now(),
		FileSize:  fileInfo.Size(),
		ModTime:   fileInfo.ModTime(),
		Hash:      xxh3.Hash(content),
	}

	dir := filepath.Dir(filePath)
	if !cm.watched[dir] {
		if err := cm.watcher.Add(dir); err != nil {
			cacheLog.Warningf("cannot watch %s: %s", dir, err)
		} else {
			cm.watched[dir] = true
		}
	}

	return nil
}

// Invalidate drops the entry for filePath
func (cm *CacheManager) Invalidate(filePath string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if _, ok := cm.entries[filePath]; ok {
		delete(cm.entries, filePath)
		cm.recordInvalidation()
	}
}

// Clear removes all entries
func (cm *CacheManager) Clear() {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cm.entries = make(map[string]*CacheEntry)
}

// Len returns the number of cached documents
func (cm *CacheManager) Len() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return len(cm.entries)
}

// Close stops the file watcher
func (cm *CacheManager) Close() error {
	var err error
	cm.closed.Do(func() {
		close(cm.done)
		err = cm.watcher.Close()
	})
	return err
}

func (cm *CacheManager) watch() {
	for {
		select {
		case <-cm.done:
			return
		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Create) {
				cacheLog.Debugf("resource changed: %s", event.Name)
				cm.Invalidate(filepath.Clean(event.Name))
			}
		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			cacheLog.Warningf("file watcher: %s", err)
		}
	}
}
