// Package mediagroup collapses Telegram albums into a single event.
//
// Telegram delivers every photo of an album as its own message sharing a
// media_group_id. The aggregator buffers them until the album goes quiet.
package mediagroup

import (
	"fmt"
	"sync"
	"time"
)

const DefaultDebounce = 1200 * time.Millisecond

type Photo struct {
	ChatID       int64
	UserID       int64
	MediaGroupID string
	Caption      string
	FileID       string
}

// Album is a flushed media group. FileIDs keep arrival order.
type Album struct {
	ChatID  int64
	UserID  int64
	Caption string
	FileIDs []string
}

// First returns the file id of the photo that arrived first.
func (a Album) First() string {
	if len(a.FileIDs) == 0 {
		return ""
	}
	return a.FileIDs[0]
}

type Options struct {
	Debounce time.Duration
	OnFlush  func(Album)
}

type Aggregator struct {
	mu       sync.Mutex
	debounce time.Duration
	onFlush  func(Album)
	pending  map[string]*pendingAlbum
	stopped  bool
}

type pendingAlbum struct {
	album Album
	timer *time.Timer
}

func New(opts Options) *Aggregator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Aggregator{
		debounce: debounce,
		onFlush:  opts.OnFlush,
		pending:  make(map[string]*pendingAlbum),
	}
}

// Add buffers a photo. It reports false for photos that are not part of an
// album so the caller can handle them directly.
func (a *Aggregator) Add(p Photo) bool {
	if p.MediaGroupID == "" || p.FileID == "" {
		return false
	}

	key := albumKey(p.ChatID, p.UserID, p.MediaGroupID)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return true
	}

	pa, ok := a.pending[key]
	if !ok {
		pa = &pendingAlbum{album: Album{ChatID: p.ChatID, UserID: p.UserID}}
		a.pending[key] = pa
	}
	pa.album.FileIDs = append(pa.album.FileIDs, p.FileID)
	if pa.album.Caption == "" && p.Caption != "" {
		pa.album.Caption = p.Caption
	}

	if pa.timer != nil {
		pa.timer.Stop()
	}
	pa.timer = time.AfterFunc(a.debounce, func() { a.flush(key) })
	return true
}

// Pending returns the number of albums still being collected.
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Stop cancels pending timers and drops buffered albums.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	for key, pa := range a.pending {
		if pa.timer != nil {
			pa.timer.Stop()
		}
		delete(a.pending, key)
	}
}

func (a *Aggregator) flush(key string) {
	a.mu.Lock()
	pa, ok := a.pending[key]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.pending, key)
	album := pa.album
	onFlush := a.onFlush
	a.mu.Unlock()

	if onFlush != nil {
		onFlush(album)
	}
}

func albumKey(chatID int64, userID int64, mediaGroupID string) string {
	return fmt.Sprintf("%d:%d:%s", chatID, userID, mediaGroupID)
}
