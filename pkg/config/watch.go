package config

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// OriginSet is a concurrency-safe CORS origin allowlist. The server consults
// it per request, so replacing the contents takes effect without a restart —
// dev tunnel hostnames (ngrok) rotate between sessions.
type OriginSet struct {
	mu      sync.RWMutex
	origins map[string]bool
}

// NewOriginSet builds an allowlist from the given origins.
func NewOriginSet(origins []string) *OriginSet {
	s := &OriginSet{origins: map[string]bool{}}
	s.Replace(origins)
	return s
}

// Allowed reports whether an origin is in the allowlist.
func (s *OriginSet) Allowed(origin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.origins[origin]
}

// Replace swaps the allowlist contents.
func (s *OriginSet) Replace(origins []string) {
	next := make(map[string]bool, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			next[o] = true
		}
	}

	s.mu.Lock()
	s.origins = next
	s.mu.Unlock()
}

// List returns the allowlist contents, sorted.
func (s *OriginSet) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.origins))
	for o := range s.origins {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// LoadOriginsFile reads an origins file: one origin per line, blank lines and
// '#' comments ignored.
func LoadOriginsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open origins file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var origins []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		origins = append(origins, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read origins file: %w", err)
	}
	return origins, nil
}

// WatchOrigins watches the origins file and replaces the set's contents
// whenever it changes. Blocks until the context is cancelled or the watcher
// fails. The file must exist when the watch starts.
func WatchOrigins(ctx context.Context, set *OriginSet, path string) error {
	origins, err := LoadOriginsFile(path)
	if err != nil {
		return err
	}
	set.Replace(origins)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", path, err)
	}

	log.Printf("Watching %s for allowed-origin changes", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				origins, err := LoadOriginsFile(path)
				if err != nil {
					log.Printf("Error reloading origins: %v", err)
					continue
				}
				set.Replace(origins)
				log.Printf("Reloaded %d allowed origins from %s", len(origins), path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
