package logger

import "sync"

// components caches one logger per component, derived from the global
// logger. Init and SetGlobalLogger drop the cache.
var components = struct {
	sync.RWMutex
	byName map[string]*Logger
}{byName: make(map[string]*Logger)}

// Get returns the global logger tagged with name, cached until the global
// logger changes.
func Get(name string) *Logger {
	components.RLock()
	l, ok := components.byName[name]
	components.RUnlock()
	if ok {
		return l
	}

	l = GetGlobalLogger().WithComponent(name)
	components.Lock()
	defer components.Unlock()
	if existing, ok := components.byName[name]; ok {
		return existing
	}
	components.byName[name] = l
	return l
}

func resetComponents() {
	components.Lock()
	defer components.Unlock()
	components.byName = make(map[string]*Logger)
}
