package logger

import "sync"

var named sync.Map // map[string]*Logger

// Register stores a named logger.
func Register(name string, l *Logger) {
	named.Store(name, l)
}

// Get returns the logger registered under name, or the global logger tagged
// with name as its component.
func Get(name string) *Logger {
	if v, ok := named.Load(name); ok {
		return v.(*Logger)
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults seeds the registry with component loggers derived from the
// current global logger. Call it after Init.
func RegisterDefaults(names ...string) {
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
