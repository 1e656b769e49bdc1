package config

import "sync/atomic"

// Current is a shared handle to the live config, swapped atomically by the
// file watcher so long-running tasks and handlers pick up tuned fees and
// slot defaults without a restart.
type Current struct {
	ptr atomic.Pointer[AppConfig]
}

func NewCurrent(c *AppConfig) *Current {
	cur := &Current{}
	cur.ptr.Store(c)
	return cur
}

func (c *Current) Get() *AppConfig {
	return c.ptr.Load()
}

func (c *Current) Set(v *AppConfig) {
	c.ptr.Store(v)
}
