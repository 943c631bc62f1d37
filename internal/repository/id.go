package repository

import (
	"sync"
	"time"
)

// IDGenerator - hands out game ids based on the creation time in milliseconds.
// Ids are strictly increasing, two games created in the same millisecond get consecutive ids.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

func (that *IDGenerator) Next() int64 {
	that.mu.Lock()
	defer that.mu.Unlock()

	id := that.now().UnixMilli()
	if id <= that.last {
		id = that.last + 1
	}
	that.last = id

	return id
}
