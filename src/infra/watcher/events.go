package watcher

import (
	"time"
)

// FileEventType represents the type of file system event
type FileEventType string

const (
	FileCreated FileEventType = "created"
)

// FileEvent is a settled audio file in the watched directory
type FileEvent struct {
	Path      string
	EventType FileEventType
	Timestamp time.Time
}
