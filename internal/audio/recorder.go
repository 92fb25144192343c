// Package audio defines the recording collaborator the session consumes.
// Device capture and MP3 encoding happen outside the core; the session only
// needs one encoded clip path per completed segment.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Recorder captures one audio segment at a time. Start begins capture on a
// press; Stop ends it on release and returns the path of the encoded clip.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (string, error)
}

// ClipPlayback is a stand-in recorder that hands back a pre-encoded clip,
// useful for development and for the one-shot CLI path.
type ClipPlayback struct {
	path string
}

func NewClipPlayback(path string) *ClipPlayback {
	return &ClipPlayback{path: path}
}

func (c *ClipPlayback) Start(ctx context.Context) error {
	return nil
}

func (c *ClipPlayback) Stop() (string, error) {
	if c.path == "" {
		return "", errors.New("no clip configured")
	}
	if _, err := os.Stat(c.path); err != nil {
		return "", fmt.Errorf("clip not readable: %w", err)
	}
	return c.path, nil
}
