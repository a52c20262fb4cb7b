// Package exrows provides row-level reads and writes over spreadsheet documents.
//
// An Engine owns one opened document. Every mutation is followed by a full
// save of the document unless the caller defers persistence to batch writes.
package exrows

import (
	"go.uber.org/zap"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
)

// Options configures an Engine.
type Options struct {
	// Codec loads and saves the document. If nil, it is chosen from the
	// path's extension with CodecFor.
	Codec codec.Codec
	// Logger receives engine events. If nil, nothing is logged.
	Logger *zap.Logger
	// DryRun keeps every change in memory and skips all writes.
	DryRun bool
}

// DefaultOptions returns options that select the codec by extension.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
