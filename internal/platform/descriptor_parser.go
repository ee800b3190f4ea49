package platform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ytget/audioset-dl/internal/model"
)

// Descriptor format: <SOURCE_ID>_<START_MS>
const (
	DescriptorSeparator = "_"
	MillisPerSecond     = 1000
)

// Parse errors
var (
	ErrEmptyLine           = errors.New("empty line")
	ErrMalformedDescriptor = errors.New("malformed descriptor")
)

// ParseDescriptor turns one listing line into a work item. The source id is
// everything before the last underscore and may itself contain underscores;
// the trailing segment is the start offset in milliseconds, truncated to
// whole seconds.
func ParseDescriptor(line string, clip time.Duration) (model.WorkItem, error) {
	descriptor := strings.TrimSpace(line)
	if descriptor == "" {
		return model.WorkItem{}, ErrEmptyLine
	}

	idx := strings.LastIndex(descriptor, DescriptorSeparator)
	if idx < 0 {
		return model.WorkItem{}, fmt.Errorf("%w: %q has no %q separator", ErrMalformedDescriptor, descriptor, DescriptorSeparator)
	}

	sourceID := descriptor[:idx]
	offset := descriptor[idx+1:]
	if sourceID == "" {
		return model.WorkItem{}, fmt.Errorf("%w: %q has an empty source id", ErrMalformedDescriptor, descriptor)
	}

	startMs, err := strconv.ParseUint(offset, 10, 63)
	if err != nil {
		return model.WorkItem{}, fmt.Errorf("%w: %q: start offset %q is not a non-negative integer", ErrMalformedDescriptor, descriptor, offset)
	}

	startSec := startMs / MillisPerSecond
	if startSec > math.MaxInt64/uint64(time.Second) {
		return model.WorkItem{}, fmt.Errorf("%w: %q: start offset out of range", ErrMalformedDescriptor, descriptor)
	}

	if clip <= 0 {
		clip = model.DefaultClipDuration
	}

	return model.WorkItem{
		Descriptor:   descriptor,
		SourceID:     sourceID,
		Start:        time.Duration(startSec) * time.Second,
		ClipDuration: clip,
	}, nil
}
