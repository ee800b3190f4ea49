package model

import (
	"path/filepath"
	"strings"
)

// Directory suffixes for the three artifact trees
const (
	DownloadedSuffix = "_downloaded"
	FormattedSuffix  = "_formatted"
	SegmentedSuffix  = "_segmented"
)

// Artifact naming
const (
	ArtifactPrefix    = "Y"
	ArtifactExtension = ".wav"
)

// Dataset is the namespace shared by all items of one listing. All three
// directory trees are partitioned by Name so listings never collide.
type Dataset struct {
	Name string
}

// ArtifactPaths holds the output file of each stage for one item
type ArtifactPaths struct {
	Download  string // keyed by source id
	Formatted string // keyed by source id
	Segment   string // keyed by full descriptor
}

// NewDataset derives the namespace from the listing path by stripping its
// extension. The directory part is kept so trees land next to the listing.
func NewDataset(inputPath string) Dataset {
	return Dataset{Name: strings.TrimSuffix(inputPath, filepath.Ext(inputPath))}
}

// DownloadDir returns the raw download directory
func (d Dataset) DownloadDir() string {
	return d.Name + DownloadedSuffix
}

// FormattedDir returns the normalized audio directory
func (d Dataset) FormattedDir() string {
	return d.Name + FormattedSuffix
}

// SegmentedDir returns the clip directory
func (d Dataset) SegmentedDir() string {
	return d.Name + SegmentedSuffix
}

// Dirs returns all three directories in stage order
func (d Dataset) Dirs() []string {
	return []string{d.DownloadDir(), d.FormattedDir(), d.SegmentedDir()}
}

// Paths returns the artifact paths for item
func (d Dataset) Paths(item WorkItem) ArtifactPaths {
	return ArtifactPaths{
		Download:  filepath.Join(d.DownloadDir(), artifactName(item.SourceID)),
		Formatted: filepath.Join(d.FormattedDir(), artifactName(item.SourceID)),
		Segment:   filepath.Join(d.SegmentedDir(), artifactName(item.Descriptor)),
	}
}

// For returns the artifact path produced by stage
func (p ArtifactPaths) For(stage Stage) string {
	switch stage {
	case StageAcquire:
		return p.Download
	case StageNormalize:
		return p.Formatted
	case StageSegment:
		return p.Segment
	}
	return ""
}

func artifactName(key string) string {
	return ArtifactPrefix + key + ArtifactExtension
}
