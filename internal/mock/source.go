package mock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SourceKind tags where a dataset is read from.
type SourceKind string

const (
	KindArchive  SourceKind = "archive"
	KindSnapshot SourceKind = "snapshot"
	KindFixture  SourceKind = "fixture"
)

// File names looked up under <root>/<route>/.
const (
	ArchiveFile  = "mock.arrow"
	SnapshotFile = "mock.db"
)

// DatasetSource is a located dataset for one route.
type DatasetSource struct {
	Kind  SourceKind `json:"kind"`
	Route string     `json:"route"`
	Path  string     `json:"path"`
	// DataPath selects the record list inside a JSON fixture.
	DataPath string `json:"data_path,omitempty"`
}

// Fixture is a JSON file that stands in for a route that has no recorded
// archive or snapshot.
type Fixture struct {
	Path     string `mapstructure:"path" json:"path"`
	DataPath string `mapstructure:"data_path" json:"data_path"`
}

// Locate finds the dataset for route under root. An archive is preferred over
// a snapshot when both exist; a fixture is only used when neither does.
func Locate(root, route string, fixture *Fixture) (DatasetSource, error) {
	candidates := []struct {
		kind SourceKind
		path string
	}{
		{KindArchive, filepath.Join(root, route, ArchiveFile)},
		{KindSnapshot, filepath.Join(root, route, SnapshotFile)},
	}
	if fixture != nil && fixture.Path != "" {
		candidates = append(candidates, struct {
			kind SourceKind
			path string
		}{KindFixture, fixture.Path})
	}

	tried := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tried = append(tried, c.path)
		ok, err := isFile(c.path)
		if err != nil {
			return DatasetSource{}, &DatasetLoadError{Route: route, Path: c.path, Err: err}
		}
		if ok {
			src := DatasetSource{Kind: c.kind, Route: route, Path: c.path}
			if c.kind == KindFixture {
				src.DataPath = fixture.DataPath
			}
			return src, nil
		}
	}
	return DatasetSource{}, &DatasetNotFoundError{Route: route, Tried: tried}
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat: %w", err)
	}
	return info.Mode().IsRegular(), nil
}
