// Package monorepo partitions commits into per-package buckets by the files they touch.
package monorepo

import (
	"path"
	"sort"
	"strings"

	"github.com/thomas-vilte/releasemate/internal/models"
)

type Convention string

const (
	// ConventionFirstSegment keys a file by the directory directly under Root.
	ConventionFirstSegment Convention = "first-segment"
	// ConventionMarker keys a file by the path prefix before the Marker directory.
	ConventionMarker Convention = "marker"
)

type Splitter struct {
	Convention Convention
	Root       string
	Marker     string
}

// Result is the partition plus the commits that touched no package.
type Result struct {
	Buckets    models.PackageBucket
	Unassigned []*models.Commit
}

// Split assigns each commit to every package it touches, once per package. Bucket order follows
// input order and keys are sorted.
func (s Splitter) Split(commits []*models.Commit) Result {
	bucket := models.PackageBucket{Commits: make(map[string][]*models.Commit)}
	var unassigned []*models.Commit

	for _, c := range commits {
		seen := make(map[string]struct{})
		for _, file := range c.Files {
			key, ok := s.KeyFor(file)
			if !ok {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			bucket.Commits[key] = append(bucket.Commits[key], c)
		}
		if len(seen) == 0 {
			unassigned = append(unassigned, c)
		}
	}

	for key := range bucket.Commits {
		bucket.Keys = append(bucket.Keys, key)
	}
	sort.Strings(bucket.Keys)

	return Result{Buckets: bucket, Unassigned: unassigned}
}

// KeyFor returns the package key of a repository-relative file path.
func (s Splitter) KeyFor(file string) (string, bool) {
	clean := strings.Trim(path.Clean(strings.ReplaceAll(file, "\\", "/")), "/")
	if clean == "" || clean == "." {
		return "", false
	}
	segments := strings.Split(clean, "/")

	switch s.Convention {
	case ConventionMarker:
		return s.markerKey(segments)
	default:
		return s.firstSegmentKey(segments)
	}
}

func (s Splitter) firstSegmentKey(segments []string) (string, bool) {
	root := strings.Trim(s.Root, "/")
	if root == "" {
		if len(segments) < 2 {
			return "", false
		}
		return segments[0], true
	}

	rootSegments := strings.Split(root, "/")
	// root + package directory + at least one file
	if len(segments) < len(rootSegments)+2 {
		return "", false
	}
	for i, r := range rootSegments {
		if segments[i] != r {
			return "", false
		}
	}
	return strings.Join(segments[:len(rootSegments)+1], "/"), true
}

func (s Splitter) markerKey(segments []string) (string, bool) {
	if s.Marker == "" {
		return "", false
	}
	for i, seg := range segments {
		if seg != s.Marker {
			continue
		}
		if i == 0 || i == len(segments)-1 {
			return "", false
		}
		return strings.Join(segments[:i], "/"), true
	}
	return "", false
}
