// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Root node defaults, written once when a store is initialized without a
// backing file.
const (
	RootDescription = "root"
	RootContent     = "Root of all memories"
	RootAuthor      = "system"
)

// Store owns a single memory tree and persists it as one JSON document.
// Every public operation runs under one exclusive lock for its full
// duration, including the synchronous write of the backing file, so
// concurrent callers always observe a globally consistent tree.
type Store struct {
	mu   sync.Mutex
	path string
	root *Node
}

// Snapshot is a copy of a node's own fields, excluding its children.
type Snapshot struct {
	ID            string     `json:"id"`
	Description   string     `json:"description"`
	Content       string     `json:"content,omitempty"`
	Tags          []string   `json:"tags"`
	Author        string     `json:"author,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	AccessCount   int        `json:"access_count"`
	LastAccessed  time.Time  `json:"last_accessed"`
	HasChildren   bool       `json:"has_children"`
	ChildrenCount int        `json:"children_count"`
}

// Edit carries the optional fields an edit may change. Nil means "leave
// untouched"; an edit with nothing set is rejected.
type Edit struct {
	Content *string
	Tags    []string
	Author  *string
}

func (e Edit) isEmpty() bool {
	return e.Content == nil && e.Tags == nil && e.Author == nil
}

// RemoveResult reports what a remove deleted.
type RemoveResult struct {
	Removed         string `json:"removed"`
	ChildrenRemoved int    `json:"children_removed"`
}

// Open loads the store from path, or initializes a fresh tree holding only
// the root and persists it if no file exists yet. A present but unreadable
// or invalid file is a hard error; no partial tree is ever served.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		root, nerr := NewNode(RootDescription, RootContent, nil, RootAuthor)
		if nerr != nil {
			return nil, nerr
		}
		s.root = root
		if perr := s.persist(); perr != nil {
			return nil, perr
		}
	case err != nil:
		return nil, &StorageError{Op: "load", Path: path, Err: err}
	default:
		root, derr := Decode(data)
		if derr != nil {
			return nil, &StorageError{Op: "parse", Path: path, Err: derr}
		}
		s.root = root
	}

	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string { return s.path }

// Add creates a new memory under the parent named by parentPos and returns
// its snapshot. The parent's access metadata is not touched.
func (s *Store) Add(parentPos Position, description, content string, tags []string, author string) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, err := s.resolve(parentPos)
	if err != nil {
		return nil, err
	}
	if parent.FindChild(description) != nil {
		return nil, &DuplicateDescriptionError{Description: description, Parent: parentPos}
	}

	node, err := NewNode(description, content, tags, author)
	if err != nil {
		return nil, err
	}
	parent.Children = append(parent.Children, node)

	if err := s.persist(); err != nil {
		return nil, err
	}
	return snapshotOf(node), nil
}

// Read returns a snapshot of the memory at pos. Reading is also a touch:
// the node's access_count is incremented, last_accessed stamped, and the
// tree persisted before the snapshot is returned.
func (s *Store) Read(pos Position) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, err := s.resolve(pos)
	if err != nil {
		return nil, err
	}
	node.Touch()

	if err := s.persist(); err != nil {
		return nil, err
	}
	return snapshotOf(node), nil
}

// ListChildren returns snapshots of the direct children of the memory at
// pos, in insertion order. Listing is not reading: no access metadata
// changes, nothing is persisted.
func (s *Store) ListChildren(pos Position) ([]*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, err := s.resolve(pos)
	if err != nil {
		return nil, err
	}

	children := make([]*Snapshot, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, snapshotOf(child))
	}
	return children, nil
}

// Apply applies an edit to the memory at pos and returns its updated
// snapshot. Only the fields set in the edit change; id, description,
// created_at, access metadata and children are never altered. Editing does
// not count as an access.
func (s *Store) Apply(pos Position, edit Edit) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, err := s.resolve(pos)
	if err != nil {
		return nil, err
	}
	if edit.isEmpty() {
		return nil, ErrNoFieldsProvided
	}

	if edit.Content != nil {
		node.Content = *edit.Content
	}
	if edit.Tags != nil {
		node.Tags = edit.Tags
	}
	if edit.Author != nil {
		node.Author = *edit.Author
	}
	now := time.Now()
	node.UpdatedAt = &now

	if err := s.persist(); err != nil {
		return nil, err
	}
	return snapshotOf(node), nil
}

// Remove detaches the memory at pos and its entire subtree. The root
// cannot be removed.
func (s *Store) Remove(pos Position) (*RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(pos) == 0 {
		return nil, ErrCannotRemoveRoot
	}

	parent, err := s.resolve(pos[:len(pos)-1])
	if err != nil {
		return nil, err
	}

	target := pos[len(pos)-1]
	for i, child := range parent.Children {
		if child.Description == target {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			if err := s.persist(); err != nil {
				return nil, err
			}
			return &RemoveResult{Removed: child.Description, ChildrenRemoved: child.CountDescendants()}, nil
		}
	}
	return nil, &PositionNotFoundError{Segment: target, Resolved: pos[:len(pos)-1]}
}

// DumpJSON returns the whole tree as its on-disk JSON document.
func (s *Store) DumpJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.Encode()
}

// DumpYAML returns the whole tree rendered as YAML, for human inspection.
func (s *Store) DumpYAML() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return yaml.Marshal(s.root)
}

// resolve walks pos from the root, matching each segment against child
// descriptions exactly. It either resolves the whole position or fails on
// the first segment with no match; there is no partial success.
func (s *Store) resolve(pos Position) (*Node, error) {
	current := s.root
	for i, segment := range pos {
		child := current.FindChild(segment)
		if child == nil {
			return nil, &PositionNotFoundError{Segment: segment, Resolved: pos[:i]}
		}
		current = child
	}
	return current, nil
}

// persist writes the full tree to a temporary file next to the target and
// atomically renames it into place, so an external reader never observes a
// half-written document.
func (s *Store) persist() error {
	data, err := s.root.Encode()
	if err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &StorageError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

func snapshotOf(n *Node) *Snapshot {
	tags := make([]string, len(n.Tags))
	copy(tags, n.Tags)
	return &Snapshot{
		ID:            n.ID,
		Description:   n.Description,
		Content:       n.Content,
		Tags:          tags,
		Author:        n.Author,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
		AccessCount:   n.AccessCount,
		LastAccessed:  n.LastAccessed,
		HasChildren:   len(n.Children) > 0,
		ChildrenCount: len(n.Children),
	}
}
