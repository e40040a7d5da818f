// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Node is a single memory in the tree. Children are owned forward edges;
// parents are reached by walking from the root, never by back-pointer.
type Node struct {
	ID           string     `json:"id" yaml:"id"`
	Description  string     `json:"description" yaml:"description"`
	Content      string     `json:"content,omitempty" yaml:"content,omitempty"`
	Tags         []string   `json:"tags" yaml:"tags"`
	Author       string     `json:"author,omitempty" yaml:"author,omitempty"`
	CreatedAt    time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	AccessCount  int        `json:"access_count" yaml:"access_count"`
	LastAccessed time.Time  `json:"last_accessed" yaml:"last_accessed"`
	Children     []*Node    `json:"children" yaml:"children"`
}

// Position is a path of sibling-unique descriptions from the root. The
// empty position names the root itself.
type Position []string

func (p Position) String() string {
	if len(p) == 0 {
		return "/"
	}
	return "/" + strings.Join(p, "/")
}

// Child returns the position of a direct child of p.
func (p Position) Child(description string) Position {
	child := make(Position, 0, len(p)+1)
	child = append(child, p...)
	return append(child, description)
}

// NewNode constructs a memory with a fresh unique ID, creation timestamps
// and zeroed access metadata.
func NewNode(description, content string, tags []string, author string) (*Node, error) {
	if description == "" {
		return nil, &ValidationError{Reason: "description must not be empty"}
	}
	if tags == nil {
		tags = []string{}
	}
	now := time.Now()
	return &Node{
		ID:           uuid.NewString(),
		Description:  description,
		Content:      content,
		Tags:         tags,
		Author:       author,
		CreatedAt:    now,
		AccessCount:  0,
		LastAccessed: now,
		Children:     []*Node{},
	}, nil
}

// FindChild returns the direct child with the given description, or nil.
// Descriptions are matched case-sensitively.
func (n *Node) FindChild(description string) *Node {
	for _, child := range n.Children {
		if child.Description == description {
			return child
		}
	}
	return nil
}

// Touch records a read: bumps the access counter and stamps last_accessed.
func (n *Node) Touch() {
	n.AccessCount++
	n.LastAccessed = time.Now()
}

// CountDescendants returns the number of nodes below n, at any depth.
func (n *Node) CountDescendants() int {
	count := len(n.Children)
	for _, child := range n.Children {
		count += child.CountDescendants()
	}
	return count
}

// Validate checks the node and its whole subtree for the invariants a
// well-formed tree must hold: non-empty descriptions, non-empty IDs,
// non-negative access counters and pairwise-distinct sibling descriptions.
func (n *Node) Validate() error {
	return n.validateAt(nil)
}

func (n *Node) validateAt(pos Position) error {
	if n.Description == "" {
		return &ValidationError{Reason: fmt.Sprintf("empty description at position %s", pos)}
	}
	if n.ID == "" {
		return &ValidationError{Reason: fmt.Sprintf("missing id at position %s", pos.Child(n.Description))}
	}
	if n.CreatedAt.IsZero() {
		return &ValidationError{Reason: fmt.Sprintf("missing created_at at position %s", pos.Child(n.Description))}
	}
	if n.LastAccessed.IsZero() {
		return &ValidationError{Reason: fmt.Sprintf("missing last_accessed at position %s", pos.Child(n.Description))}
	}
	if n.AccessCount < 0 {
		return &ValidationError{Reason: fmt.Sprintf("negative access_count at position %s", pos.Child(n.Description))}
	}
	seen := make(map[string]struct{}, len(n.Children))
	for _, child := range n.Children {
		if _, dup := seen[child.Description]; dup {
			return &ValidationError{Reason: fmt.Sprintf("duplicate sibling description %q at position %s", child.Description, pos.Child(n.Description))}
		}
		seen[child.Description] = struct{}{}
		if err := child.validateAt(pos.Child(n.Description)); err != nil {
			return err
		}
	}
	return nil
}

// normalize replaces nil slices left by deserialization with empty ones so
// a decoded tree serializes identically to a constructed one.
func (n *Node) normalize() {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Children == nil {
		n.Children = []*Node{}
	}
	for _, child := range n.Children {
		child.normalize()
	}
}

// Encode serializes the node and its whole subtree as an indented JSON
// document, the on-disk format of the store.
func (n *Node) Encode() ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}

// Decode reconstructs a tree from its serialized form. It fails with a
// ValidationError, never a panic, on missing fields, negative counters or
// duplicate sibling descriptions anywhere in the subtree.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	n.normalize()
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return &n, nil
}
