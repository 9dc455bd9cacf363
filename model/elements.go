// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model contains the shared model for the OpenStreetMap synchronization
// engine: elements, tags, changesets and duplicate matches.
package model

import (
	"fmt"
	"strconv"
	"time"
)

// ID is the primary key of an element or changeset.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses the plain integer bodies the OSM API answers with.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}

	return ID(v), nil
}

// Version is the optimistic concurrency token of an element.
type Version int

// ElementType is an enumeration of the element types the engine edits.
type ElementType int

const (
	// NODE denotes a point element.
	NODE ElementType = iota

	// WAY denotes an ordered list of node references.
	WAY
)

func (t ElementType) String() string {
	switch t {
	case NODE:
		return "node"
	case WAY:
		return "way"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

func (t ElementType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ElementType) UnmarshalText(text []byte) error {
	v, err := ParseElementType(string(text))
	if err != nil {
		return err
	}

	*t = v

	return nil
}

// ParseElementType converts "node" or "way" into an ElementType.
func ParseElementType(s string) (ElementType, error) {
	switch s {
	case "node":
		return NODE, nil
	case "way":
		return WAY, nil
	default:
		return 0, fmt.Errorf("unsupported element type %q", s)
	}
}

// Element is either a Node or a Way.
type Element interface {
	isElement() // prevents extensions

	GetID() ID

	GetType() ElementType

	GetVersion() Version

	GetTags() Tags
}

// Node represents a specific point on the earth's surface defined by its
// latitude and longitude.
type Node struct {
	ID        ID
	Version   Version
	Changeset ID
	Lat       Degrees
	Lon       Degrees
	Tags      Tags
}

var _ Element = Node{}

func (n Node) isElement() {}

func (n Node) GetID() ID {
	return n.ID
}

func (n Node) GetType() ElementType {
	return NODE
}

func (n Node) GetVersion() Version {
	return n.Version
}

func (n Node) GetTags() Tags {
	return n.Tags
}

// Position returns the coordinates of the node.
func (n Node) Position() LatLon {
	return LatLon{Lat: n.Lat, Lon: n.Lon}
}

// Way is an ordered list of nodes. The engine never changes NodeIDs; an
// update sends back exactly the sequence that was fetched.
type Way struct {
	ID        ID
	Version   Version
	Changeset ID
	NodeIDs   []ID
	Tags      Tags
}

var _ Element = Way{}

func (w Way) isElement() {}

func (w Way) GetID() ID {
	return w.ID
}

func (w Way) GetType() ElementType {
	return WAY
}

func (w Way) GetVersion() Version {
	return w.Version
}

func (w Way) GetTags() Tags {
	return w.Tags
}

// Changeset groups element writes on the remote map service.
type Changeset struct {
	ID        ID
	Comment   string
	CreatedAt time.Time
	Tags      Tags
}
