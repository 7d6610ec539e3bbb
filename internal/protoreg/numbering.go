package protoreg

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Tags come from a hash of the name so that adding or removing a field never
// renumbers its siblings. 19000-19999 is reserved by protobuf.
const (
	maxTag           = 31767
	reservedTagStart = 19000
	reservedTagEnd   = 19999
	tagCapacity      = maxTag - (reservedTagEnd - reservedTagStart + 1)
)

func allocateFieldNumbers(fbs []*protobuilder.FieldBuilder) error {
	names := make([]string, len(fbs))
	for i, fb := range fbs {
		names[i] = string(fb.Name())
	}
	tags, err := assignTags(names)
	if err != nil {
		return err
	}
	for i, fb := range fbs {
		fb.SetNumber(protoreflect.FieldNumber(tags[i]))
	}
	return nil
}

// allocateEnumValueNumbers numbers values from 1 up; 0 belongs to the
// UNSPECIFIED value.
func allocateEnumValueNumbers(evbs []*protobuilder.EnumValueBuilder) error {
	names := make([]string, len(evbs))
	for i, evb := range evbs {
		names[i] = string(evb.Name())
	}
	tags, err := assignTags(names)
	if err != nil {
		return err
	}
	for i, evb := range evbs {
		evb.SetNumber(protoreflect.EnumNumber(tags[i]))
	}
	return nil
}

// assignTags maps every name to a tag in 1..maxTag outside the reserved block.
// Names are placed in sorted order and collisions probe linearly, so the
// result depends only on the set of names.
func assignTags(names []string) ([]int32, error) {
	if len(names) > tagCapacity {
		return nil, fmt.Errorf("%d names exceed the %d available tags", len(names), tagCapacity)
	}
	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return names[order[i]] < names[order[j]] })

	out := make([]int32, len(names))
	used := make(map[int32]bool, len(names))
	for _, i := range order {
		tag := int32(xxhash.Sum64String(names[i])%maxTag) + 1
		for used[tag] || isReserved(tag) {
			tag = nextTag(tag)
		}
		used[tag] = true
		out[i] = tag
	}
	return out, nil
}

func isReserved(tag int32) bool { return tag >= reservedTagStart && tag <= reservedTagEnd }

func nextTag(tag int32) int32 {
	switch {
	case tag == maxTag:
		return 1
	case tag == reservedTagStart-1, isReserved(tag):
		return reservedTagEnd + 1
	}
	return tag + 1
}
