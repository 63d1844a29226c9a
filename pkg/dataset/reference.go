package dataset

import (
	"github.com/MOTRoundTables/google-control-sub000/pkg/geo"
	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
)

// ReferenceLink is one directed road segment of the reference network,
// identified by its (From, To) node pair. The geometry is geographic
// (WGS84) and read-only once loaded.
type ReferenceLink struct {
	From     int64
	To       int64
	Geometry []geo.Coordinate
}

func (l ReferenceLink) Key() string {
	return LinkKey(l.From, l.To)
}

// ReferenceTable holds the loaded reference network. Safe for concurrent
// reads; never mutated after construction.
type ReferenceTable struct {
	links []ReferenceLink
	byKey map[string]int
}

func NewReferenceTable(links []ReferenceLink) (*ReferenceTable, error) {
	byKey := make(map[string]int, len(links))
	for i, l := range links {
		key := l.Key()
		if _, ok := byKey[key]; ok {
			return nil, util.WrapErrorf(nil, util.ErrConflict, "duplicate reference link %s", key)
		}
		byKey[key] = i
	}
	return &ReferenceTable{links: links, byKey: byKey}, nil
}

func (t *ReferenceTable) Lookup(key string) (ReferenceLink, bool) {
	i, ok := t.byKey[key]
	if !ok {
		return ReferenceLink{}, false
	}
	return t.links[i], true
}

func (t *ReferenceTable) Links() []ReferenceLink {
	return t.links
}

func (t *ReferenceTable) Len() int {
	return len(t.links)
}
