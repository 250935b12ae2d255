// Package resources names the fonts and XObjects a page uses and builds
// its /Resources dictionary.
package resources

import (
	"fmt"
	"sort"

	"github.com/wudi/flowpdf/ir/raw"
)

type ResourceCategory string

const (
	CategoryFont    ResourceCategory = "Font"
	CategoryXObject ResourceCategory = "XObject"
)

var prefixes = map[ResourceCategory]string{
	CategoryFont:    "F",
	CategoryXObject: "Im",
}

// Set collects the resources of one page. Each indirect object gets one
// name per category, allocated in first-use order.
type Set struct {
	names map[ResourceCategory]map[raw.ObjectRef]string
	refs  map[ResourceCategory]map[string]raw.ObjectRef
}

func NewSet() *Set {
	return &Set{
		names: make(map[ResourceCategory]map[raw.ObjectRef]string),
		refs:  make(map[ResourceCategory]map[string]raw.ObjectRef),
	}
}

// Add returns the resource name for ref, allocating one if needed.
func (s *Set) Add(category ResourceCategory, ref raw.ObjectRef) string {
	byRef := s.names[category]
	if byRef == nil {
		byRef = make(map[raw.ObjectRef]string)
		s.names[category] = byRef
		s.refs[category] = make(map[string]raw.ObjectRef)
	}
	if name, ok := byRef[ref]; ok {
		return name
	}
	name := fmt.Sprintf("%s%d", prefixes[category], len(byRef)+1)
	byRef[ref] = name
	s.refs[category][name] = ref
	return name
}

// Lookup returns the object a resource name refers to.
func (s *Set) Lookup(category ResourceCategory, name string) (raw.ObjectRef, error) {
	if ref, ok := s.refs[category][name]; ok {
		return ref, nil
	}
	return raw.ObjectRef{}, fmt.Errorf("resource not found: %s/%s", category, name)
}

func (s *Set) Len(category ResourceCategory) int { return len(s.names[category]) }

// Dict builds the /Resources dictionary.
func (s *Set) Dict() *raw.DictObj {
	d := raw.Dict()
	procSet := raw.NewArray(raw.NameLiteral("PDF"), raw.NameLiteral("Text"))
	for _, category := range []ResourceCategory{CategoryFont, CategoryXObject} {
		refs := s.refs[category]
		if len(refs) == 0 {
			continue
		}
		names := make([]string, 0, len(refs))
		for name := range refs {
			names = append(names, name)
		}
		sort.Strings(names)
		sub := raw.Dict()
		for _, name := range names {
			r := refs[name]
			sub.SetName(name, raw.Ref(r.Num, r.Gen))
		}
		d.SetName(string(category), sub)
		if category == CategoryXObject {
			procSet.Append(raw.NameLiteral("ImageB"))
			procSet.Append(raw.NameLiteral("ImageC"))
		}
	}
	d.SetName("ProcSet", procSet)
	return d
}
