package resources

import (
	"testing"

	"github.com/wudi/flowpdf/ir/raw"
)

func TestSetNamesAndDict(t *testing.T) {
	s := NewSet()
	helv := raw.ObjectRef{Num: 5}
	bold := raw.ObjectRef{Num: 8}
	img := raw.ObjectRef{Num: 11}

	if got := s.Add(CategoryFont, helv); got != "F1" {
		t.Fatalf("first font = %s", got)
	}
	if got := s.Add(CategoryFont, bold); got != "F2" {
		t.Fatalf("second font = %s", got)
	}
	if got := s.Add(CategoryFont, helv); got != "F1" {
		t.Fatalf("re-adding a font should reuse its name, got %s", got)
	}
	if got := s.Add(CategoryXObject, img); got != "Im1" {
		t.Fatalf("image = %s", got)
	}
	if s.Len(CategoryFont) != 2 || s.Len(CategoryXObject) != 1 {
		t.Fatalf("unexpected counts")
	}

	ref, err := s.Lookup(CategoryFont, "F2")
	if err != nil || ref != bold {
		t.Fatalf("Lookup(F2) = %v, %v", ref, err)
	}
	if _, err := s.Lookup(CategoryXObject, "Im9"); err == nil {
		t.Fatalf("expected missing resource error")
	}

	d := s.Dict()
	fontsObj, ok := d.Get(raw.NameLiteral("Font"))
	if !ok {
		t.Fatalf("missing /Font")
	}
	f1, _ := fontsObj.(*raw.DictObj).Get(raw.NameLiteral("F1"))
	if f1.(raw.RefObj).Ref() != helv {
		t.Errorf("F1 -> %v", f1)
	}
	procSet, _ := d.Get(raw.NameLiteral("ProcSet"))
	if procSet.(*raw.ArrayObj).Len() != 4 {
		t.Errorf("ProcSet should list image procedures when images are used")
	}
}

func TestEmptySet(t *testing.T) {
	d := NewSet().Dict()
	if _, ok := d.Get(raw.NameLiteral("Font")); ok {
		t.Errorf("empty set should not write /Font")
	}
	if d.Len() != 1 {
		t.Errorf("expected only /ProcSet, got %v", d.SortedKeys())
	}
}
