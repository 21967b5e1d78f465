package store

import (
	"reflect"
	"testing"

	"rostersearch/internal/record"
)

func dictRecords() []record.Prepared {
	return record.Prepare([]record.Raw{
		{Name: "Alice Johnson"},
		{Name: "Alicia Keys"},
		{Name: "Bob Anderson"},
		{Name: "Alice Johnson"}, // duplicate keeps the first doc number
	})
}

func TestNameDictLookup(t *testing.T) {
	dict, err := BuildNameDict(dictRecords())
	if err != nil {
		t.Fatalf("BuildNameDict error: %v", err)
	}

	if dict.Len() != 3 {
		t.Errorf("Len = %d, want 3", dict.Len())
	}

	doc, ok := dict.Lookup("alice johnson")
	if !ok || doc != 0 {
		t.Errorf("Lookup(alice johnson) = %d,%v, want 0,true", doc, ok)
	}
	if _, ok := dict.Lookup("nobody here"); ok {
		t.Error("Lookup of unknown name should fail")
	}
}

func TestNameDictPrefixDocs(t *testing.T) {
	dict, err := BuildNameDict(dictRecords())
	if err != nil {
		t.Fatalf("BuildNameDict error: %v", err)
	}

	docs := dict.PrefixDocs("ali", 10)
	if !reflect.DeepEqual(docs, []uint32{0, 1}) {
		t.Errorf("PrefixDocs(ali) = %v, want [0 1]", docs)
	}

	docs = dict.PrefixDocs("ali", 1)
	if !reflect.DeepEqual(docs, []uint32{0}) {
		t.Errorf("PrefixDocs(ali, 1) = %v, want [0]", docs)
	}

	if docs = dict.PrefixDocs("zzz", 10); len(docs) != 0 {
		t.Errorf("PrefixDocs(zzz) = %v, want empty", docs)
	}
}

func TestBuildNameDictEmpty(t *testing.T) {
	dict, err := BuildNameDict(nil)
	if err != nil {
		t.Fatalf("BuildNameDict(nil) error: %v", err)
	}
	if _, ok := dict.Lookup("anything"); ok {
		t.Error("empty dictionary should not resolve names")
	}
}
