package layers

import "testing"

func TestDefaultRegistryLookups(t *testing.T) {
	r := Default()

	l, err := r.ByTitle(Parcels.Title)
	if err != nil {
		t.Fatalf("ByTitle: %v", err)
	}
	if l != Parcels {
		t.Errorf("ByTitle returned %+v, want %+v", l, Parcels)
	}

	l, err = r.ByLayerID(Buildings.LayerID)
	if err != nil {
		t.Fatalf("ByLayerID: %v", err)
	}
	if l != Buildings {
		t.Errorf("ByLayerID returned %+v, want %+v", l, Buildings)
	}

	l, err = r.ByCategory(Constructions.CategoryID)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if l != Constructions {
		t.Errorf("ByCategory returned %+v, want %+v", l, Constructions)
	}

	if !r.KnownCategory(Parcels.CategoryID) {
		t.Error("parcels category must be known")
	}
	if r.KnownCategory(12345) {
		t.Error("unregistered category must not be known")
	}
}

func TestRegistryUnknownLookupsFail(t *testing.T) {
	r := Default()
	if _, err := r.ByTitle("no such layer"); err == nil {
		t.Error("expected error for unknown title")
	}
	if _, err := r.ByLayerID(-1); err == nil {
		t.Error("expected error for unknown layer id")
	}
	if _, err := r.ByCategory(-1); err == nil {
		t.Error("expected error for unknown category id")
	}
}

func TestBuilderOverridesDefaults(t *testing.T) {
	custom := Layer{LayerID: Parcels.LayerID, CategoryID: Parcels.CategoryID, Title: "Custom parcels"}
	r := NewBuilder().Add(Parcels).Add(custom).Build()

	l, err := r.ByLayerID(Parcels.LayerID)
	if err != nil {
		t.Fatal(err)
	}
	if l.Title != "Custom parcels" {
		t.Errorf("later addition must win, got %q", l.Title)
	}
}
