package prefs

import (
	"testing"

	"github.com/tripscout/tripscout/internal/common"
	"github.com/tripscout/tripscout/internal/models"
	"github.com/tripscout/tripscout/internal/taxonomy"
)

func newStore() *Store {
	return NewStore(common.GetLogger()).(*Store)
}

func intp(v int) *int                          { return &v }
func boolp(v bool) *bool                       { return &v }
func strp(v string) *string                    { return &v }
func modep(v models.SearchMode) *models.SearchMode { return &v }
func groupp(v models.GroupType) *models.GroupType  { return &v }
func budgetp(v models.Budget) *models.Budget       { return &v }

func TestDefaultsAreRunnable(t *testing.T) {
	s := newStore()
	p := s.Read()

	if len(p.Subcategories) == 0 {
		t.Fatal("default selection must not be empty")
	}
	if !p.Runnable() {
		t.Fatal("default snapshot must be runnable")
	}
	if p.PeopleCount != 3 || p.RadiusMeters != 4500 {
		t.Errorf("unexpected defaults: people=%d radius=%d", p.PeopleCount, p.RadiusMeters)
	}
}

func TestClamping(t *testing.T) {
	tests := []struct {
		name       string
		people     int
		radius     int
		wantPeople int
		wantRadius int
	}{
		{"below bounds", -4, 20, 1, 1000},
		{"above bounds", 99, 90000, 10, 15000},
		{"at bounds", 1, 15000, 1, 15000},
		{"inside bounds", 4, 7500, 4, 7500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			p := s.Apply(models.PreferenceUpdate{PeopleCount: intp(tt.people), RadiusMeters: intp(tt.radius)})
			if p.PeopleCount != tt.wantPeople {
				t.Errorf("people = %d, want %d", p.PeopleCount, tt.wantPeople)
			}
			if p.RadiusMeters != tt.wantRadius {
				t.Errorf("radius = %d, want %d", p.RadiusMeters, tt.wantRadius)
			}
		})
	}
}

func TestSubcategoryNormalizationAndRepair(t *testing.T) {
	s := newStore()

	// Mixed valid/invalid input keeps valid ids in first-occurrence order.
	p := s.Apply(models.PreferenceUpdate{Subcategories: []string{"Museum", "museum", "bogus", "cinema"}})
	want := []string{"museum", "cinema"}
	if len(p.Subcategories) != 2 || p.Subcategories[0] != want[0] || p.Subcategories[1] != want[1] {
		t.Fatalf("selection = %v, want %v", p.Subcategories, want)
	}

	// Emptying the selection repairs to the active category's full leaf set.
	// museum/cinema moved the active category to "fun".
	p = s.Apply(models.PreferenceUpdate{Subcategories: []string{"nonsense"}})
	if len(p.Subcategories) == 0 {
		t.Fatal("selection must never be empty")
	}
	funLeaves := taxonomy.CategoryLeafIDs("fun")
	if len(p.Subcategories) != len(funLeaves) {
		t.Errorf("repaired selection = %v, want all leaves of fun %v", p.Subcategories, funLeaves)
	}

	// Invariant: every stored id is a valid leaf.
	for _, id := range p.Subcategories {
		if !taxonomy.IsLeaf(id) {
			t.Errorf("stored id %q is not a taxonomy leaf", id)
		}
	}
}

func TestCategorySwitchIsExclusive(t *testing.T) {
	s := newStore()
	p := s.Apply(models.PreferenceUpdate{ActiveCategory: strp("shopping")})

	want := taxonomy.CategoryLeafIDs("shopping")
	if len(p.Subcategories) != len(want) {
		t.Fatalf("selection = %v, want %v", p.Subcategories, want)
	}
	for i := range want {
		if p.Subcategories[i] != want[i] {
			t.Errorf("selection[%d] = %q, want %q", i, p.Subcategories[i], want[i])
		}
	}

	// Unknown category ids are ignored.
	before := s.Read()
	after := s.Apply(models.PreferenceUpdate{ActiveCategory: strp("nope")})
	if len(after.Subcategories) != len(before.Subcategories) {
		t.Errorf("unknown category changed the selection: %v", after.Subcategories)
	}
}

func TestUnknownEnumsIgnored(t *testing.T) {
	s := newStore()
	before := s.Read()

	after := s.Apply(models.PreferenceUpdate{
		SearchMode: modep(models.SearchMode("teleport")),
		GroupType:  groupp(models.GroupType("herd")),
		Budget:     budgetp(models.Budget("infinite")),
	})

	if after.SearchMode != before.SearchMode || after.GroupType != before.GroupType || after.Budget != before.Budget {
		t.Errorf("unknown enum values must be ignored: %+v", after)
	}
}

func TestCityTrimmedAndRunnable(t *testing.T) {
	s := newStore()
	s.Apply(models.PreferenceUpdate{SearchMode: modep(models.SearchModeCity), City: strp("  Tehran  ")})

	p := s.Read()
	if p.City != "Tehran" {
		t.Errorf("city = %q, want Tehran", p.City)
	}
	if !p.Runnable() {
		t.Error("city mode with a city must be runnable")
	}

	s.Apply(models.PreferenceUpdate{City: strp("   ")})
	if s.Read().Runnable() {
		t.Error("city mode with blank city must not be runnable")
	}
}

func TestUserOriginIsSticky(t *testing.T) {
	s := newStore()

	if src := s.Origin().Source; src != models.OriginDemo {
		t.Fatalf("boot origin source = %q, want demo", src)
	}

	s.SetUserOrigin(35.7, 51.4)

	// Backend demo confirmation must not downgrade a user origin.
	got, changed := s.ConfirmOrigin(models.Origin{Lat: 1, Lon: 2, Source: models.OriginDemo})
	if changed || got.Source != models.OriginUser {
		t.Errorf("user origin downgraded: %+v changed=%v", got, changed)
	}

	// A fresh grant still replaces it.
	next := s.SetUserOrigin(35.8, 51.5)
	if next.Lat != 35.8 || next.Source != models.OriginUser {
		t.Errorf("fresh grant not applied: %+v", next)
	}
}

func TestConfirmOriginAppliesToNonUser(t *testing.T) {
	s := newStore()

	got, changed := s.ConfirmOrigin(models.Origin{Lat: 32.65, Lon: 51.66, Source: models.OriginCity})
	if !changed || got.Source != models.OriginCity || got.Lat != 32.65 {
		t.Errorf("city confirmation not applied: %+v changed=%v", got, changed)
	}

	// Unknown sources are ignored.
	_, changed = s.ConfirmOrigin(models.Origin{Lat: 0, Lon: 0, Source: models.OriginSource("satellite")})
	if changed {
		t.Error("unknown origin source must be ignored")
	}
}

func TestApplyReturnsCopy(t *testing.T) {
	s := newStore()
	p := s.Read()
	p.Subcategories[0] = "mutated"

	if s.Read().Subcategories[0] == "mutated" {
		t.Error("Read must hand out value copies")
	}
}
