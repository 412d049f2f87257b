package formula

import (
	"reflect"
	"sort"
	"testing"
)

func TestDiscoverReferencedSheetsQuotedMasksUnquoted(t *testing.T) {
	// "'My Sheet'!A1" must not additionally yield "Sheet" as an unquoted match.
	got := DiscoverReferencedSheets("='My Sheet'!A1+1", map[string]bool{})
	want := []string{"My Sheet"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscoverReferencedSheetsMixed(t *testing.T) {
	got := DiscoverReferencedSheets("=Input!A1+'My Sheet'!B1+Calc!C1", map[string]bool{"Calc": true})
	sort.Strings(got)
	want := []string{"Input", "My Sheet"}
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscoverReferencedSheetsNone(t *testing.T) {
	got := DiscoverReferencedSheets("=A1+B1", map[string]bool{})
	if len(got) != 0 {
		t.Errorf("got %v", got)
	}
}
