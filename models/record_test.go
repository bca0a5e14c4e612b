package models

import "testing"

func TestScanDestMatchesColumnOrder(t *testing.T) {
	var rec RegistrationRecord
	dest := rec.ScanDest()

	if len(dest) != len(RecordColumns) {
		t.Fatalf("scan destinations (%d) out of sync with columns (%d)", len(dest), len(RecordColumns))
	}

	// Spot-check positional agreement by writing through the scan
	// destinations and reading the struct fields back.
	for i, col := range RecordColumns {
		*dest[i].(*string) = col
	}
	if rec.PropertyID != "property_id" {
		t.Fatalf("property_id misaligned, got %q", rec.PropertyID)
	}
	if rec.ProjectNameEn != "project_name_en" {
		t.Fatalf("project_name_en misaligned, got %q", rec.ProjectNameEn)
	}
	if rec.RoomsEn != "rooms_en" {
		t.Fatalf("rooms_en misaligned, got %q", rec.RoomsEn)
	}
	if rec.ActualArea != "actual_area" {
		t.Fatalf("actual_area misaligned, got %q", rec.ActualArea)
	}
	if rec.PropertySubTypeAr != "property_sub_type_ar" {
		t.Fatalf("property_sub_type_ar misaligned, got %q", rec.PropertySubTypeAr)
	}
}

func TestRecordKey(t *testing.T) {
	a := RegistrationRecord{PropertyID: "1", UnitNumber: "101", LandNumber: "5"}
	b := RegistrationRecord{PropertyID: "1", UnitNumber: "102", LandNumber: "5"}

	if a.Key() == b.Key() {
		t.Fatalf("different units must have different keys")
	}
	c := RegistrationRecord{PropertyID: "1", UnitNumber: "101", LandNumber: "5"}
	if a.Key() != c.Key() {
		t.Fatalf("key must be deterministic")
	}
}
