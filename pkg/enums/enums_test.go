package enums

import "testing"

func TestParseDataKind(t *testing.T) {
	cases := map[string]DataKind{
		"inventory": DataKindInventory,
		" Sold ":    DataKindSold,
		"sales":     DataKindSold,
		"UNSOLD":    DataKindUnsold,
	}
	for in, want := range cases {
		got, err := ParseDataKind(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s got %s", in, want, got)
		}
	}
	if _, err := ParseDataKind("orders"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestParseListingFormat(t *testing.T) {
	cases := map[string]ListingFormat{
		"FIXED_PRICE": ListingFormatFixedPrice,
		"Buy It Now":  ListingFormatFixedPrice,
		"Auction":     ListingFormatAuction,
		"Chinese":     ListingFormatAuction,
		"":            ListingFormatUnknown,
		"classified":  ListingFormatUnknown,
	}
	for in, want := range cases {
		if got := ParseListingFormat(in); got != want {
			t.Fatalf("format %q: expected %s got %s", in, want, got)
		}
	}
}

func TestParseRelistStatus(t *testing.T) {
	cases := map[string]RelistStatus{
		"Yes":          RelistStatusRelisted,
		"no":           RelistStatusNotRelisted,
		"Not relisted": RelistStatusNotRelisted,
		"Relisted as":  RelistStatusRelisted,
		"":             RelistStatusUnknown,
		"maybe":        RelistStatusUnknown,
	}
	for in, want := range cases {
		if got := ParseRelistStatus(in); got != want {
			t.Fatalf("relist %q: expected %s got %s", in, want, got)
		}
	}
}

func TestInventoryStatusValidation(t *testing.T) {
	if !InventoryStatusSold.IsValid() {
		t.Fatal("sold should be valid")
	}
	if _, err := ParseInventoryStatus("archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
