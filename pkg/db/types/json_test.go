package dbtypes

import "testing"

type line struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

func TestJSONValueAndScan(t *testing.T) {
	in := NewJSON([]line{{Name: "Saka-Saka", Tags: []string{"Piment"}}})
	raw, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out JSON[[]line]
	if err := out.Scan([]byte(raw.(string))); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(out.Val) != 1 || out.Val[0].Name != "Saka-Saka" || out.Val[0].Tags[0] != "Piment" {
		t.Fatalf("unexpected round trip %+v", out.Val)
	}
}

func TestJSONScanNilAndUnsupported(t *testing.T) {
	out := NewJSON([]line{{Name: "x"}})
	if err := out.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if out.Val != nil {
		t.Fatalf("expected zero value after nil scan, got %+v", out.Val)
	}
	if err := out.Scan(42); err == nil {
		t.Fatal("expected error for unsupported source type")
	}
}
