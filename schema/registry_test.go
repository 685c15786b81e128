package schema

import (
	"reflect"
	"testing"
)

func stockRegistry() *Registry {
	return NewRegistry([]DepartmentInfo{
		{Name: "HR"},
		{Name: "Engineering"},
		{Name: "Sales"},
		{Name: "Finance"},
		{Name: "Support"},
	})
}

func TestNewRegistryDedupes(t *testing.T) {
	r := NewRegistry([]DepartmentInfo{
		{Name: "Sales", Scope: []string{"pricing"}},
		{Name: "sales", Scope: []string{"shadowed"}},
		{Name: "  "},
		{Name: "Finance"},
	})
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	info, ok := r.Info("SALES")
	if !ok {
		t.Fatal("Info(SALES) not found")
	}
	if len(info.Scope) != 1 || info.Scope[0] != "pricing" {
		t.Errorf("scope = %v, want the first registration kept", info.Scope)
	}
}

func TestNormalize(t *testing.T) {
	r := stockRegistry()
	cases := []struct {
		in   string
		want Department
		ok   bool
	}{
		{"Sales", "Sales", true},
		{"sales", "Sales", true},
		{"  FINANCE  ", "Finance", true},
		{"Legal", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := r.Normalize(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Normalize(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAllKeepsConstructionOrder(t *testing.T) {
	want := []Department{"HR", "Engineering", "Sales", "Finance", "Support"}
	if got := stockRegistry().All(); !reflect.DeepEqual(got, want) {
		t.Fatalf("All = %v, want %v", got, want)
	}
}

func TestCanonicalize(t *testing.T) {
	r := stockRegistry()
	cases := []struct {
		name string
		in   []Department
		want []Department
	}{
		{"reorders", []Department{"Support", "HR"}, []Department{"HR", "Support"}},
		{"dedupes", []Department{"Sales", "sales", "SALES"}, []Department{"Sales"}},
		{"drops unknown", []Department{"Sales", "Legal"}, []Department{"Sales"}},
		{"all unknown", []Department{"Legal", "Marketing"}, []Department{}},
		{"empty", nil, []Department{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Canonicalize(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Canonicalize(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
