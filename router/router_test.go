package router

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/novatech-ai/deskrouter/classifier"
	"github.com/novatech-ai/deskrouter/schema"
)

type stubClassifier struct {
	result classifier.Result
	err    error
}

func (s *stubClassifier) Classify(context.Context, string) (classifier.Result, error) {
	return s.result, s.err
}

func testRegistry() *schema.Registry {
	return schema.NewRegistry([]schema.DepartmentInfo{
		{Name: "HR", Scope: []string{"hiring"}},
		{Name: "Engineering", Scope: []string{"bugs"}},
		{Name: "Sales", Scope: []string{"pricing"}},
		{Name: "Finance", Scope: []string{"invoices"}},
		{Name: "Support", Scope: []string{"tickets"}},
	})
}

func TestRouter_Route(t *testing.T) {
	reg := testRegistry()
	tests := []struct {
		name       string
		classifier *stubClassifier
		wantState  schema.RouteState
		wantDepts  []schema.Department
	}{
		{
			name:       "single department",
			classifier: &stubClassifier{result: classifier.Result{Departments: []schema.Department{"Sales"}}},
			wantState:  schema.StateRouted,
			wantDepts:  []schema.Department{"Sales"},
		},
		{
			name: "canonical order regardless of model order",
			classifier: &stubClassifier{result: classifier.Result{
				Departments: []schema.Department{"Support", "HR", "Finance"},
			}},
			wantState: schema.StateRouted,
			wantDepts: []schema.Department{"HR", "Finance", "Support"},
		},
		{
			name: "duplicates removed",
			classifier: &stubClassifier{result: classifier.Result{
				Departments: []schema.Department{"Sales", "Sales", "Finance"},
			}},
			wantState: schema.StateRouted,
			wantDepts: []schema.Department{"Sales", "Finance"},
		},
		{
			name:       "empty classification yields EMPTY, not an error",
			classifier: &stubClassifier{result: classifier.Result{Departments: nil}},
			wantState:  schema.StateEmpty,
			wantDepts:  []schema.Department{},
		},
		{
			name:       "malformed output maps to EMPTY",
			classifier: &stubClassifier{result: classifier.Result{Malformed: true}},
			wantState:  schema.StateEmpty,
			wantDepts:  []schema.Department{},
		},
		{
			name:       "gateway failure falls back to all departments",
			classifier: &stubClassifier{err: classifier.ErrUnavailable},
			wantState:  schema.StateFallbackAll,
			wantDepts:  []schema.Department{"HR", "Engineering", "Sales", "Finance", "Support"},
		},
		{
			name:       "wrapped gateway failure falls back to all departments",
			classifier: &stubClassifier{err: errors.New("timeout waiting for model")},
			wantState:  schema.StateFallbackAll,
			wantDepts:  []schema.Department{"HR", "Engineering", "Sales", "Finance", "Support"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Router{Classifier: tt.classifier, Registry: reg}
			decision := r.Route(context.Background(), "some query")
			if decision.State != tt.wantState {
				t.Fatalf("State = %v, want %v", decision.State, tt.wantState)
			}
			if len(decision.Departments) == 0 && len(tt.wantDepts) == 0 {
				return
			}
			if !reflect.DeepEqual(decision.Departments, tt.wantDepts) {
				t.Fatalf("Departments = %v, want %v", decision.Departments, tt.wantDepts)
			}
		})
	}
}

func TestRouter_DecisionIsSubsetOfRegistry(t *testing.T) {
	reg := testRegistry()
	r := &Router{
		Classifier: &stubClassifier{result: classifier.Result{
			Departments: []schema.Department{"Sales", "Legal", "Warehouse"},
		}},
		Registry: reg,
	}
	decision := r.Route(context.Background(), "query")
	for _, d := range decision.Departments {
		if _, ok := reg.Normalize(string(d)); !ok {
			t.Fatalf("decision contains unregistered department %q", d)
		}
	}
	if len(decision.Departments) != 1 || decision.Departments[0] != "Sales" {
		t.Fatalf("unexpected decision: %v", decision.Departments)
	}
}
