package database

import (
	"slices"
	"testing"

	"github.com/nao1215/darklink/internal/model"
)

func failedResult(url string) *model.URLResult {
	attempts := []model.Attempt{
		{Profile: model.ProfileDesktop, Error: "connection refused"},
		{Profile: model.ProfileMobile, Error: "connection refused"},
	}
	return model.NewURLResult(url, attempts, nil, nil, "connection refused")
}

func TestCompare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		previous    *model.URLResult
		current     *model.URLResult
		wantAdded   []string
		wantRemoved []string
		wantBody    bool
		wantDown    bool
	}{
		{
			name:      "first check",
			previous:  nil,
			current:   testResult("u", []string{"casino"}, "h"),
			wantAdded: []string{"casino"},
		},
		{
			name:     "unchanged",
			previous: testResult("u", []string{"casino"}, "h"),
			current:  testResult("u", []string{"casino"}, "h"),
		},
		{
			name:        "rule swapped and body changed",
			previous:    testResult("u", []string{"casino", "loan"}, "h1"),
			current:     testResult("u", []string{"casino", "viagra"}, "h2"),
			wantAdded:   []string{"viagra"},
			wantRemoved: []string{"loan"},
			wantBody:    true,
		},
		{
			name:     "unreachable previous check is not compared",
			previous: failedResult("u"),
			current:  testResult("u", []string{"casino"}, "h"),
		},
		{
			name:     "unreachable current check",
			previous: testResult("u", []string{"casino"}, "h"),
			current:  failedResult("u"),
			wantDown: true,
		},
		{
			name:    "nil current",
			current: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Compare(tt.previous, tt.current)
			if !slices.Equal(got.Added, tt.wantAdded) {
				t.Errorf("Added = %v, want %v", got.Added, tt.wantAdded)
			}
			if !slices.Equal(got.Removed, tt.wantRemoved) {
				t.Errorf("Removed = %v, want %v", got.Removed, tt.wantRemoved)
			}
			if got.BodyChanged != tt.wantBody {
				t.Errorf("BodyChanged = %v, want %v", got.BodyChanged, tt.wantBody)
			}
			if got.Unreachable != tt.wantDown {
				t.Errorf("Unreachable = %v, want %v", got.Unreachable, tt.wantDown)
			}
		})
	}
}

func TestChanges(t *testing.T) {
	t.Parallel()

	records := []URLRecord{
		{RunID: 3, Result: testResult("u", []string{"viagra"}, "c")},
		{RunID: 2, Result: testResult("u", []string{"casino"}, "b")},
		{RunID: 1, Result: testResult("u", nil, "b")},
	}

	changes := Changes(records)
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	if !slices.Equal(changes[0].Added, []string{"viagra"}) || !slices.Equal(changes[0].Removed, []string{"casino"}) {
		t.Errorf("newest change = %+v", changes[0])
	}
	if !slices.Equal(changes[1].Added, []string{"casino"}) || changes[1].BodyChanged {
		t.Errorf("middle change = %+v", changes[1])
	}
	if !changes[2].Empty() {
		t.Errorf("oldest check without rules should be empty, got %+v", changes[2])
	}
}

func TestChangesAcrossOutage(t *testing.T) {
	t.Parallel()

	records := []URLRecord{
		{RunID: 4, Result: testResult("u", []string{"casino"}, "a")},
		{RunID: 3, Result: failedResult("u")},
		{RunID: 2, Result: failedResult("u")},
		{RunID: 1, Result: testResult("u", []string{"casino"}, "a")},
	}

	changes := Changes(records)
	if !changes[0].Empty() {
		t.Errorf("recovered check should compare with run 1, got %+v", changes[0])
	}
	for i := 1; i <= 2; i++ {
		c := changes[i]
		if !c.Unreachable || len(c.Removed) > 0 || len(c.Added) > 0 {
			t.Errorf("failed check %d = %+v, want unreachable without rule changes", i, c)
		}
	}
	if !slices.Equal(changes[3].Added, []string{"casino"}) {
		t.Errorf("first check = %+v", changes[3])
	}

	t.Run("first reachable check after failures adds its rules", func(t *testing.T) {
		t.Parallel()

		got := Changes([]URLRecord{
			{RunID: 2, Result: testResult("u", []string{"casino"}, "a")},
			{RunID: 1, Result: failedResult("u")},
		})
		if !slices.Equal(got[0].Added, []string{"casino"}) || !got[1].Unreachable {
			t.Errorf("unexpected changes %+v", got)
		}
	})
}
