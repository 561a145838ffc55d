package model_selection_test

import (
	"testing"

	"github.com/liamdp12/scikit-learn/sklearn/model_selection"
)

func TestKFold_Split(t *testing.T) {
	tests := []struct {
		name     string
		nSplits  int
		nSamples int
		wantErr  bool
	}{
		{"even split", 5, 100, false},
		{"uneven split", 3, 10, false},
		{"two folds", 2, 2, false},
		{"one fold", 1, 10, true},
		{"more folds than samples", 5, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kf := model_selection.NewKFold(tt.nSplits)
			folds, err := kf.Split(tt.nSamples)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}
			if len(folds) != tt.nSplits {
				t.Fatalf("expected %d folds, got %d", tt.nSplits, len(folds))
			}

			// Every sample appears in exactly one test fold, and never in
			// its own fold's train set.
			seen := make(map[int]int)
			for _, fold := range folds {
				if len(fold.Train)+len(fold.Test) != tt.nSamples {
					t.Errorf("fold sizes sum to %d, want %d",
						len(fold.Train)+len(fold.Test), tt.nSamples)
				}
				inTrain := make(map[int]bool, len(fold.Train))
				for _, idx := range fold.Train {
					inTrain[idx] = true
				}
				for _, idx := range fold.Test {
					seen[idx]++
					if inTrain[idx] {
						t.Errorf("index %d in both train and test", idx)
					}
				}
			}
			for i := 0; i < tt.nSamples; i++ {
				if seen[i] != 1 {
					t.Errorf("index %d appears in %d test folds, want 1", i, seen[i])
				}
			}
		})
	}
}

func TestKFold_ShuffleReproducible(t *testing.T) {
	split := func() []model_selection.Fold {
		kf := model_selection.NewKFold(4,
			model_selection.WithKFoldShuffle(true),
			model_selection.WithKFoldRandomState(11),
		)
		folds, err := kf.Split(20)
		if err != nil {
			t.Fatalf("Split failed: %v", err)
		}
		return folds
	}

	a, b := split(), split()
	for f := range a {
		for i := range a[f].Test {
			if a[f].Test[i] != b[f].Test[i] {
				t.Fatal("same seed produced different splits")
			}
		}
	}
}

func TestParamGrid_Combinations(t *testing.T) {
	grid := model_selection.ParamGrid{
		"C":        {0.1, 1.0},
		"max_iter": {10, 20, 30},
	}

	combos := grid.Combinations()
	if len(combos) != 6 {
		t.Fatalf("expected 6 combinations, got %d", len(combos))
	}
	if grid.Size() != 6 {
		t.Errorf("Size = %d, want 6", grid.Size())
	}

	// Deterministic order: C varies slowest (sorted key order).
	if combos[0]["C"] != 0.1 || combos[0]["max_iter"] != 10 {
		t.Errorf("unexpected first combination: %v", combos[0])
	}
	if combos[5]["C"] != 1.0 || combos[5]["max_iter"] != 30 {
		t.Errorf("unexpected last combination: %v", combos[5])
	}
}

func TestParamGrid_Empty(t *testing.T) {
	combos := model_selection.ParamGrid{}.Combinations()
	if len(combos) != 1 || len(combos[0]) != 0 {
		t.Errorf("empty grid should yield one empty combination, got %v", combos)
	}
}
