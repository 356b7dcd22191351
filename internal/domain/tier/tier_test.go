package tier

import "testing"

func TestCPUScore(t *testing.T) {
	tests := []struct {
		cpu  string
		want int
	}{
		{"Apple M3 Max", 12},
		{"Apple M3 Pro 11-core", 12},
		{"Apple M3", 11},
		{"Apple M2 Pro", 10},
		{"apple m2 max", 10},
		{"Apple M2", 9},
		{"Apple M1 Pro", 8},
		{"Apple M1 Max", 8},
		{"Apple M1", 7},
		{"Intel Core i9-13980HX", 10},
		{"AMD Ryzen 9 7945HX", 10},
		{"Intel Core i7-1355U", 8},
		{"AMD Ryzen 7 7840HS", 8},
		{"Intel Core i5-1335U", 6},
		{"AMD RYZEN 5 7530U", 6},
		{"Intel Core i3-1215U", 4},
		{"AMD Ryzen 3 7320U", 4},
		{"Intel Celeron N4500", 2},
		{"", 2},
	}
	for _, tc := range tests {
		if got := CPUScore(tc.cpu); got != tc.want {
			t.Errorf("CPUScore(%q) = %d, want %d", tc.cpu, got, tc.want)
		}
	}
}

func TestCPUScore_ProTierBeforeBase(t *testing.T) {
	if got := CPUScore("Apple M1 Pro"); got != 8 {
		t.Fatalf("Apple M1 Pro must match the pro rule, got %d", got)
	}
}

func TestGPUScore(t *testing.T) {
	tests := []struct {
		gpu  string
		want int
	}{
		{"NVIDIA GeForce RTX 4090", 12},
		{"NVIDIA GeForce RTX 4080", 11},
		{"NVIDIA GeForce RTX 4070", 10},
		{"NVIDIA GeForce RTX 4060", 9},
		{"NVIDIA GeForce RTX 4050", 8},
		{"NVIDIA GeForce RTX 3080 Ti", 8},
		{"NVIDIA GeForce RTX 3070", 7},
		{"nvidia geforce rtx 3060", 6},
		{"NVIDIA GeForce RTX 2050", 6},
		{"NVIDIA GeForce RTX 3050", 5},
		{"Intel Iris Xe Graphics", 4},
		{"AMD Radeon Graphics", 3},
		{"Integrated 10-core GPU", 2},
		{"Intel UHD Graphics", 2},
		{"Mali-G52", 1},
	}
	for _, tc := range tests {
		if got := GPUScore(tc.gpu); got != tc.want {
			t.Errorf("GPUScore(%q) = %d, want %d", tc.gpu, got, tc.want)
		}
	}
}

func TestTable_FirstMatchWins(t *testing.T) {
	tbl := NewTable(0,
		Rule{Patterns: []string{"ABC"}, Score: 3},
		Rule{Patterns: []string{"ab"}, Score: 2},
	)
	if got := tbl.Score("xabcx"); got != 3 {
		t.Errorf("expected first rule to win, got %d", got)
	}
	if got := tbl.Score("xabx"); got != 2 {
		t.Errorf("expected second rule, got %d", got)
	}
	if got := tbl.Score("zzz"); got != tbl.fallback {
		t.Errorf("expected fallback, got %d", got)
	}
}
