package shade_test

import (
	"hatchplot/pkg/shade"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		in   uint8
		want uint8
	}{
		{0, shade.L0},
		{49, shade.L0},
		{50, shade.L1},
		{99, shade.L1},
		{100, shade.L2},
		{157, shade.L2},
		{158, shade.L3},
		{211, shade.L3},
		{212, shade.L4},
		{239, shade.L4},
		{240, shade.L5},
		{255, shade.L5},
	}
	for _, test := range tests {
		if got := shade.Classify(test.in); got != test.want {
			t.Errorf("Classify(%d) = %d, want %d", test.in, got, test.want)
		}
	}
}

func TestClassifyStable(t *testing.T) {
	// Every level must classify to itself, otherwise a prepared grid would
	// change when it is run through the classifier again.
	for i, level := range shade.Levels {
		if got := shade.Classify(level); got != level {
			t.Errorf("Classify(%d) = %d", level, got)
		}
		if got := shade.Band(level); got != i {
			t.Errorf("Band(%d) = %d, want %d", level, got, i)
		}
	}
}

func TestBucket(t *testing.T) {
	var got []int
	for _, v := range []uint8{0, 41, 42, 83, 84, 100, 158, 212, 251, 252, 255} {
		got = append(got, shade.Bucket(v))
	}
	want := []int{0, 0, 1, 1, 2, 2, 3, 5, 5, 6, 6}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("incorrect buckets: %s", diff)
	}
}

func TestBucketIdempotent(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := shade.Bucket(uint8(v))
		if b < 0 || b > shade.MaxBucket {
			t.Fatalf("Bucket(%d) = %d out of range", v, b)
		}
		if again := shade.Bucket(shade.BucketGray(b)); again != b {
			t.Errorf("Bucket(BucketGray(%d)) = %d", b, again)
		}
	}
}
