package batch

import (
	"context"
	"errors"
	"reflect"
	"runtime"
	"testing"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		n, parts int
		want     []Span
	}{
		{0, 4, nil},
		{3, 8, []Span{{0, 1}, {1, 2}, {2, 3}}},
		{10, 3, []Span{{0, 4}, {4, 7}, {7, 10}}},
		{5, 0, []Span{{0, 5}}},
	}
	for _, tc := range cases {
		if got := Split(tc.n, tc.parts); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Split(%d, %d) = %v, want %v", tc.n, tc.parts, got, tc.want)
		}
	}
}

func TestWorkers(t *testing.T) {
	t.Parallel()

	if got := Workers(3, 1); got != 3 {
		t.Fatalf("explicit workers = %d", got)
	}
	want := runtime.NumCPU() - 1
	if want < 1 {
		want = 1
	}
	if got := Workers(0, 1); got != want {
		t.Fatalf("Workers(0, 1) = %d, want %d", got, want)
	}
	if got := Workers(0, 1<<20); got != 1 {
		t.Fatalf("Workers never goes below one, got %d", got)
	}
}

func TestMapPreservesOrder(t *testing.T) {
	t.Parallel()

	items := make([]int, 101)
	for i := range items {
		items[i] = i
	}

	for _, workers := range []int{1, 4, 16, 200} {
		out, err := Map(context.Background(), items, workers, func(v int) (int, error) {
			return v * v, nil
		})
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		for i, v := range out {
			if v != i*i {
				t.Fatalf("workers=%d: out[%d] = %d", workers, i, v)
			}
		}
	}
}

func TestMapEmpty(t *testing.T) {
	t.Parallel()

	out, err := Map(context.Background(), []string(nil), 4, func(s string) (int, error) {
		return len(s), nil
	})
	if err != nil || len(out) != 0 {
		t.Fatalf("Map(nil) = %v, %v", out, err)
	}
}

func TestMapSurfacesError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	out, err := Map(context.Background(), []int{1, 2, 3, 4}, 2, func(v int) (int, error) {
		if v == 3 {
			return 0, boom
		}
		return v, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if out != nil {
		t.Fatalf("partial output returned: %v", out)
	}
}

func TestMapConvertsPanic(t *testing.T) {
	t.Parallel()

	_, err := Map(context.Background(), []int{1, 2, 3}, 3, func(v int) (int, error) {
		if v == 2 {
			panic("bad row")
		}
		return v, nil
	})
	if !errors.Is(err, ErrWorkerPanic) {
		t.Fatalf("err = %v, want ErrWorkerPanic", err)
	}
}
