package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestTotalPagesAndPaginate(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(6, 10))
	assert.Equal(t, 2, TotalPages(12, 9))

	start, end := Paginate(12, 2, 9)
	assert.Equal(t, 9, start)
	assert.Equal(t, 12, end)

	start, end = Paginate(12, 7, 9)
	assert.Equal(t, 9, start, "out of range pages clamp to the last page")
	assert.Equal(t, 12, end)

	start, end = Paginate(0, 1, 9)
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, end)
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 0, nil},
		{1, 3, []int{1, 2, 3}},
		{2, 5, []int{1, 2, 3, 4, 5}},
		{1, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{3, 10, []int{1, 2, 3, 4, Ellipsis, 10}},
		{5, 10, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{8, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
		{10, 10, []int{1, Ellipsis, 7, 8, 9, 10}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, PageWindow(tc.current, tc.total)); diff != "" {
			t.Fatalf("PageWindow(%d, %d) mismatch (-want +got):\n%s", tc.current, tc.total, diff)
		}
	}
}
