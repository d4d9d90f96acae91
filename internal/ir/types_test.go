package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []int{}, SortedUnique(nil))
	assert.Equal(t, []int{1, 2, 5}, SortedUnique([]int{5, 1, 2, 1, 5}))

	in := []int{3, 1}
	_ = SortedUnique(in)
	assert.Equal(t, []int{3, 1}, in, "input must not be modified")
}

func TestQueryRecordVerdict(t *testing.T) {
	rec := QueryRecord{Word: "ab", Accepted: true, Prefix: true, State: 1, Seq: 4}
	assert.Equal(t, Verdict{Word: "ab", Accepted: true, Prefix: true, State: 1}, rec.Verdict())
}
