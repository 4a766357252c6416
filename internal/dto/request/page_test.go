package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQueryNormalize(t *testing.T) {
	cases := []struct {
		in                  PageQuery
		page, limit, offset int
	}{
		{PageQuery{}, 1, 12, 0},
		{PageQuery{Page: 3, Limit: 10}, 3, 10, 20},
		{PageQuery{Page: 2, Limit: 500}, 2, 50, 50},
	}
	for _, tc := range cases {
		page, limit, offset := tc.in.Normalize()
		assert.Equal(t, tc.page, page)
		assert.Equal(t, tc.limit, limit)
		assert.Equal(t, tc.offset, offset)
	}
}
