package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dispochart/pkg/contracts/domain"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a, b ,b,", []string{"a", "b", "b"}},
		{"single", []string{"single"}},
		{" , ,", []string{}},
		{"", []string{}},
		{"Policy,policy", []string{"Policy", "policy"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.in))
		})
	}
}

func TestUniqueTags(t *testing.T) {
	records := []domain.Record{
		{TagList: SplitTags("b, a, b")},
		{TagList: SplitTags("c,a")},
		{TagList: SplitTags("B")},
	}
	assert.Equal(t, []string{"B", "a", "b", "c"}, UniqueTags(records))
}
