package pushindexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "None", NormalizeEmpty(""))
	assert.Equal(t, "x", NormalizeEmpty("x"))
	assert.Equal(t, " ", NormalizeEmpty(" "))
	assert.Equal(t, "None", NormalizeEmpty("None"))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "", JoinList(nil))
	assert.Equal(t, "", JoinList([]string{}))
	assert.Equal(t, "a", JoinList([]string{"a"}))
	assert.Equal(t, "a, b", JoinList([]string{"a", "b"}))

	// Empty lists end up as the placeholder.
	assert.Equal(t, "None", NormalizeEmpty(JoinList([]string{})))
}

func TestBranchName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{ref: "refs/heads/main", want: "main"},
		{ref: "refs/heads/feature/foo", want: "foo"},
		{ref: "refs/tags/v1.0.0", want: "v1.0.0"},
		{ref: "main", want: "main"},
		{ref: "refs/heads/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, BranchName(tt.ref))
		})
	}
}
