package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_ShouldProcess(t *testing.T) {
	tests := []struct {
		name      string
		whitelist []string
		blacklist []string
		path      string
		want      bool
	}{
		{"wildcard admits all", []string{"*"}, nil, "/a/b.bin", true},
		{"empty whitelist admits all", nil, nil, "/a/b.bin", true},
		{"listed extension", []string{".txt", ".md"}, nil, "/a/readme.md", true},
		{"unlisted extension", []string{".txt"}, nil, "/a/readme.md", false},
		{"dot is optional", []string{"txt"}, nil, "/a/notes.txt", true},
		{"case insensitive", []string{".TXT"}, nil, "/a/NOTES.Txt", true},
		{"blacklist wins", []string{"*"}, []string{".bin"}, "/a/b.bin", false},
		{"blacklist wins over whitelist", []string{".txt"}, []string{"txt"}, "/a/b.txt", false},
		{"no extension via dot", []string{"."}, nil, "/a/Makefile", true},
		{"no extension not listed", []string{".txt"}, nil, "/a/Makefile", false},
		{"blacklist no extension", nil, []string{""}, "/a/Makefile", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.whitelist, tt.blacklist)
			assert.Equal(t, tt.want, f.ShouldProcess(tt.path))
		})
	}
}

func TestFilter_Exclude(t *testing.T) {
	f, err := NewFilter(nil, nil).WithExclude([]string{`^\.git(/|$)`, `(^|/)node_modules$`})
	require.NoError(t, err)

	assert.True(t, f.Excluded(".git"))
	assert.True(t, f.Excluded(".git/config"))
	assert.True(t, f.Excluded("web/node_modules"))
	assert.False(t, f.Excluded("src/main.go"))
	assert.False(t, f.Excluded(".github"))

	_, err = NewFilter(nil, nil).WithExclude([]string{"("})
	assert.Error(t, err)
}
