package dump

import (
	"github.com/davecgh/go-spew/spew"
)

var config = spew.ConfigState{
	Indent:         "\t",
	MaxDepth:       20,
	DisableMethods: true,
	SortKeys:       true,
}

// Sdump returns arbitrary data as readable string, []byte values from the
// database driver are printed as hexdump with ascii column.
func Sdump(data ...any) string {
	return config.Sdump(data...)
}
