package bank

import (
	"embed"
	"io/fs"
)

//go:embed builtin/*.json
var builtinFS embed.FS

// Builtin returns the source of the banks shipped with the binary.
func Builtin() *FSSource {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err)
	}
	return NewFSSource(sub, "builtin")
}
