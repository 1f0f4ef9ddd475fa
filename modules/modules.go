// Package modules provides the host functions programs can call: math,
// string, and file helpers.
package modules

import "github.com/quetzal-lang/quetzal/core"

// Initialize registers every builtin. File functions resolve relative
// paths against fileRoot, or the working directory when it is empty.
func Initialize(reg *core.Registry, fileRoot string) {
	loadMath(reg)
	loadStrings(reg)
	loadFile(reg, fileRoot)
}

// NewRegistry returns a registry with every builtin loaded.
func NewRegistry(fileRoot string) *core.Registry {
	reg := core.NewRegistry()
	Initialize(reg, fileRoot)
	return reg
}
