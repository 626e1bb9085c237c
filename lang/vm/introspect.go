package vm

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// GlobalNames returns the names of every global currently defined, sorted.
// It backs the REPL's ".globals" introspection command; nothing in the
// bytecode itself ever calls it.
func (vm *VM) GlobalNames() []string {
	seen := make(map[string]struct{}, len(vm.globals.Keys()))
	for _, k := range vm.globals.Keys() {
		seen[k.Chars] = struct{}{}
	}
	names := maps.Keys(seen)
	slices.Sort(names)
	return names
}
