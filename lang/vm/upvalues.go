package vm

import "github.com/mna/glox/lang/value"

// captureUpvalue returns the open upvalue for the absolute stack slot,
// reusing an existing one if the VM already has one open for that exact
// slot. The open list is kept sorted by descending slot so the search can
// stop as soon as it passes the target.
func (vm *VM) captureUpvalue(slot int) *value.Upvalue {
	var prev *value.Upvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Slot > slot {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && cur.Slot == slot {
		return cur
	}

	created := &value.Upvalue{Location: &vm.stack[slot], Slot: slot, Next: cur}
	vm.link(created)
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above the absolute stack
// slot boundary: each copies its current stack value into its own inline
// storage and is unlinked from the open list. Called on RETURN (boundary =
// the returning frame's slot base) and on CLOSE_UPVALUE (boundary = the
// single slot being closed).
func (vm *VM) closeUpvalues(boundary int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= boundary {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
		uv.Next = nil
	}
}
