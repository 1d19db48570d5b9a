package vdom

import "fmt"

// KeyError is raised in debug mode when siblings share an explicit key.
type KeyError struct {
	Parent string
	Key    any
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("vdom: duplicate key %v among children of <%s>", e.Key, e.Parent)
}

// DescriptorError is raised in debug mode for a structurally invalid descriptor.
type DescriptorError struct {
	Parent string
	Index  int
	Reason string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("vdom: invalid child %d of <%s>: %s", e.Index, e.Parent, e.Reason)
}
