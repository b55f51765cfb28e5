//go:build !entitree_debug

package entitree

func assertFail(format string, args ...any) {}
