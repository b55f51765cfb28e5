//go:build entitree_debug

package entitree

import "fmt"

func assertFail(format string, args ...any) {
	panic("entitree: " + fmt.Sprintf(format, args...))
}
