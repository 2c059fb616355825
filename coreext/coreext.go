// Package coreext imports every core extension of the runtime for its side
// effects. Import it to make all extended object classes available to
// Make and Load.
package coreext

import (
	// importing for side effects
	_ "github.com/zephyrtronium/sbx/coreext/collection"
)
