// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "aardsync/internal/platform/net/http"
)

// Module is what the api composition root mounts.
// It lives apart from modkit so a module can export its own ports type without import cycles
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
