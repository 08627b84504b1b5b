package fieldtape

import "github.com/hupe1980/fieldtape/internal/resource"

// Controller enforces a shared memory budget across registries and an
// optional blit throughput limit. A nil controller means unlimited.
type Controller = resource.Controller

// ControllerConfig holds the controller's limits.
type ControllerConfig = resource.Config

// NewController creates a resource controller.
//
//	ctrl := fieldtape.NewController(fieldtape.ControllerConfig{
//	    MemoryLimitBytes: 64 << 20,
//	})
//	reg := fieldtape.New(fieldtape.WithController(ctrl))
func NewController(cfg ControllerConfig) *Controller {
	return resource.NewController(cfg)
}
