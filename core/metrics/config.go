package metrics

import (
	"errors"
	"fmt"

	"github.com/kilianp07/brigade/core/factory"
)

// Config lists the sinks batch outcomes are reported to.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}

// Validate rejects sinks without a type. Unknown types surface when the
// sinks are built, since sink packages register themselves on import.
func (c Config) Validate() error {
	var errs []error
	for i, s := range c.Sinks {
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("sink %d has no type", i))
		}
	}
	return errors.Join(errs...)
}
