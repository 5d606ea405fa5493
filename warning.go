// SPDX-License-Identifier: MIT
package rowtree

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// WarningHandler receives recoverable conditions encountered by the Tree operations.
type WarningHandler func(warning error)

// Warnings; tolerated unless Config.Strict is set.
var (
	ErrParentFieldMissing = errors.New("parent field missing, remaining records placed under the root")
	ErrOrphanNode         = errors.New("parent not found, node left unattached")
	ErrKeyCollision       = errors.New("key already registered, earlier node replaced")
	ErrSubtreeRootMissing = errors.New("subtree root key not found, subtree skipped")
	ErrComparatorFallback = errors.New("comparison treated as equal")
)

// warn reports a warning, returning it when it should abort the operation.
func (c *Config) warn(warning error) error {
	c.Logger.WithFields(logrus.Fields{"strict": c.Strict}).Debug(warning)

	if c.OnWarning != nil {
		c.OnWarning(warning)
	}

	if c.Strict {
		return warning
	}

	return nil
}
