//go:build !linux

package cgroups

import "github.com/pkg/errors"

// ErrUnsupportedPlatform is returned by every Controller method on non-Linux
// platforms, per the design notes: cgroup enforcement is Linux-only, and the
// supervisor's update/usage operations must treat it as a no-op/unsupported
// condition rather than a fatal error.
var ErrUnsupportedPlatform = errors.New("cgroups: unsupported platform")

type unsupportedController struct{}

// New returns a Controller whose methods all fail with ErrUnsupportedPlatform.
func New() Controller {
	return unsupportedController{}
}

func (unsupportedController) Supported() bool { return false }

func (unsupportedController) Hierarchy(string) (string, bool, error) {
	return "", false, ErrUnsupportedPlatform
}

func (unsupportedController) CPUCgroup(int) (string, bool, error) {
	return "", false, ErrUnsupportedPlatform
}

func (unsupportedController) MemoryCgroup(int) (string, bool, error) {
	return "", false, ErrUnsupportedPlatform
}

func (unsupportedController) WriteCPUShares(string, int64) error {
	return ErrUnsupportedPlatform
}

func (unsupportedController) WriteMemorySoftLimit(string, uint64) error {
	return ErrUnsupportedPlatform
}

func (unsupportedController) ReadMemoryHardLimit(string) (uint64, error) {
	return 0, ErrUnsupportedPlatform
}

func (unsupportedController) WriteMemoryHardLimit(string, uint64) error {
	return ErrUnsupportedPlatform
}
