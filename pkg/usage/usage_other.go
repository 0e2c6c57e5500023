//go:build !linux

package usage

import (
	"github.com/pkg/errors"

	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// ErrUnsupportedPlatform is returned by Sample on every non-Linux platform.
var ErrUnsupportedPlatform = errors.New("usage: unsupported platform")

type unsupportedSampler struct{}

// New returns a Sampler whose Sample always fails with ErrUnsupportedPlatform.
func New() Sampler {
	return unsupportedSampler{}
}

func (unsupportedSampler) Supported() bool { return false }

func (unsupportedSampler) Sample(int, bool) (*mesosproto.ResourceStatistics, error) {
	return nil, ErrUnsupportedPlatform
}
