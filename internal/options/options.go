// Package options holds the mesos-executor's configuration surface: the runtime
// command path, the working-directory root checkpoints and stub executors are rooted
// under, the recovery timeout passed through into spawned executors, and logging.
package options

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/oldmantaiter/mesos/pkg/check"
	"github.com/oldmantaiter/mesos/pkg/logger"
)

// Options stores the mesos-executor's configurable settings.
type Options struct {
	logger.Config

	// Docker is the runtime CLI's path, passed through to every spawned stub
	// executor's override command (`docker wait NAME`). The runtime API client is
	// configured from the environment, not from this path.
	Docker string `json:"docker"`

	// WorkDir is the parent of the meta root: checkpoints live under
	// WorkDir/meta/slaves/<slave>/frameworks/<framework>/executors/<executor>/runs/<id>/pid.
	WorkDir string `json:"work_dir"`

	// RecoveryTimeout is the time a recovered executor is given to reconnect. It is
	// accepted and validated as configuration only: nothing in this module reads it,
	// it is not passed into any executor's environment, and it plays no role in the
	// supervisor's own recovery sweep, which is unconditional.
	RecoveryTimeout time.Duration `json:"recovery_timeout"`
}

// DefaultOptions returns an Options with the agent's default settings.
func DefaultOptions() *Options {
	return &Options{
		Config:          *logger.DefaultConfig(),
		Docker:          "docker",
		WorkDir:         "/var/lib/mesos-executor",
		RecoveryTimeout: 15 * time.Minute,
	}
}

// Validate validates the state of the Options struct.
func (o Options) Validate() []error {
	return []error{
		check.NotEmpty(o.Docker, "docker command path must be provided"),
		check.NotEmpty(o.WorkDir, "work dir must be provided"),
	}
}

// Printable returns a printable string.
func (o Options) Printable() ([]byte, error) {
	optJSON, err := json.Marshal(o)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert config to JSON")
	}
	return optJSON, nil
}

// MetaRoot is the checkpoint root derived from WorkDir.
func (o Options) MetaRoot() string {
	return o.WorkDir + "/meta"
}
