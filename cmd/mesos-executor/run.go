package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/docker/docker/client"
	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oldmantaiter/mesos/internal/options"
	"github.com/oldmantaiter/mesos/internal/supervisor"
	"github.com/oldmantaiter/mesos/pkg/cgroups"
	"github.com/oldmantaiter/mesos/pkg/check"
	"github.com/oldmantaiter/mesos/pkg/checkpoint"
	"github.com/oldmantaiter/mesos/pkg/events"
	"github.com/oldmantaiter/mesos/pkg/logger"
	"github.com/oldmantaiter/mesos/pkg/mesosproto"
	"github.com/oldmantaiter/mesos/pkg/reaper"
	"github.com/oldmantaiter/mesos/pkg/runtime"
	"github.com/oldmantaiter/mesos/pkg/usage"
)

const defaultConfigPath = "/etc/mesos-executor/config.yaml"

var v = viper.New()

func newRunCmd() *cobra.Command {
	opts := options.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the mesos-executor container supervisor",
		Args:  cobra.NoArgs,
	}

	var configFile string
	cmd.Flags().StringVar(&configFile, "config", "", "path to a YAML configuration file")
	cmd.Flags().StringVar(&opts.Docker, "docker", opts.Docker,
		"path to the docker CLI used as the runtime command")
	cmd.Flags().StringVar(&opts.WorkDir, "work-dir", opts.WorkDir,
		"root directory for checkpoints and stub executor working directories")
	cmd.Flags().DurationVar(&opts.RecoveryTimeout, "recovery-timeout", opts.RecoveryTimeout,
		"time a recovered executor is given to reconnect before the agent gives up on it")

	cmd.RunE = func(*cobra.Command, []string) error {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return errors.Wrap(err, "cannot bind flags to configuration")
		}

		bs, err := readConfigFile(configFile)
		if err != nil {
			return err
		}
		if len(bs) > 0 {
			if err := mergeConfigIntoViper(bs); err != nil {
				return err
			}
		}

		if err := applyViperSettings(opts); err != nil {
			return err
		}

		if err := check.Validate(*opts); err != nil {
			return errors.Wrap(err, "command-line arguments specify illegal configuration")
		}

		logger.SetLogrus(opts.Config)

		return runSupervisor(context.Background(), opts)
	}

	return cmd
}

func applyViperSettings(opts *options.Options) error {
	bs, err := json.Marshal(v.AllSettings())
	if err != nil {
		return errors.Wrap(err, "cannot marshal configuration map into json bytes")
	}
	if err := yaml.Unmarshal(bs, opts, yaml.DisallowUnknownFields); err != nil {
		return errors.Wrap(err, "cannot unmarshal configuration")
	}
	return nil
}

func mergeConfigIntoViper(bs []byte) error {
	var configMap map[string]interface{}
	if err := yaml.Unmarshal(bs, &configMap); err != nil {
		return errors.Wrap(err, "cannot unmarshal yaml configuration file")
	}
	if err := v.MergeConfigMap(configMap); err != nil {
		return errors.Wrap(err, "can't merge configuration into viper")
	}
	return nil
}

func readConfigFile(configPath string) ([]byte, error) {
	isDefault := configPath == ""
	if isDefault {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); err != nil {
		if isDefault && os.IsNotExist(err) {
			log.Warnf("no configuration file at %s, skipping", configPath)
			return nil, nil
		}
		return nil, errors.Wrap(err, "error finding configuration file")
	}
	bs, err := os.ReadFile(configPath) // #nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "error reading configuration file")
	}
	return bs, nil
}

// runSupervisor wires the Supervisor Core to its external collaborators and drives it
// to completion: recovering any state, running the actor loop until the context is
// canceled.
func runSupervisor(ctx context.Context, opts *options.Options) error {
	supervisor.RuntimeCommand = opts.Docker

	cl, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return errors.Wrap(err, "connecting to docker daemon")
	}

	sup := supervisor.New(
		supervisor.Options{MetaRoot: opts.MetaRoot()},
		runtime.NewClient(cl),
		reaper.New(),
		checkpoint.WritePid,
		cgroups.New(),
		usage.New(),
		supervisor.NewExecSpawner(),
	)
	sup.SetEventPublisher(events.FuncPublisher[mesosproto.Termination](
		func(_ context.Context, term mesosproto.Termination) error {
			log.WithField("killed", term.Killed).Info(term.Message)
			return nil
		},
	))

	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(ctx)
	}()

	if _, err := sup.Recover(nil).Wait(ctx); err != nil {
		return errors.Wrap(err, "recovering supervisor state")
	}

	<-done
	return nil
}
