// Package runtime implements the Runtime Adapter: a thin async client over the Docker
// daemon exposing exactly the four verbs the Supervisor Core needs — run, kill, inspect,
// ps. Image pulling, registry credentials, volume/archive staging, and every other
// concern the original Docker client wraps are out of scope; callers are expected to
// have already resolved an image reference before calling Run.
package runtime

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	dcontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/oldmantaiter/mesos/pkg/mesosproto"
)

// Info is a runtime container's observable state, as returned by Inspect and Ps.
type Info struct {
	// Name is the runtime-assigned container name, including any leading slash the
	// daemon prepends.
	Name string
	// Pid is the container's root pid on the host, or 0 if the container is not
	// currently running.
	Pid int
	Running bool
}

// Client is the Runtime Adapter: run, kill, inspect, ps, all asynchronous from the
// caller's perspective in that every method may block on daemon I/O and is meant to be
// called from a goroutine the Supervisor Core spawns per suspension point.
type Client struct {
	cl  *client.Client
	log *logrus.Entry
}

// NewClient wraps an already-configured Docker API client.
func NewClient(cl *client.Client) *Client {
	return &Client{cl: cl, log: logrus.WithField("component", "runtime")}
}

// Run creates and starts a container running cmd inside image, under name, constrained
// by resources, with env injected into the container's environment.
func (c *Client) Run(
	ctx context.Context,
	image string,
	cmd mesosproto.CommandInfo,
	name string,
	resources mesosproto.Resources,
	env map[string]string,
) error {
	config := &dcontainer.Config{
		Image: image,
		Env:   mergedEnv(cmd.Environment, env),
	}
	if cmd.Value != "" || len(cmd.Arguments) > 0 {
		if cmd.Shell {
			config.Entrypoint = []string{"/bin/sh", "-c", cmd.Value}
		} else {
			config.Entrypoint = append([]string{cmd.Value}, cmd.Arguments...)
		}
	}

	hostConfig := &dcontainer.HostConfig{}
	if resources.Cpus != nil {
		hostConfig.Resources.CPUShares = int64(1024 * *resources.Cpus)
	}
	if resources.MemBytes != nil {
		hostConfig.Resources.Memory = int64(*resources.MemBytes)
	}

	created, err := c.cl.ContainerCreate(ctx, config, hostConfig, nil, nil, name)
	if err != nil {
		return fmt.Errorf("creating container %s: %w", name, err)
	}
	if err := c.cl.ContainerStart(ctx, created.ID, types.ContainerStartOptions{}); err != nil {
		return fmt.Errorf("starting container %s: %w", name, err)
	}
	return nil
}

// Kill signals the named container, optionally forcing (SIGKILL) rather than a graceful
// stop (SIGTERM).
func (c *Client) Kill(ctx context.Context, name string, force bool) error {
	sig := unix.SIGTERM
	if force {
		sig = unix.SIGKILL
	}
	if err := c.cl.ContainerKill(ctx, name, unix.SignalName(sig)); err != nil {
		return fmt.Errorf("killing container %s: %w", name, err)
	}
	return nil
}

// Inspect returns the named container's current state, including its root pid.
func (c *Client) Inspect(ctx context.Context, name string) (*Info, error) {
	json, err := c.cl.ContainerInspect(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("inspecting container %s: %w", name, err)
	}
	info := &Info{Name: json.Name}
	if json.State != nil {
		info.Running = json.State.Running
		info.Pid = json.State.Pid
	}
	return info, nil
}

// Ps lists containers, restricted to running ones unless all is set, and filtered by a
// name prefix (the empty prefix matches everything).
func (c *Client) Ps(ctx context.Context, all bool, prefix string) ([]Info, error) {
	args := filters.NewArgs()
	if prefix != "" {
		args.Add("name", "^/?"+prefix)
	}
	listed, err := c.cl.ContainerList(ctx, types.ContainerListOptions{All: all, Filters: args})
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}

	infos := make([]Info, 0, len(listed))
	for _, cont := range listed {
		info := Info{Running: cont.State == "running"}
		if len(cont.Names) > 0 {
			info.Name = cont.Names[0]
		}
		if info.Running {
			inspected, err := c.Inspect(ctx, cont.ID)
			if err != nil {
				return nil, err
			}
			info.Pid = inspected.Pid
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func mergedEnv(commandEnv, agentEnv map[string]string) []string {
	merged := make(map[string]string, len(commandEnv)+len(agentEnv))
	for k, v := range agentEnv {
		merged[k] = v
	}
	for k, v := range commandEnv {
		merged[k] = v
	}
	env := make([]string, 0, len(merged))
	for k, v := range merged {
		env = append(env, k+"="+v)
	}
	return env
}
