//nolint:exhaustruct

package options

import (
	"testing"
	"time"

	"github.com/ghodss/yaml"
	"gotest.tools/assert"

	"github.com/oldmantaiter/mesos/pkg/logger"
)

func TestUnmarshalOptions(t *testing.T) {
	type OptionsUnmarshledTestCase struct {
		name     string
		raw      string
		expected Options
	}

	optionsTests := []OptionsUnmarshledTestCase{
		{
			name: "agent_config_no_log",
			raw: `
docker: /usr/bin/docker
work_dir: /srv/mesos-executor
`,
			expected: Options{
				Docker:  "/usr/bin/docker",
				WorkDir: "/srv/mesos-executor",
			},
		},
		{
			name: "agent_config_with_log",
			raw: `
docker: /usr/bin/docker
work_dir: /srv/mesos-executor
level: debug
color: false
`,
			expected: Options{
				Config: logger.Config{
					Level: "debug",
					Color: false,
				},
				Docker:  "/usr/bin/docker",
				WorkDir: "/srv/mesos-executor",
			},
		},
		{
			name: "default_options_config",
			raw: `
level: info
color: true
structured: false
docker: docker
work_dir: /var/lib/mesos-executor
recovery_timeout: 900000000000
`,
			expected: *DefaultOptions(),
		},
		{
			name: "full_options_config",
			raw: `
level: debug
color: false
structured: true
docker: /opt/bin/docker
work_dir: /data/mesos-executor
recovery_timeout: 60000000000
`,
			expected: Options{
				Config: logger.Config{
					Level:      "debug",
					Color:      false,
					Structured: true,
				},
				Docker:          "/opt/bin/docker",
				WorkDir:         "/data/mesos-executor",
				RecoveryTimeout: time.Minute,
			},
		},
	}

	for _, test := range optionsTests {
		t.Run(test.name, func(t *testing.T) {
			unmarshaled := Options{}
			err := yaml.Unmarshal([]byte(test.raw), &unmarshaled, yaml.DisallowUnknownFields)
			assert.NilError(t, err)
			assert.DeepEqual(t, test.expected, unmarshaled)
		})
	}
}
