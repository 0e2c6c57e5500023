package mesosproto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseImage(t *testing.T) {
	cases := []struct {
		name    string
		info    *ContainerInfo
		wantImg string
		wantOK  bool
	}{
		{"nil block", nil, "", false},
		{"wrong sentinel", &ContainerInfo{Image: "file:///x"}, "", false},
		{"docker sentinel", &ContainerInfo{Image: "docker:///ubuntu:latest"}, "ubuntu:latest", true},
		{"empty after sentinel", &ContainerInfo{Image: "docker:///"}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img, ok := tc.info.ParseImage()
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.wantImg, img)
		})
	}
}
