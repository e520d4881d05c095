package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withCommit(t *testing.T, commit, ver string) {
	t.Helper()
	oldCommit, oldVersion := GitCommit, Version
	GitCommit, Version = commit, ver
	t.Cleanup(func() { GitCommit, Version = oldCommit, oldVersion })
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.BuildMethod)
	assert.Contains(t, info.Platform, "/")
	assert.True(t, strings.HasPrefix(info.GoVersion, "go"))
}

func TestGetVersionString(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		want   string
	}{
		{name: "no commit", commit: "unknown", want: "tuirobot 1.2.3"},
		{name: "short commit", commit: "abc", want: "tuirobot 1.2.3 (abc)"},
		{name: "long commit truncated", commit: "0123456789abcdef", want: "tuirobot 1.2.3 (01234567)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withCommit(t, tt.commit, "1.2.3")
			assert.Equal(t, tt.want, GetVersionString())
		})
	}
}

func TestGetDetailedVersionString(t *testing.T) {
	detailed := GetDetailedVersionString()

	for _, field := range []string{"tuirobot", "Git commit:", "Build method:", "Go version:", "Platform:"} {
		assert.Contains(t, detailed, field)
	}
}

func TestBuildMethodDetection(t *testing.T) {
	assert.Contains(t, []string{"make", "go-install", "unknown"}, getBuildMethod())

	withCommit(t, "deadbeef", Version)
	assert.Equal(t, "make", getBuildMethod())
}

func TestIsRelease(t *testing.T) {
	tests := []struct {
		name    string
		commit  string
		version string
		want    bool
	}{
		{name: "tagged build", commit: "deadbeef", version: "1.0.0", want: true},
		{name: "dev version", commit: "deadbeef", version: "1.1.0-dev", want: false},
		{name: "no commit", commit: "unknown", version: "1.0.0", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withCommit(t, tt.commit, tt.version)
			assert.Equal(t, tt.want, IsRelease())
			assert.Equal(t, !tt.want, IsDevelopment())
		})
	}
}
