package version

import (
	"runtime/debug"
	"testing"
)

func TestInfoPrefersLdflags(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig; Version = "dev" })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{GoVersion: "go1.25.0", Main: debug.Module{Version: "v1.2.3"}}, true
	}

	if got := Info(); got.Version != "v1.2.3" || got.GoVersion != "go1.25.0" {
		t.Fatalf("expected module version fallback, got %+v", got)
	}
	Version = "v9.9.9"
	if got := Info().Version; got != "v9.9.9" {
		t.Fatalf("expected ldflags version, got %s", got)
	}
}

func TestInfoVCSStamp(t *testing.T) {
	orig := readBuildInfo
	t.Cleanup(func() { readBuildInfo = orig })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
		}}, true
	}
	got := Info()
	if got.Version != "dev" || got.Commit != "abc123" || got.Date != "2026-10-01T00:00:00Z" {
		t.Fatalf("unexpected info %+v", got)
	}
	if s := got.String(); s != "dev (commit abc123, built 2026-10-01T00:00:00Z)" {
		t.Fatalf("unexpected string %q", s)
	}
}
