package buildinfo

import "testing"

func TestGet(t *testing.T) {
	info := Get("sitebook-cli")

	if info.ServiceName != "sitebook-cli" {
		t.Errorf("ServiceName = %q", info.ServiceName)
	}
	if info.Version != Version || info.Commit != Commit || info.BuildTime != BuildTime {
		t.Errorf("info does not reflect package variables: %+v", info)
	}
}
