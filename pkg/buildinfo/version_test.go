package buildinfo

import (
	"strings"
	"testing"
)

func TestUserAgent(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "v0.3.0", "none"
	if got := UserAgent(); got != "setlist/v0.3.0" {
		t.Errorf("UserAgent() = %q", got)
	}

	Commit = "abc1234"
	if got := UserAgent(); got != "setlist/v0.3.0 (abc1234)" {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version: ") || !strings.Contains(tmpl, "commit: "+Commit) {
		t.Errorf("Template() = %q", tmpl)
	}
}
