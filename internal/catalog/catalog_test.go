package catalog

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Denylist) == 0 {
		t.Error("denylist should not be empty")
	}
	if c.AnonymousAuthor == "" {
		t.Error("anonymous author label should be set")
	}
}

func TestRandomSchoolName(t *testing.T) {
	c := MustLoad()
	for i := 0; i < 50; i++ {
		name := c.RandomSchoolName()
		parts := strings.SplitN(name, " ", 2)
		if len(parts) != 2 {
			t.Fatalf("RandomSchoolName() = %q, want prefix+suffix", name)
		}
		if !contains(c.SchoolNames.Prefixes, parts[0]) {
			t.Fatalf("prefix %q not in word list", parts[0])
		}
		if !contains(c.SchoolNames.Suffixes, parts[1]) {
			t.Fatalf("suffix %q not in word list", parts[1])
		}
	}
}

func TestRandomGraffitiColor(t *testing.T) {
	c := MustLoad()
	for i := 0; i < 50; i++ {
		if !contains(c.GraffitiColors, c.RandomGraffitiColor()) {
			t.Fatal("color drawn from outside the palette")
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
