// Package catalog holds the embedded content tables: school name word lists,
// the moderation denylist and the graffiti color palette. Keeping them in one
// YAML file means content tweaks are data edits, not code changes.
package catalog

import (
	_ "embed"
	"fmt"
	"math/rand/v2"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var raw []byte

type Catalog struct {
	SchoolNames struct {
		Prefixes []string `yaml:"prefixes"`
		Suffixes []string `yaml:"suffixes"`
	} `yaml:"school_names"`
	Denylist        []string `yaml:"denylist"`
	GraffitiColors  []string `yaml:"graffiti_colors"`
	AnonymousAuthor string   `yaml:"anonymous_author"`
}

// Load parses the embedded catalog and validates that every table a running
// server depends on is non-empty.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("catalog: parsing catalog.yaml: %w", err)
	}
	if len(c.SchoolNames.Prefixes) == 0 || len(c.SchoolNames.Suffixes) == 0 {
		return nil, fmt.Errorf("catalog: school name word lists must not be empty")
	}
	if len(c.GraffitiColors) == 0 {
		return nil, fmt.Errorf("catalog: graffiti color palette must not be empty")
	}
	if c.AnonymousAuthor == "" {
		return nil, fmt.Errorf("catalog: anonymous author label must not be empty")
	}
	return &c, nil
}

// MustLoad is Load for wiring code where a broken embedded catalog is a
// build defect, not a runtime condition.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// RandomSchoolName draws a prefix+suffix combination from the word lists.
func (c *Catalog) RandomSchoolName() string {
	p := c.SchoolNames.Prefixes[rand.IntN(len(c.SchoolNames.Prefixes))]
	s := c.SchoolNames.Suffixes[rand.IntN(len(c.SchoolNames.Suffixes))]
	return p + " " + s
}

// RandomGraffitiColor draws one entry from the bright-color palette.
func (c *Catalog) RandomGraffitiColor() string {
	return c.GraffitiColors[rand.IntN(len(c.GraffitiColors))]
}
