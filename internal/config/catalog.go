package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/habitline/habitline/server/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Entity names used as catalog keys.
const (
	EntityUsers        = "users"
	EntityCategories   = "categories"
	EntityHabits       = "habits"
	EntityRecords      = "records"
	EntityAchievements = "achievements"
)

// columns lists the fields each entity may be ordered or searched by.
var columns = map[string][]string{
	EntityUsers:        {"id", "name", "age", "slug", "created_at"},
	EntityCategories:   {"id", "name", "slug", "created_at"},
	EntityHabits:       {"id", "name", "display_order", "archived", "slug", "created_at"},
	EntityRecords:      {"id", "habit_id", "habit_date", "is_done", "quantity", "name", "slug", "created_at"},
	EntityAchievements: {"id", "name", "description", "slug", "created_at"},
}

// textColumns are the fields a free-text search may target.
var textColumns = map[string]bool{"name": true, "slug": true, "description": true}

// Provisioning holds the defaults applied to a freshly provisioned profile.
type Provisioning struct {
	NameTemplate      string   `yaml:"name_template"`
	Age               *int     `yaml:"age"`
	StarterCategories []string `yaml:"starter_categories"`
}

// ProfileName renders NameTemplate for subject.
func (p Provisioning) ProfileName(subject string) string {
	tmpl := p.NameTemplate
	if tmpl == "" {
		tmpl = "{subject}"
	}
	return strings.ReplaceAll(tmpl, "{subject}", subject)
}

// EntityConfig is the list behaviour of one entity.
// Ordering entries use a leading "-" for descending order.
type EntityConfig struct {
	Ordering     []string `yaml:"ordering"`
	SearchFields []string `yaml:"search_fields"`
}

// Catalog is the parsed entity catalog.
type Catalog struct {
	Provisioning Provisioning            `yaml:"provisioning"`
	Entities     map[string]EntityConfig `yaml:"entities"`
}

// LoadCatalog reads path, or the embedded catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// DefaultCatalog returns the embedded catalog. It panics if the embedded file
// is invalid, which tests guard against.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) validate() error {
	for name, ec := range c.Entities {
		known, ok := columns[name]
		if !ok {
			return fmt.Errorf("catalog: unknown entity %q", name)
		}
		for _, o := range ec.Ordering {
			if !contains(known, strings.TrimPrefix(o, "-")) {
				return fmt.Errorf("catalog: %s: unknown ordering field %q", name, o)
			}
		}
		for _, f := range ec.SearchFields {
			if !contains(known, f) || !textColumns[f] {
				return fmt.Errorf("catalog: %s: field %q is not searchable", name, f)
			}
		}
	}
	seen := make(map[string]bool, len(c.Provisioning.StarterCategories))
	for _, cat := range c.Provisioning.StarterCategories {
		if n := len([]rune(cat)); n < 2 || n > 20 {
			return fmt.Errorf("catalog: starter category %q must be 2-20 characters", cat)
		}
		if seen[cat] {
			return fmt.Errorf("catalog: duplicate starter category %q", cat)
		}
		seen[cat] = true
	}
	return nil
}

// ListOptions builds store list options for entity with the free-text query q.
func (c *Catalog) ListOptions(entity, q string) model.ListOptions {
	ec := c.Entities[entity]
	opts := model.ListOptions{
		Query:   strings.TrimSpace(q),
		OrderBy: append([]string(nil), ec.Ordering...),
	}
	if opts.Query != "" {
		opts.SearchFields = append([]string(nil), ec.SearchFields...)
	}
	if len(opts.OrderBy) == 0 {
		opts.OrderBy = []string{"id"}
	}
	return opts
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
