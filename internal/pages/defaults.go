package pages

import (
	_ "embed"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/studio-site/internal/model"
	"github.com/iliyamo/studio-site/internal/repository"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults is the fallback content of every section.
type Defaults struct {
	SiteSettings   model.SiteSettings   `yaml:"site_settings"`
	Navigation     []model.NavItem      `yaml:"navigation"`
	SocialLinks    []model.SocialLink   `yaml:"social_links"`
	HomeContent    model.HomeContent    `yaml:"home_content"`
	Capabilities   []model.Capability   `yaml:"capabilities"`
	StudioImages   []model.StudioImage  `yaml:"studio_images"`
	GalleryImages  []model.GalleryImage `yaml:"gallery_images"`
	ShowsContent   model.ShowsContent   `yaml:"shows_content"`
	Shows          []model.Show         `yaml:"shows"`
	JoinContent    model.JoinContent    `yaml:"join_content"`
	Roles          []model.Role         `yaml:"roles"`
	ContactContent model.ContactContent `yaml:"contact_content"`
}

// LoadDefaults parses the embedded fallback content.
func LoadDefaults() (*Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		return nil, fmt.Errorf("pages: parse defaults: %w", err)
	}
	return &d, nil
}

// SeedRows returns the fallback content as column maps keyed by table, in
// the shape the content repository accepts.  Singleton tables map to one
// row, list tables to a slice of rows.
func SeedRows() (map[repository.Table][]map[string]any, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(defaultsYAML, &raw); err != nil {
		return nil, fmt.Errorf("pages: parse defaults: %w", err)
	}
	out := make(map[repository.Table][]map[string]any, len(raw))
	for name, v := range raw {
		table, err := repository.ParseTable(name)
		if err != nil {
			return nil, fmt.Errorf("pages: defaults: %q: %w", name, err)
		}
		switch v := v.(type) {
		case map[string]any:
			out[table] = []map[string]any{v}
		case []any:
			rows := make([]map[string]any, 0, len(v))
			for _, item := range v {
				m, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("pages: defaults: %s: item is %T", name, item)
				}
				rows = append(rows, m)
			}
			out[table] = rows
		case nil:
			out[table] = nil
		default:
			return nil, fmt.Errorf("pages: defaults: %s: unexpected %T", name, v)
		}
	}
	return out, nil
}

// mergeFields fills every empty string or list field of row from def.
// Numbers are taken from the row as stored; focal points are never NULL.
func mergeFields[T any](row, def T) T {
	rv := reflect.ValueOf(&row).Elem()
	dv := reflect.ValueOf(def)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		switch f.Kind() {
		case reflect.String:
			if f.String() == "" {
				f.SetString(dv.Field(i).String())
			}
		case reflect.Slice:
			if f.Len() == 0 {
				f.Set(dv.Field(i))
			}
		}
	}
	return row
}
