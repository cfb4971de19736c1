package generator

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type Template struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
}

type Category struct {
	Name      string     `yaml:"name"`
	Keywords  []string   `yaml:"keywords"`
	Templates []Template `yaml:"templates"`
}

type Messages struct {
	Right []string `yaml:"right"`
	Wrong []string `yaml:"wrong"`
}

type Catalog struct {
	Messages   Messages   `yaml:"messages"`
	Categories []Category `yaml:"categories"`
	Fallback   []Template `yaml:"fallback"`
}

// DefaultCatalog returns the built-in template catalog.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return Catalog{}, errors.New("parse catalog: multiple YAML documents are not supported")
		}
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	if len(c.Fallback) == 0 {
		return errors.New("catalog: fallback templates are required")
	}
	check := func(where string, ts []Template) error {
		for i, t := range ts {
			if strings.TrimSpace(t.Question) == "" {
				return fmt.Errorf("catalog: %s[%d]: empty question", where, i)
			}
			if len(t.Options) == 0 {
				return fmt.Errorf("catalog: %s[%d]: no options", where, i)
			}
		}
		return nil
	}
	for _, cat := range c.Categories {
		if len(cat.Keywords) == 0 {
			return fmt.Errorf("catalog: category %q has no keywords", cat.Name)
		}
		if err := check(cat.Name, cat.Templates); err != nil {
			return err
		}
	}
	return check("fallback", c.Fallback)
}

// templatesFor picks the first category whose keyword appears in topic.
func (c Catalog) templatesFor(topic string) []Template {
	low := strings.ToLower(topic)
	for _, cat := range c.Categories {
		for _, k := range cat.Keywords {
			if k != "" && strings.Contains(low, strings.ToLower(k)) {
				return cat.Templates
			}
		}
	}
	out := make([]Template, len(c.Fallback))
	for i, t := range c.Fallback {
		out[i] = Template{Question: strings.ReplaceAll(t.Question, "{{topic}}", topic), Options: t.Options}
	}
	return out
}
