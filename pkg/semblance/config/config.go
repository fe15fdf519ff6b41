// Package config loads factor corpora from YAML files. A corpus names
// factors and groups of factors so commands can refer to them without
// rebuilding the structures by hand.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/semblance/pkg/semblance/internalerr"
	"github.com/cognicore/semblance/pkg/semblance/schema"
	"github.com/cognicore/semblance/pkg/semblance/term"
)

// Corpus is a parsed corpus file: named raw factors plus named groups
// listing factor names.
type Corpus struct {
	Factors map[string]schema.RawFactor `yaml:"factors"`
	Groups  map[string][]string         `yaml:"groups"`
}

// LoadCorpus loads a corpus from a YAML file.
func LoadCorpus(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCorpus(data)
}

// ParseCorpus parses corpus YAML and validates that every group member
// names a defined factor.
func ParseCorpus(data []byte) (*Corpus, error) {
	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	for groupName, members := range c.Groups {
		for _, member := range members {
			if _, ok := c.Factors[member]; !ok {
				return nil, fmt.Errorf("%w: group %q names unknown factor %q",
					internalerr.ErrInvalidConfig, groupName, member)
			}
		}
	}
	return &c, nil
}

// Factor builds the named factor.
func (c *Corpus) Factor(name string) (term.Term, error) {
	raw, ok := c.Factors[name]
	if !ok {
		return nil, fmt.Errorf("%w: no factor named %q", internalerr.ErrNotFound, name)
	}
	built, err := schema.Build(raw)
	if err != nil {
		return nil, fmt.Errorf("factor %q: %w", name, err)
	}
	return built, nil
}

// Group builds the named group of factors.
func (c *Corpus) Group(name string) (*term.FactorGroup, error) {
	members, ok := c.Groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: no group named %q", internalerr.ErrNotFound, name)
	}
	factors := make([]term.Term, 0, len(members))
	for _, member := range members {
		built, err := c.Factor(member)
		if err != nil {
			return nil, err
		}
		factors = append(factors, built)
	}
	group, err := term.NewFactorGroup(factors...)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", name, err)
	}
	return group, nil
}

// FactorNames lists the defined factor names in no particular order.
func (c *Corpus) FactorNames() []string {
	names := make([]string, 0, len(c.Factors))
	for name := range c.Factors {
		names = append(names, name)
	}
	return names
}
