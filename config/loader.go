// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tochemey/disruptor/errors"
)

// Config is a loaded document: defaults plus per-actor overrides
type Config struct {
	Defaults Actor
	Actors   map[string]Actor
}

// document mirrors the YAML layout. Nodes are decoded in a second pass so
// that absent keys keep the values inherited from the defaults.
type document struct {
	Defaults yaml.Node            `yaml:"defaults"`
	Actors   map[string]yaml.Node `yaml:"actors"`
}

// Load reads and parses the YAML file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses a YAML document and validates every actor entry
func Parse(data []byte) (*Config, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.NewConfigurationError("document", err)
	}

	config := &Config{
		Defaults: DefaultActor(),
		Actors:   make(map[string]Actor, len(doc.Actors)),
	}

	if !doc.Defaults.IsZero() {
		if err := decodeStrict(&doc.Defaults, &config.Defaults); err != nil {
			return nil, errors.NewConfigurationError("defaults", err)
		}
	}
	if err := config.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	for name, node := range doc.Actors {
		actor := config.Defaults
		if err := decodeStrict(&node, &actor); err != nil {
			return nil, errors.NewConfigurationError("actors."+name, err)
		}
		if err := actor.Validate(); err != nil {
			return nil, fmt.Errorf("actors.%s: %w", name, err)
		}
		config.Actors[name] = actor
	}
	return config, nil
}

// Actor returns the configuration of the named actor, the defaults when the
// document has no entry for it
func (c *Config) Actor(name string) Actor {
	if actor, ok := c.Actors[name]; ok {
		return actor
	}
	return c.Defaults
}

// decodeStrict decodes node rejecting unknown keys. yaml.Node.Decode does
// not honor KnownFields, so the node is re-encoded and decoded strictly.
func decodeStrict(node *yaml.Node, out *Actor) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}
