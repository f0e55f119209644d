// Package config loads tracing policies from TOML files.
//
// A policy file overrides individual fields of gltrace.DefaultPolicy:
//
//	prefix = "gl."
//	frame_boundary = "Clear"
//	required_version = "#version 300 es"
//	show_numbers = ["VertexAttribPointer", "EnableVertexAttribArray"]
//
//	[banned]
//	GetAttribLocation = "use `layout(location = ...)` in the vertex shader instead"
//	GetError = ""   # an empty message lifts a default ban
//
// Lists replace the default list. The [banned] table is merged into the
// default table.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/gltrace"
)

// FileName is the policy file looked up by Find.
const FileName = "gltrace.toml"

// ErrInvalid is returned for policy files that parse but cannot be used.
var ErrInvalid = errors.New("config: invalid policy")

// Load reads the policy file at path and overlays it on the default policy.
func Load(path string) (gltrace.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gltrace.Policy{}, fmt.Errorf("config: %w", err)
	}
	p, err := Parse(string(data))
	if err != nil {
		return gltrace.Policy{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes TOML policy text and overlays it on the default policy.
func Parse(text string) (gltrace.Policy, error) {
	var file gltrace.Policy
	meta, err := toml.Decode(text, &file)
	if err != nil {
		return gltrace.Policy{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return gltrace.Policy{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}

	p := gltrace.DefaultPolicy()
	strs := []struct {
		key string
		dst *string
		src string
	}{
		{"prefix", &p.Prefix, file.Prefix},
		{"frame_boundary", &p.FrameBoundary, file.FrameBoundary},
		{"create_prefix", &p.CreatePrefix, file.CreatePrefix},
		{"uniform_lookup", &p.UniformLookup, file.UniformLookup},
		{"shader_source", &p.ShaderSource, file.ShaderSource},
		{"shader_create", &p.ShaderCreate, file.ShaderCreate},
		{"required_version", &p.RequiredVersion, file.RequiredVersion},
	}
	for _, s := range strs {
		if meta.IsDefined(s.key) {
			*s.dst = s.src
		}
	}
	if meta.IsDefined("show_numbers") {
		p.ShowNumbers = file.ShowNumbers
	}
	if meta.IsDefined("show_numbers_containing") {
		p.ShowNumbersContaining = file.ShowNumbersContaining
	}
	for name, msg := range file.Banned {
		if msg == "" {
			delete(p.Banned, name)
			continue
		}
		p.Banned[name] = msg
	}

	if strings.TrimSpace(p.FrameBoundary) == "" {
		return gltrace.Policy{}, fmt.Errorf("%w: frame_boundary must not be empty", ErrInvalid)
	}
	if strings.TrimSpace(p.RequiredVersion) == "" {
		return gltrace.Policy{}, fmt.Errorf("%w: required_version must not be empty", ErrInvalid)
	}
	return p, nil
}

// Find looks for FileName in startDir and its parents. It reports false
// when no file exists up to the filesystem root.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("config: failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("config: failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve returns the policy to use for a command. An explicit path must
// exist; otherwise FileName is searched upward from startDir and the default
// policy is used when none is found.
func Resolve(explicit, startDir string) (gltrace.Policy, string, error) {
	if explicit != "" {
		p, err := Load(explicit)
		return p, explicit, err
	}
	path, ok, err := Find(startDir)
	if err != nil {
		return gltrace.Policy{}, "", err
	}
	if !ok {
		return gltrace.DefaultPolicy(), "", nil
	}
	p, err := Load(path)
	return p, path, err
}
