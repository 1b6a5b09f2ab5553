package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// loadKDL applies the .lgrep.kdl file in dir on top of base. It returns nil
// when the file does not exist.
func loadKDL(dir string, base *Config) (*Config, error) {
	kdlPath := filepath.Join(dir, KDLFileName)

	content, err := os.ReadFile(kdlPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil // No KDL config found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kdlPath, err)
	}

	cfg, err := overlayKDL(base, string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kdlPath, err)
	}
	cfg.Sources = append(cfg.Sources, kdlPath)
	return cfg, nil
}

// parseKDL applies a KDL document on top of the defaults
func parseKDL(content string) (*Config, error) {
	return overlayKDL(Default(), content)
}

// overlayKDL applies a KDL document on top of a copy of base. Only the nodes
// present change a setting; unknown nodes are ignored.
func overlayKDL(base *Config, content string) (*Config, error) {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	cfg := base.clone()
	var include []string
	includeSet := false

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "version":
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
		case "search":
			for _, cn := range n.Children { // search { ignore_case true }
				switch nodeName(cn) {
				case "ignore_case":
					assignBool(cn, &cfg.Search.IgnoreCase)
				case "recursive":
					assignBool(cn, &cfg.Search.Recursive)
				case "follow_symlinks":
					assignBool(cn, &cfg.Search.FollowSymlinks)
				}
			}
		case "output":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "color":
					assignSimpleString(cn, "color", func(v string) { cfg.Output.Color = v })
				case "count_zero":
					assignBool(cn, &cfg.Output.CountZero)
				case "json":
					assignBool(cn, &cfg.Output.JSON)
				}
			}
		case "log":
			for _, cn := range n.Children {
				assignSimpleString(cn, "dir", func(v string) { cfg.Log.Dir = v })
				assignSimpleString(cn, "level", func(v string) { cfg.Log.Level = v })
				if nodeName(cn) == "enabled" {
					assignBool(cn, &cfg.Log.Enabled)
				}
			}
		case "include":
			include = append(include, collectStringArgs(n)...)
			includeSet = true
		case "exclude":
			cfg.Exclude = append(cfg.Exclude, collectStringArgs(n)...)
		}
	}

	if includeSet {
		cfg.Include = append([]string{}, include...)
	}
	return cfg, nil
}

// Helper functions leveraging the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
func assignBool(n *document.Node, target *bool) {
	if b, ok := firstBoolArg(n); ok {
		*target = b
	}
}
func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// collectStringArgs reads both inline (exclude "a" "b") and block
// (exclude { "a" }) lists
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// In KDL block format, strings are child nodes where the node name is the string value
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
