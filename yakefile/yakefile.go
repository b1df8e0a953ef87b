package yakefile

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/yake/errors"
	"github.com/kbukum/yake/target"
)

// Names are the file names Find looks for, in order.
var Names = []string{"Yakefile", "Yakefile.yml", "Yakefile.yaml"}

// Reserved target meta keys.
const (
	keyDoc     = "doc"
	keyType    = "type"
	keyDepends = "depends"
)

type rawFile struct {
	Meta    yaml.Node `yaml:"meta"`
	Env     []string  `yaml:"env"`
	Targets yaml.Node `yaml:"targets"`
}

type rawTarget struct {
	Meta    yaml.Node `yaml:"meta"`
	Env     []string  `yaml:"env"`
	Exec    []string  `yaml:"exec"`
	Targets yaml.Node `yaml:"targets"`
}

// Find returns the first Yakefile found in dirs, searched in order. With no
// dirs the working directory is searched.
func Find(dirs ...string) (string, error) {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		for _, name := range Names {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}
	return "", errors.NotFound("yakefile", fmt.Sprintf("%v in %v", Names, dirs))
}

// Load reads and parses the Yakefile at path.
func Load(path string) (target.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return target.Definition{}, errors.NotFound("yakefile", path)
		}
		return target.Definition{}, errors.New(errors.ErrCodeInvalidInput, "yakefile: reading "+path).WithCause(err)
	}
	def, err := Parse(data)
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			appErr.Message = path + ": " + appErr.Message
		}
		return target.Definition{}, err
	}
	return def, nil
}

// Parse decodes a Yakefile into an unvalidated root definition.
func Parse(data []byte) (target.Definition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return target.Definition{}, invalid("malformed YAML").WithCause(err)
	}
	if len(doc.Content) == 0 {
		return target.Definition{}, invalid("empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return target.Definition{}, invalidAt(root, "top level must be a mapping")
	}

	var raw rawFile
	if err := root.Decode(&raw); err != nil {
		return target.Definition{}, invalid("decoding top level").WithCause(err)
	}

	def := target.Definition{Env: raw.Env}
	meta, err := scalarMap(&raw.Meta, "meta")
	if err != nil {
		return target.Definition{}, err
	}
	if d, ok := meta[keyDoc]; ok {
		def.Doc = d
		delete(meta, keyDoc)
	}
	def.Meta = meta

	def.Children, err = parseTargets(&raw.Targets, "targets")
	if err != nil {
		return target.Definition{}, err
	}
	return def, nil
}

func parseTargets(node *yaml.Node, field string) ([]target.Definition, error) {
	if isEmpty(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, invalidAt(node, field+" must be a mapping")
	}

	defs := make([]target.Definition, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		def, err := parseTarget(key.Value, value)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseTarget(name string, node *yaml.Node) (target.Definition, error) {
	var raw rawTarget
	if err := node.Decode(&raw); err != nil {
		return target.Definition{}, invalidAt(node, "target "+name).WithCause(err)
	}

	def := target.Definition{
		Name: name,
		Env:  raw.Env,
		Exec: raw.Exec,
	}

	if !isEmpty(&raw.Meta) {
		if raw.Meta.Kind != yaml.MappingNode {
			return target.Definition{}, invalidAt(&raw.Meta, name+".meta must be a mapping")
		}
		for i := 0; i+1 < len(raw.Meta.Content); i += 2 {
			key, value := raw.Meta.Content[i].Value, raw.Meta.Content[i+1]
			switch key {
			case keyDepends:
				if err := value.Decode(&def.Depends); err != nil {
					return target.Definition{}, invalidAt(value, name+".meta.depends must be a list of target paths")
				}
			case keyDoc, keyType:
				if value.Kind != yaml.ScalarNode {
					return target.Definition{}, invalidAt(value, name+".meta."+key+" must be a string")
				}
				if key == keyDoc {
					def.Doc = value.Value
				} else {
					def.Type = value.Value
				}
			default:
				if value.Kind != yaml.ScalarNode {
					return target.Definition{}, invalidAt(value, name+".meta."+key+" must be a string")
				}
				if def.Meta == nil {
					def.Meta = make(map[string]string)
				}
				def.Meta[key] = value.Value
			}
		}
	}

	// Without an explicit type a target with children is a group.
	if def.Type == "" {
		if isEmpty(&raw.Targets) {
			def.Type = target.TypeCommand
		} else {
			def.Type = target.TypeGroup
		}
	}

	children, err := parseTargets(&raw.Targets, name+".targets")
	if err != nil {
		return target.Definition{}, err
	}
	def.Children = children
	return def, nil
}

func scalarMap(node *yaml.Node, field string) (map[string]string, error) {
	out := make(map[string]string)
	if isEmpty(node) {
		return out, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, invalidAt(node, field+" must be a mapping")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, invalidAt(value, field+"."+key+" must be a string")
		}
		out[key] = value.Value
	}
	return out, nil
}

// isEmpty reports whether a field was absent or explicitly null.
func isEmpty(node *yaml.Node) bool {
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

func invalid(msg string) *errors.AppError {
	return errors.New(errors.ErrCodeInvalidInput, "yakefile: "+msg)
}

func invalidAt(node *yaml.Node, msg string) *errors.AppError {
	return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("yakefile: line %d: %s", node.Line, msg)).
		WithDetail("line", node.Line)
}
