package suite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/pathmatch/packages/pathmatch"
	"github.com/abdul-hamid-achik/pathmatch/packages/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a suite file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// Extensions recognised as suite files.
var Extensions = []string{".match.yaml", ".match.yml", ".match.json"}

type Suite struct {
	Name     string   `yaml:"name"`
	Body     any      `yaml:"body"`
	BodyFile string   `yaml:"bodyFile"`
	From     string   `yaml:"from"`
	Tags     []string `yaml:"tags"`
	Cases    []*Case  `yaml:"cases"`

	// File is the path the suite was loaded from, if any.
	File string `yaml:"-"`
	// BaseDir is the directory body files are resolved against.
	BaseDir string `yaml:"-"`
	// SchemaDir is the directory schema files are resolved against; defaults to BaseDir.
	SchemaDir string `yaml:"-"`

	hasBody   bool
	document  gjson.Result
	validator *schema.Validator
}

type Case struct {
	Name     string   `yaml:"name"`
	Path     string   `yaml:"path"`
	Equals   any      `yaml:"equals"`
	Schema   any      `yaml:"schema"`
	Not      bool     `yaml:"not"`
	Tags     []string `yaml:"tags"`
	Skip     string   `yaml:"skip"`
	Body     any      `yaml:"body"`
	BodyFile string   `yaml:"bodyFile"`
	From     string   `yaml:"from"`

	// Line is the position of the case in the suite file.
	Line int `yaml:"-"`

	hasEquals bool
	hasSchema bool
	hasBody   bool
	document  gjson.Result
}

func (s *Suite) UnmarshalYAML(node *yaml.Node) error {
	type plain Suite
	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}
	keys := mappingKeys(node)
	s.hasBody = keys["body"]
	return nil
}

func (c *Case) UnmarshalYAML(node *yaml.Node) error {
	type plain Case
	if err := node.Decode((*plain)(c)); err != nil {
		return fmt.Errorf("case at line %d: %w", node.Line, err)
	}
	keys := mappingKeys(node)
	c.hasEquals = keys["equals"]
	c.hasSchema = keys["schema"]
	c.hasBody = keys["body"]
	c.Line = node.Line
	return nil
}

func mappingKeys(node *yaml.Node) map[string]bool {
	keys := make(map[string]bool)
	if node.Kind != yaml.MappingNode {
		return keys
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys[node.Content[i].Value] = true
	}
	return keys
}

// Mode reports whether the case compares by equality or by schema.
func (c *Case) Mode() pathmatch.Mode {
	if c.hasSchema {
		return pathmatch.ModeSchema
	}
	return pathmatch.ModeLiteral
}

// Expected returns the literal value or schema descriptor of the case.
func (c *Case) Expected() any {
	if c.hasSchema {
		return c.Schema
	}
	return c.Equals
}

// AllTags returns the case tags followed by the suite tags.
func (s *Suite) AllTags(c *Case) []string {
	tags := make([]string, 0, len(c.Tags)+len(s.Tags))
	tags = append(tags, c.Tags...)
	return append(tags, s.Tags...)
}

// Request builds the match request for one of the suite's cases.
func (s *Suite) Request(c *Case) pathmatch.Request {
	doc := s.document
	if c.document.Exists() {
		doc = c.document
	}
	return pathmatch.Request{
		Body:     doc.Value(),
		Expected: c.Expected(),
		Path:     c.Path,
		Not:      c.Not,
	}
}

// Option adjusts how a suite is loaded.
type Option func(*Suite)

// WithSchemaDir resolves schema files against dir instead of the suite's directory.
func WithSchemaDir(dir string) Option {
	return func(s *Suite) {
		s.SchemaDir = dir
	}
}

// Load reads and validates a suite file.
func Load(path string, opts ...Option) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading suite: %w", err)
	}

	format := FormatYAML
	if strings.HasSuffix(path, ".json") {
		format = FormatJSON
	}

	s, err := Parse(data, format, filepath.Dir(path), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.File = path
	if s.Name == "" {
		s.Name = trimExtension(filepath.Base(path))
	}
	return s, nil
}

// Parse decodes a suite, loads its bodies and validates its cases.
func Parse(data []byte, format Format, baseDir string, opts ...Option) (*Suite, error) {
	s := &Suite{}
	switch format {
	case FormatJSON:
		// Round-trip through a yaml.Node so both formats share the
		// key-presence checks in UnmarshalYAML.
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing suite: %w", err)
		}
		var node yaml.Node
		if err := node.Encode(raw); err != nil {
			return nil, fmt.Errorf("parsing suite: %w", err)
		}
		if err := node.Decode(s); err != nil {
			return nil, fmt.Errorf("parsing suite: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parsing suite: %w", err)
		}
	}
	s.BaseDir = baseDir
	for _, opt := range opts {
		opt(s)
	}
	if s.SchemaDir == "" {
		s.SchemaDir = baseDir
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Suite) load() error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("no cases defined")
	}
	s.validator = schema.NewValidator(schema.WithBaseDir(s.SchemaDir))

	if s.hasBody || s.BodyFile != "" {
		doc, err := s.resolveBody(s.Body, s.hasBody, s.BodyFile, s.From, gjson.Result{})
		if err != nil {
			return fmt.Errorf("suite body: %w", err)
		}
		s.document = doc
	} else if s.From != "" {
		return fmt.Errorf("suite body: from %q given without body or bodyFile", s.From)
	}

	for i, c := range s.Cases {
		if c == nil {
			return fmt.Errorf("case %d is empty", i+1)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		if err := s.loadCase(c); err != nil {
			return fmt.Errorf("case %q (line %d): %w", c.Name, c.Line, err)
		}
	}
	return nil
}

func (s *Suite) loadCase(c *Case) error {
	switch {
	case c.hasEquals && c.hasSchema:
		return fmt.Errorf("equals and schema are mutually exclusive")
	case !c.hasEquals && !c.hasSchema:
		return fmt.Errorf("one of equals or schema is required")
	}

	if _, err := pathmatch.ParsePath(c.Path); err != nil {
		return err
	}

	if c.hasSchema {
		if _, err := s.validator.Compile(c.Schema); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}

	switch {
	case c.hasBody || c.BodyFile != "":
		doc, err := s.resolveBody(c.Body, c.hasBody, c.BodyFile, c.From, gjson.Result{})
		if err != nil {
			return fmt.Errorf("body: %w", err)
		}
		c.document = doc
	case c.From != "":
		if !s.document.Exists() {
			return fmt.Errorf("from %q given but the suite has no body", c.From)
		}
		doc, err := s.resolveBody(nil, false, "", c.From, s.document)
		if err != nil {
			return fmt.Errorf("body: %w", err)
		}
		c.document = doc
	case !s.document.Exists():
		return fmt.Errorf("no body: set body or bodyFile on the suite or the case")
	}
	return nil
}

// resolveBody parses a body from one of its sources and applies a gjson
// selection to it. parent is used when neither inline nor file is given.
func (s *Suite) resolveBody(inline any, hasInline bool, file, from string, parent gjson.Result) (gjson.Result, error) {
	var doc gjson.Result
	switch {
	case hasInline && file != "":
		return gjson.Result{}, fmt.Errorf("body and bodyFile are mutually exclusive")
	case hasInline:
		data, err := json.Marshal(inline)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("encoding inline body: %w", err)
		}
		doc = gjson.ParseBytes(data)
	case file != "":
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.BaseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("reading body file: %w", err)
		}
		if !gjson.ValidBytes(data) {
			return gjson.Result{}, fmt.Errorf("body file %s is not valid JSON", file)
		}
		doc = gjson.ParseBytes(data)
	default:
		doc = parent
	}

	if from == "" {
		return doc, nil
	}
	selected := doc.Get(from)
	if !selected.Exists() {
		return gjson.Result{}, fmt.Errorf("from %q selects nothing", from)
	}
	return selected, nil
}

// IsSuiteFile reports whether path has a suite extension.
func IsSuiteFile(path string) bool {
	for _, ext := range Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func trimExtension(name string) string {
	for _, ext := range Extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// Collect expands files and directories into the suite files they contain.
func Collect(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && IsSuiteFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if IsSuiteFile(arg) {
			files = append(files, arg)
		}
	}

	return files, nil
}
