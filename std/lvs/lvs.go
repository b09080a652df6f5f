// Package lvs compiles Light VerSec trust schemas into binary models.
//
// Compilation runs in stages, each a pure function of the previous result:
// parse, resolve, compile patterns, build the rule graph, encode.
package lvs

import (
	"fmt"

	"github.com/named-data/lvsc/std/log"
	"github.com/named-data/lvsc/std/lvs/ast"
	"github.com/named-data/lvsc/std/lvs/binfmt"
	"github.com/named-data/lvsc/std/lvs/model"
	"github.com/named-data/lvsc/std/lvs/parser"
	"github.com/named-data/lvsc/std/lvs/pattern"
	"github.com/named-data/lvsc/std/lvs/resolver"
	"github.com/named-data/lvsc/std/lvs/rules"
)

// Options configures a Compiler.
type Options struct {
	// Tag is attached to log records of this compiler.
	Tag string
	// MaxSourceSize bounds the schema text in bytes. Zero means no limit.
	MaxSourceSize int
}

func DefaultOptions() Options {
	return Options{Tag: "lvs", MaxSourceSize: 1 << 20}
}

// Compiler holds no state between compilations and is safe for concurrent use.
type Compiler struct {
	opts Options
}

func NewCompiler(opts Options) *Compiler {
	return &Compiler{opts: opts}
}

func (c *Compiler) String() string {
	return c.opts.Tag
}

var defaultCompiler = NewCompiler(DefaultOptions())

// Parse parses schema text without checking references.
func Parse(src string) (*ast.Schema, error) {
	return defaultCompiler.Parse(src)
}

// CompileModel compiles schema text into a model.
func CompileModel(src string) (*model.Model, error) {
	return defaultCompiler.CompileModel(src)
}

// Compile compiles schema text into the binary model format.
func Compile(src string) ([]byte, error) {
	return defaultCompiler.Compile(src)
}

// CheckSize fails with SourceSizeError if src exceeds the source limit.
func (c *Compiler) CheckSize(src string) error {
	if c.opts.MaxSourceSize > 0 && len(src) > c.opts.MaxSourceSize {
		return SourceSizeError{Size: len(src), Limit: c.opts.MaxSourceSize}
	}
	return nil
}

func (c *Compiler) Parse(src string) (*ast.Schema, error) {
	if err := c.CheckSize(src); err != nil {
		return nil, err
	}
	return parser.Parse(src)
}

func (c *Compiler) CompileModel(src string) (*model.Model, error) {
	tree, err := c.Parse(src)
	if err != nil {
		return nil, err
	}
	log.Debug(c, "Parsed schema", "types", len(tree.Types), "rules", len(tree.Rules))

	schema, err := resolver.Resolve(tree)
	if err != nil {
		return nil, err
	}

	m := &model.Model{Types: make([]*model.Type, 0, len(schema.Types))}
	for _, t := range schema.Types {
		matcher, err := pattern.Compile(t.Pattern, nil)
		if err != nil {
			return nil, err
		}
		m.Types = append(m.Types, &model.Type{Name: t.Name, Matcher: matcher})
	}

	graph, err := rules.Build(schema)
	if err != nil {
		return nil, err
	}
	m.Rules = graph.Rules
	m.Checks = graph.Checks
	log.Debug(c, "Built rule graph", "rules", len(m.Rules), "checks", m.Checks)
	return m, nil
}

func (c *Compiler) Compile(src string) ([]byte, error) {
	m, err := c.CompileModel(src)
	if err != nil {
		return nil, err
	}
	buf, err := binfmt.Encode(m)
	if err != nil {
		return nil, err
	}
	log.Debug(c, "Encoded model", "size", len(buf), "fingerprint", fmt.Sprintf("%016x", binfmt.Fingerprint(buf)))
	return buf, nil
}

// Decode reads a binary model.
func Decode(buf []byte) (*model.Model, error) {
	return binfmt.Decode(buf)
}
