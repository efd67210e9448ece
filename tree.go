package bench

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhentchel/bench/source/vars"
	"github.com/dhentchel/bench/source/wordlist"
)

// ConfigureWordListCache attaches (or detaches, with the zero value) the
// process-wide word-list cache's optional disk-backed accelerant (spec §5,
// §9). It is safe to call at most once per process before any Words segment
// first generates; callers that never call it get the default in-memory-only
// cache.
func ConfigureWordListCache(opts WordListCacheOptions) error {
	if opts.PersistPath == "" {
		wordlist.SetStore(nil)
		return nil
	}
	store, err := wordlist.OpenStore(opts.PersistPath)
	if err != nil {
		return err
	}
	wordlist.SetStore(store)
	return nil
}

// Tree is a compiled template: a root block plus the variables table it was
// compiled against, ready to drive one or more generate calls (spec §6).
type Tree struct {
	root   *Block
	vars   *Variables
	Issues Issues // recoverable warnings collected during compile
}

// ParseFile loads template text from path and compiles it. It fails if the
// file exceeds the 99,999,999-byte template ceiling or on any fatal parse
// error (spec §5, §6).
func ParseFile(path string) (*Tree, error) {
	return ParseFileWithOpt(path, ParseOpt{})
}

// ParseFileWithOpt behaves like ParseFile but honors opt's byte ceiling
// override and fail-fast promotion of recoverable warnings.
func ParseFileWithOpt(path string, opt ParseOpt) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseBytes(data, filepath.Dir(path), opt)
}

// ParseString compiles template from an in-memory string (spec §6). Any
// relative word-list/variables/file source= path resolves against the
// process's current working directory.
func ParseString(template string) (*Tree, error) {
	return ParseStringWithOpt(template, ParseOpt{})
}

// ParseStringWithOpt behaves like ParseString but honors opt.
func ParseStringWithOpt(template string, opt ParseOpt) (*Tree, error) {
	return parseBytes([]byte(template), "", opt)
}

func parseBytes(data []byte, baseDir string, opt ParseOpt) (*Tree, error) {
	ceiling := int64(maxTemplateBytes)
	if opt.MaxBytes > 0 {
		ceiling = opt.MaxBytes
	}
	if int64(len(data)) > ceiling {
		return nil, fatalf(-1, CodeTemplateTooLarge, "template is %d bytes, exceeds %d", len(data), ceiling)
	}
	v := NewVariables()
	p := newParser(string(data), v)
	p.baseDir = baseDir
	root, err := p.parseRoot()
	if err != nil {
		return nil, err
	}
	if opt.FailFast && len(p.issues) > 0 {
		return nil, p.issues
	}
	return &Tree{root: root, vars: v, Issues: p.issues}, nil
}

// SetVariables loads spec into the tree's variables table (spec §6): "none"
// is a no-op, "{k=v,k2=v2}" sets inline pairs, anything else is treated as a
// properties/YAML/JSON file path per the Variable source= format rules.
// Later calls override earlier ones; this may be called before or after
// Parse*, and again between Generate calls.
func (t *Tree) SetVariables(spec string) error {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, "none") {
		return nil
	}
	if strings.HasPrefix(spec, "{") && strings.HasSuffix(spec, "}") {
		inner := spec[1 : len(spec)-1]
		for _, pair := range strings.Split(inner, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			eq := strings.IndexByte(pair, '=')
			if eq < 0 {
				continue
			}
			t.vars.Set(strings.TrimSpace(pair[:eq]), strings.TrimSpace(pair[eq+1:]))
		}
		return nil
	}
	m, err := vars.Load(spec)
	if err != nil {
		return err
	}
	t.vars.Merge(m)
	return nil
}

// Generate streams output to w using context as the root context, returning
// the number of bytes written. The tree's variables table is used directly;
// callers running concurrent generations must clone the tree or the table
// themselves (spec §5).
func (t *Tree) Generate(context int64, w io.Writer) (int64, error) {
	return t.root.Generate(context, w)
}

// GenerateWithOpt behaves like Generate but enforces opt's byte ceiling, if
// any, aborting the generate with a CodeByteCeilingReached issue once
// exceeded (spec §5: "implementations targeting long outputs should offer a
// byte-count ceiling parameter").
func (t *Tree) GenerateWithOpt(context int64, w io.Writer, opt GenerateOpt) (int64, error) {
	if opt.MaxBytes <= 0 {
		return t.root.Generate(context, w)
	}
	cw := &ceilingWriter{w: w, limit: opt.MaxBytes}
	n, err := t.root.Generate(context, cw)
	return n, err
}

// ceilingWriter aborts with a CodeByteCeilingReached issue once total writes
// would exceed limit; it still forwards every byte up to the limit (and none
// past it) so a caller inspecting partial output sees a clean prefix.
type ceilingWriter struct {
	w     io.Writer
	limit int64
	total int64
}

func (c *ceilingWriter) Write(p []byte) (int, error) {
	over := int64(len(p)) > c.limit-c.total
	if over {
		p = p[:c.limit-c.total]
	}
	n, err := c.w.Write(p)
	c.total += int64(n)
	if err != nil {
		return n, err
	}
	if over {
		return n, fatalf(-1, CodeByteCeilingReached, "exceeded %d byte ceiling", c.limit)
	}
	return n, nil
}

// GenerateToString is a convenience wrapper around Generate (spec §6).
func (t *Tree) GenerateToString(context int64) (string, error) {
	var b strings.Builder
	if _, err := t.Generate(context, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
