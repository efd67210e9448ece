package bench

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhentchel/bench/internal/engine"
	"github.com/dhentchel/bench/source/vars"
)

const (
	tagBegin = "<?"
	tagEnd   = "?>"
)

// parser turns template text into a tree of segments, mirroring the
// recursive-descent shape of the original engine's block parser (spec
// §4.1): scan for the next instruction, emit the literal text before it,
// dispatch on the instruction's kind, and recurse into nested blocks.
type parser struct {
	tmpl    string
	pos     int
	vars    *Variables
	nextID  int
	issues  Issues
	rng     *engine.Uniform
	baseDir string // directory a relative file/word-list/vars path resolves against
}

func newParser(tmpl string, vars *Variables) *parser {
	return &parser{tmpl: tmpl, vars: vars}
}

// resolveSource joins a file-valued source= attribute against the parser's
// base directory, leaving inline `{...}` word-list specs untouched.
func (p *parser) resolveSource(spec string) string {
	if spec == "" || strings.HasPrefix(spec, "{") {
		return spec
	}
	return resolveSourcePath(p.baseDir, spec)
}

func (p *parser) newID() int {
	id := p.nextID
	p.nextID++
	return id
}

func (p *parser) warn(offset int, code, format string, args ...any) {
	p.issues = AppendIssue(p.issues, code, fmt.Sprintf(format, args...), int64(offset))
}

// parseRoot compiles the whole template under an implicit root block
// configured as count=1 context=combined, matching GenFile.parseString.
func (p *parser) parseRoot() (*Block, error) {
	root := newBlock(p.newID(), "", nil, ContextCombined, 1, 1, 0, nil, p.vars)
	if err := p.parseBlockBody(root, true); err != nil {
		return nil, err
	}
	return root, nil
}

// parseBlockBody scans instructions and literal text, appending children to
// b, until it consumes a matching gen.end (or, for the implicit root, until
// EOF). isRoot disables the "missing end tag" fatal error at EOF.
func (p *parser) parseBlockBody(b *Block, isRoot bool) error {
	for {
		textStart := p.pos
		rel := strings.Index(p.tmpl[p.pos:], tagBegin)
		if rel < 0 {
			if textStart < len(p.tmpl) {
				b.children = append(b.children, newLiteral([]byte(p.tmpl[textStart:])))
			}
			p.pos = len(p.tmpl)
			if !isRoot {
				return fatalf(int64(textStart), CodeMissingEndTag, "block %q never closed with gen.end", b.name)
			}
			return nil
		}
		instrStart := p.pos + rel
		endRel := strings.Index(p.tmpl[instrStart:], tagEnd)
		if endRel < 0 {
			return fatalf(int64(instrStart), CodeMissingEndTag, "missing ?> for processing instruction")
		}
		instrEnd := instrStart + endRel + len(tagEnd)

		if instrStart > textStart {
			b.children = append(b.children, newLiteral([]byte(p.tmpl[textStart:instrStart])))
		}

		body := strings.TrimSpace(p.tmpl[instrStart+len(tagBegin) : instrEnd-len(tagEnd)])
		kindTok, rest := splitFirstToken(body)
		if !strings.HasPrefix(strings.ToLower(kindTok), "gen.") {
			return fatalf(int64(instrStart), CodeUnknownSegment, "expected a gen.KIND token, found %q", kindTok)
		}
		kind := strings.ToLower(strings.TrimPrefix(kindTok, "gen."))
		p.pos = instrEnd

		switch kind {
		case "end":
			args, err := parseArgs(rest)
			if err != nil {
				return wrapOffset(err, instrStart)
			}
			if nameVal, ok := args["name"]; ok && nameVal != b.name {
				return fatalf(int64(instrStart), CodeMismatchedBlock, "end name %q does not match begin name %q", nameVal, b.name)
			}
			p.skipPostTagWhitespace()
			return nil
		case "comment":
			p.skipPostTagWhitespace()
		case "begin":
			child, err := p.parseBegin(instrStart, rest)
			if err != nil {
				return err
			}
			if child != nil {
				b.children = append(b.children, child)
			}
		case "value":
			seg, err := p.buildValue(instrStart, rest)
			if err != nil {
				return err
			}
			if seg != nil {
				b.children = append(b.children, seg)
			}
		case "words":
			seg, err := p.buildWords(instrStart, rest)
			if err != nil {
				return err
			}
			if seg != nil {
				b.children = append(b.children, seg)
			}
		case "date":
			seg, err := p.buildDate(instrStart, rest)
			if err != nil {
				return err
			}
			if seg != nil {
				b.children = append(b.children, seg)
			}
		case "variable":
			seg, err := p.buildVariable(instrStart, rest)
			if err != nil {
				return err
			}
			if seg != nil {
				b.children = append(b.children, seg)
			}
		case "file":
			seg, err := p.buildFile(instrStart, rest)
			if err != nil {
				return err
			}
			if seg != nil {
				b.children = append(b.children, seg)
			}
		default:
			return fatalf(int64(instrStart), CodeUnknownSegment, "unrecognized segment kind %q", kind)
		}
	}
}

func wrapOffset(err error, offset int) error {
	if iss, ok := AsIssues(err); ok {
		out := make(Issues, len(iss))
		for i, it := range iss {
			if it.Offset < 0 {
				it.Offset = int64(offset)
			}
			out[i] = it
		}
		return out
	}
	return err
}

// skipPostTagWhitespace skips non-space whitespace (newlines, tabs, CR, FF)
// following a begin/end/comment tag, per spec §4.1, so templates can be
// formatted without polluting output. A literal space is left untouched.
func (p *parser) skipPostTagWhitespace() {
	for p.pos < len(p.tmpl) {
		switch p.tmpl[p.pos] {
		case '\n', '\t', '\r', '\f':
			p.pos++
		default:
			return
		}
	}
}

func splitFirstToken(s string) (string, string) {
	s = strings.TrimLeft(s, " \t\n\r\f")
	i := strings.IndexAny(s, " \t\n\r\f")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t\n\r\f")
}

// parseArgs splits a whitespace-delimited key=value list (spec §4.1/§6).
func parseArgs(s string) (map[string]string, error) {
	args := map[string]string{}
	for _, tok := range strings.Fields(s) {
		eq := strings.IndexByte(tok, '=')
		if eq < 1 || eq == len(tok)-1 {
			return nil, fatalf(-1, CodeMissingEquals, "argument %q missing key or value", tok)
		}
		args[strings.ToLower(tok[:eq])] = tok[eq+1:]
	}
	return args, nil
}

func (p *parser) randRNG() *engine.Uniform {
	if p.rng == nil {
		p.rng = engine.NewUniform(defaultRandomSeed)
	}
	return p.rng
}

const defaultRandomSeed = 171931

// resolveIntParam expands $RANDOM, $ZIPF and $NAME references in an integer
// attribute value, falling back to deflt on any parse failure (spec §4.1).
func (p *parser) resolveIntParam(val string, deflt int64) int64 {
	if val == "" {
		return deflt
	}
	if val[0] == '$' {
		name := val[1:]
		switch {
		case strings.EqualFold(name, "RANDOM"):
			return int64(p.randRNG().Int31n(clampInt32(DefaultMax)))
		case strings.EqualFold(name, "ZIPF"):
			return engine.NewZipf(DefaultZipf).Next()
		default:
			s := p.vars.Get(name)
			if s == "" {
				return deflt
			}
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return deflt
			}
			return absInt64(n)
		}
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return deflt
	}
	return absInt64(n)
}

func absInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// sharedParams holds the attributes every segment kind decodes in common
// (spec §4.1): name, order, min, max, factor, range, save.
type sharedParams struct {
	name     string
	dist     Distribution
	min, max int64
	factor   int64
	logBase  int64
	saveVar  string
}

func (p *parser) decodeShared(args map[string]string, defaults sharedParams) (sharedParams, map[string]string) {
	sp := defaults
	consumed := map[string]bool{}

	if v, ok := args["name"]; ok {
		sp.name = v
		consumed["name"] = true
	}
	if v, ok := args["order"]; ok {
		lv := strings.ToLower(v)
		switch {
		case lv == "serial":
			sp.dist = DistSerial
		case lv == "random":
			sp.dist = DistRandom
		case lv == "zipf":
			sp.dist = DistZipf
		case lv == "context":
			sp.dist = DistContext
		case strings.HasPrefix(lv, "log"):
			sp.dist = DistLog
			if n, err := strconv.ParseInt(v[3:], 10, 64); err == nil && n > 1 {
				sp.logBase = n
			} else {
				sp.logBase = 10
			}
		}
		consumed["order"] = true
	}
	if v, ok := args["count"]; ok {
		sp.max = p.resolveIntParam(v, 1)
		sp.min = sp.max
		consumed["count"] = true
	}
	if v, ok := args["min"]; ok {
		sp.min = p.resolveIntParam(v, 0)
		consumed["min"] = true
	}
	if v, ok := args["max"]; ok {
		sp.max = p.resolveIntParam(v, DefaultMax)
		consumed["max"] = true
	}
	if v, ok := args["factor"]; ok {
		sp.factor = p.resolveIntParam(v, 0)
		consumed["factor"] = true
	}
	if v, ok := args["range"]; ok {
		lv := strings.ToLower(v)
		toIdx := strings.Index(lv, "to")
		if toIdx < 1 {
			p.warn(0, CodeInvalidNumber, "range=%q missing 'to'", v)
		} else {
			sp.min = p.resolveIntParam(lv[:toIdx], 0)
			byIdx := strings.Index(lv, "by")
			if byIdx > toIdx {
				sp.max = p.resolveIntParam(lv[toIdx+2:byIdx], 1)
				sp.factor = p.resolveIntParam(lv[byIdx+2:], 0)
			} else {
				sp.max = p.resolveIntParam(lv[toIdx+2:], 0)
			}
		}
		consumed["range"] = true
	}
	if v, ok := args["save"]; ok {
		sp.saveVar = v
		consumed["save"] = true
	}

	if sp.max < sp.min {
		sp.max = sp.min + 1
	}
	if sp.factor < 1 {
		sp.factor = 1
	}

	rest := map[string]string{}
	for k, v := range args {
		if !consumed[k] {
			rest[k] = v
		}
	}
	return sp, rest
}

func (sp sharedParams) base(id int) SegmentBase {
	return SegmentBase{
		id: id, name: sp.name, dist: sp.dist,
		min: sp.min, max: sp.max, factor: sp.factor,
		saveVar: sp.saveVar, logBase: sp.logBase,
	}
}

// warnUnknown logs one issue per leftover attribute the variant-specific
// decode step didn't consume; the caller omits the segment (spec §7
// category 2).
func (p *parser) warnUnknown(offset int, rest map[string]string) {
	for k := range rest {
		p.warn(offset, CodeUnknownAttribute, "unknown attribute %q", k)
	}
}

// parseBegin decodes a gen.begin tag, recurses into the block body, and
// returns the compiled Block. Unlike the leaf-segment builders it must
// consume the body even when the block is ultimately rejected, so the
// matching gen.end is not left dangling.
func (p *parser) parseBegin(offset int, rest string) (*Block, error) {
	args, err := parseArgs(rest)
	if err != nil {
		return nil, wrapOffset(err, offset)
	}
	p.skipPostTagWhitespace()

	defaults := sharedParams{dist: DistContext, min: 1, max: 1, factor: 1, logBase: 10}
	sp, rest2 := p.decodeShared(args, defaults)

	rule := ContextCombined
	if v, ok := rest2["context"]; ok {
		switch strings.ToLower(v) {
		case "incremental":
			rule = ContextIncremental
		case "nested":
			rule = ContextNested
		case "combined":
			rule = ContextCombined
		default:
			p.warn(offset, CodeUnknownAttribute, "unknown context=%q, using combined", v)
		}
		delete(rest2, "context")
	}

	var ratio float64
	if v, ok := rest2["ratio"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f < 1 {
			ratio = f
		} else {
			p.warn(offset, CodeInvalidRatio, "ratio=%q ignored", v)
		}
		delete(rest2, "ratio")
	}

	var cond *Condition
	if v, ok := rest2["while"]; ok {
		c, err := parseWhileClause(v)
		if err != nil {
			p.warn(offset, CodeInvalidCondition, "%v", err)
		}
		cond = c
		delete(rest2, "while")
	}

	block := newBlock(p.newID(), sp.name, nil, rule, sp.min, sp.max, ratio, cond, p.vars)
	if err := p.parseBlockBody(block, false); err != nil {
		return nil, err
	}

	if len(rest2) > 0 {
		p.warnUnknown(offset, rest2)
		return nil, nil
	}
	return block, nil
}

// parseWhileClause compiles a while=LHS OP RHS clause written without
// internal whitespace (e.g. while=$count<10), since attribute tokens never
// carry embedded spaces (spec §4.1). An ambiguous operator set (none, or
// more than one distinct comparison character) folds to an always-true
// condition with a reported warning (spec §7 category 2).
func parseWhileClause(s string) (*Condition, error) {
	opIdx := -1
	var op CondOp
	count := 0
	for i := 0; i < len(s); i++ {
		var candidate CondOp
		switch s[i] {
		case '=':
			candidate = CondEq
		case '<':
			candidate = CondLt
		case '>':
			candidate = CondGt
		default:
			continue
		}
		if opIdx < 0 {
			opIdx = i
			op = candidate
		}
		count++
	}
	if count != 1 || opIdx <= 0 || opIdx >= len(s)-1 {
		always := newCondition(newLiteralOperand(1), CondEq, newLiteralOperand(1))
		return always, fmt.Errorf("ambiguous while clause %q folded to always-true", s)
	}
	lhs := parseOperand(s[:opIdx])
	rhs := parseOperand(s[opIdx+1:])
	return newCondition(lhs, op, rhs), nil
}

func parseOperand(tok string) operand {
	tok = strings.TrimSpace(tok)
	if strings.HasPrefix(tok, "$") {
		return newVarOperand(tok[1:])
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		n = 0
	}
	return newLiteralOperand(n)
}

// buildValue decodes a gen.value tag (spec §4.2).
func (p *parser) buildValue(offset int, rest string) (Segment, error) {
	args, err := parseArgs(rest)
	if err != nil {
		return nil, wrapOffset(err, offset)
	}
	defaults := sharedParams{dist: DistContext, min: 0, max: DefaultMax, factor: 1, logBase: 10}
	sp, rest2 := p.decodeShared(args, defaults)

	format := "#0"
	if v, ok := rest2["format"]; ok {
		format = v
		delete(rest2, "format")
	}
	var ratio float64
	if v, ok := rest2["ratio"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			ratio = f
		} else {
			p.warn(offset, CodeInvalidNumber, "ratio=%q ignored", v)
		}
		delete(rest2, "ratio")
	}

	if len(rest2) > 0 {
		p.warnUnknown(offset, rest2)
		return nil, nil
	}
	return newValue(sp.base(p.newID()), format, ratio, p.vars), nil
}

// buildWords decodes a gen.words tag (spec §4.2). Its shared-attribute
// defaults differ from every other variant: zipf order and a 100-word
// default ceiling, matching the original engine's subclass defaults.
func (p *parser) buildWords(offset int, rest string) (Segment, error) {
	args, err := parseArgs(rest)
	if err != nil {
		return nil, wrapOffset(err, offset)
	}
	defaults := sharedParams{dist: DistZipf, min: 0, max: 100, factor: 1, logBase: 10}
	sp, rest2 := p.decodeShared(args, defaults)

	source := ""
	if v, ok := rest2["source"]; ok {
		source = p.resolveSource(v)
		delete(rest2, "source")
	}

	if len(rest2) > 0 {
		p.warnUnknown(offset, rest2)
		return nil, nil
	}
	return newWords(sp.base(p.newID()), source, p.vars), nil
}

// buildDate decodes a gen.date tag (spec §4.2).
func (p *parser) buildDate(offset int, rest string) (Segment, error) {
	args, err := parseArgs(rest)
	if err != nil {
		return nil, wrapOffset(err, offset)
	}
	defaults := sharedParams{dist: DistContext, min: 0, max: DefaultMax, factor: 1, logBase: 10}
	sp, rest2 := p.decodeShared(args, defaults)

	layout := LayoutMDY
	if v, ok := rest2["type"]; ok {
		if l, ok2 := parseDateLayout(v); ok2 {
			layout = l
		} else {
			p.warn(offset, CodeInvalidDateField, "unknown date type %q, using mdy", v)
		}
		delete(rest2, "type")
	}

	start := time.Now()
	if v, ok := rest2["start"]; ok {
		if t, err := parseStartDate(v); err == nil {
			start = t
		} else {
			p.warn(offset, CodeInvalidDateField, "%v", err)
		}
		delete(rest2, "start")
	}

	if len(rest2) > 0 {
		p.warnUnknown(offset, rest2)
		return nil, nil
	}
	return newDate(sp.base(p.newID()), layout, start, p.vars), nil
}

// buildVariable decodes a gen.variable tag. It has two disjoint modes (spec
// §4.2, §3): a bulk-load `source=` ("none", inline `{k=v,...}` pairs, or a
// variables file) that merges into the table at parse time and leaves no
// tree node, or a `name=` declare/read node that carries default/increment
// state into the compiled tree.
func (p *parser) buildVariable(offset int, rest string) (Segment, error) {
	args, err := parseArgs(rest)
	if err != nil {
		return nil, wrapOffset(err, offset)
	}

	if v, ok := args["source"]; ok {
		if strings.EqualFold(v, "none") || strings.HasPrefix(v, "{") {
			if err := (&Tree{vars: p.vars}).SetVariables(v); err != nil {
				p.warn(offset, CodeMissingWordFile, "variable source %q: %v", v, err)
			}
			return nil, nil
		}
		p.loadVariablesFile(offset, p.resolveSource(v))
		return nil, nil
	}

	name, ok := args["name"]
	if !ok {
		p.warn(offset, CodeUnknownAttribute, "gen.variable requires name= or source=")
		return nil, nil
	}
	delete(args, "name")

	defaultVal := ""
	if v, ok := args["default"]; ok {
		defaultVal = v
		delete(args, "default")
	}

	var increment int64
	var hasIncr bool
	if v, ok := args["increment"]; ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			increment, hasIncr = n, true
		} else {
			p.warn(offset, CodeInvalidNumber, "increment=%q is not an integer", v)
		}
		delete(args, "increment")
	}

	if len(args) > 0 {
		p.warnUnknown(offset, args)
		return nil, nil
	}
	return newVariable(p.newID(), name, defaultVal, increment, hasIncr, p.vars), nil
}

// loadVariablesFile merges a bulk variables file into the shared table. A
// read or parse failure leaves the table unchanged and is recorded as a
// recoverable warning on the parser's issues.
func (p *parser) loadVariablesFile(offset int, path string) {
	m, err := vars.Load(path)
	if err != nil {
		p.warn(offset, CodeMissingWordFile, "variable source %q: %v", path, err)
		return
	}
	p.vars.Merge(m)
}

// buildFile decodes a gen.file tag, parsing the referenced template as a
// nested tree rooted at its own implicit block (spec §4.2). A missing or
// unreadable file is a recoverable configuration error; a malformed nested
// template is itself a fatal parse error, since it has the same shape as a
// fatal error in the including template.
func (p *parser) buildFile(offset int, rest string) (Segment, error) {
	args, err := parseArgs(rest)
	if err != nil {
		return nil, wrapOffset(err, offset)
	}
	rawPath, ok := args["source"]
	if !ok {
		p.warn(offset, CodeMissingWordFile, "gen.file requires source=")
		return nil, nil
	}
	delete(args, "source")
	if len(args) > 0 {
		p.warnUnknown(offset, args)
		return nil, nil
	}
	path := p.resolveSource(rawPath)

	data, err := os.ReadFile(path)
	if err != nil {
		p.warn(offset, CodeMissingWordFile, "file %q: %v", path, err)
		return nil, nil
	}
	if len(data) > maxTemplateBytes {
		return nil, fatalf(int64(offset), CodeTemplateTooLarge, "included file %q exceeds %d bytes", path, maxTemplateBytes)
	}

	sub := newParser(string(data), p.vars)
	sub.baseDir = filepath.Dir(path)
	sub.nextID = p.nextID
	root, err := sub.parseRoot()
	p.nextID = sub.nextID
	p.issues = append(p.issues, sub.issues...)
	if err != nil {
		return nil, wrapOffset(err, offset)
	}
	return newFile(p.newID(), path, root), nil
}

// resolveSourcePath joins a relative word-list or variables-file path
// against the directory the current template file lives in, when one is
// known; unused when parsing from an in-memory string.
func resolveSourcePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
