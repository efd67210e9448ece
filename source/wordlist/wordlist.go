// Package wordlist resolves a Words segment's source specification into an
// ordered list of byte-sequence words, and memoizes the result process-wide
// (spec §3/§5): the same source spec, from any segment, resolves to the same
// list instance without re-parsing.
package wordlist

import (
	"bytes"
	"os"
	"strings"
	"sync"

	"github.com/dhentchel/bench/internal/engine"
)

const (
	listSize        = 1000
	wordSize        = 7
	synthesizedSeed = 747 // arbitrary fixed seed; only determinism matters
)

var (
	mu    sync.Mutex
	cache = map[string][][]byte{}
	store *Store
)

// SetStore attaches an optional disk-backed accelerant; pass nil to detach.
func SetStore(s *Store) {
	mu.Lock()
	defer mu.Unlock()
	store = s
}

// Resolve returns the word list for spec, populating the cache on first use.
// spec is either an inline `{w1,w2,...}` expression, an existing file path,
// or anything else — which synthesizes a random list (spec §4.2).
func Resolve(spec string) [][]byte {
	mu.Lock()
	defer mu.Unlock()
	if list, ok := cache[spec]; ok {
		return list
	}
	if store != nil {
		if list, ok := store.Load(spec); ok {
			cache[spec] = list
			return list
		}
	}
	list := resolve(spec)
	cache[spec] = list
	if store != nil {
		_ = store.Save(spec, list)
	}
	return list
}

func resolve(spec string) [][]byte {
	switch {
	case strings.HasPrefix(spec, "{"):
		return parseInline(spec)
	case fileExists(spec):
		list, err := tokenizeFile(spec)
		if err == nil {
			return list
		}
		fallthrough
	default:
		return synthesize()
	}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// parseInline parses "{a,b,c}" with no embedded whitespace into a word list.
func parseInline(spec string) [][]byte {
	inner := strings.TrimSuffix(strings.TrimPrefix(spec, "{"), "}")
	if inner == "" {
		return nil
	}
	parts := strings.Split(inner, ",")
	out := make([][]byte, 0, len(parts))
	for _, p := range parts {
		out = append(out, []byte(p))
	}
	return out
}

// tokenizeFile reads path as a C/C++-style token stream: '#' and '//' start
// a line comment, '/*'..'*/' spans a block comment, and any run of
// non-whitespace bytes outside a comment is one word (spec §4.2).
func tokenizeFile(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return tokenize(data), nil
}

func tokenize(data []byte) [][]byte {
	var words [][]byte
	var cur bytes.Buffer
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, append([]byte(nil), cur.Bytes()...))
			cur.Reset()
		}
	}
	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case c == '#':
			flush()
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '/':
			flush()
			for i < len(data) && data[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			flush()
			i += 2
			for i+1 < len(data) && !(data[i] == '*' && data[i+1] == '/') {
				i++
			}
			i += 2
		case isSpace(c):
			flush()
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return words
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f':
		return true
	default:
		return false
	}
}

// synthesize builds a fixed-size list of random lowercase-ASCII words with
// lengths averaging wordSize, per the original engine's fallback (spec
// §4.2): LIST_SIZE=1000 words, each of length in [1, 2*WORD_SIZE-1].
func synthesize() [][]byte {
	rng := engine.NewUniform(synthesizedSeed)
	out := make([][]byte, listSize)
	for i := range out {
		length := int(rng.Int31n(int32(2*wordSize-1))) + 1
		w := make([]byte, length)
		for j := range w {
			w[j] = byte('a' + rng.Int31n(26))
		}
		out[i] = w
	}
	return out
}
