// Command gentmpl is a thin CLI wrapper around the bench template engine.
// Flags follow the original engine's own key=value convention rather than
// POSIX dashes: gentmpl template=order.tmpl out=order.xml num=1000.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/dhentchel/bench"
)

func main() {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fatalf("%v", err)
	}

	templatePath := args["template"]
	if templatePath == "" {
		fatalf("template= is required")
	}
	outPath := args["out"]
	if outPath == "" {
		fatalf("out= is required")
	}

	numDocs := 1
	if v, ok := args["num"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			fatalf("num=%q is not a positive integer", v)
		}
		numDocs = n
	}
	startNum := 0
	if v, ok := args["start"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fatalf("start=%q is not an integer", v)
		}
		startNum = n
	}

	runID := uuid.New()

	if v, ok := args["wordcache"]; ok {
		if err := bench.ConfigureWordListCache(bench.WordListCacheOptions{PersistPath: v}); err != nil {
			fatalf("opening wordcache=%s: %v", v, err)
		}
	}

	tree, err := bench.ParseFile(templatePath)
	if err != nil {
		fatalf("parsing %s: %v", templatePath, err)
	}
	for _, issue := range tree.Issues {
		log.Printf("run=%s %s: %s", runID, issue.Code, issue.Message)
	}

	if v, ok := args["vars"]; ok {
		if err := tree.SetVariables(v); err != nil {
			fatalf("loading vars=%s: %v", v, err)
		}
	}

	var bar *progressbar.ProgressBar
	if numDocs > 1 && term.IsTerminal(int(os.Stdout.Fd())) {
		bar = progressbar.Default(int64(numDocs), "generating")
	}

	var maxBytes int64
	if v, ok := args["maxbytes"]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			fatalf("maxbytes=%q is not a non-negative integer", v)
		}
		maxBytes = n
	}

	var totalBytes int64
	for i := 0; i < numDocs; i++ {
		docNum := startNum + i
		path := outputPath(outPath, numDocs, startNum, docNum)

		f, err := os.Create(path)
		if err != nil {
			fatalf("creating %s: %v", path, err)
		}
		n, err := tree.GenerateWithOpt(int64(docNum), f, bench.GenerateOpt{MaxBytes: maxBytes})
		closeErr := f.Close()
		if err != nil {
			fatalf("generating %s: %v", path, err)
		}
		if closeErr != nil {
			fatalf("closing %s: %v", path, closeErr)
		}
		totalBytes += n
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	fmt.Printf("run=%s wrote %s across %d document(s)\n", runID, humanize.Bytes(uint64(totalBytes)), numDocs)
}

// parseArgs decodes the CLI's own key=value argument convention, the same
// shape the engine uses for processing-instruction attributes.
func parseArgs(argv []string) (map[string]string, error) {
	args := map[string]string{}
	for _, tok := range argv {
		eq := strings.IndexByte(tok, '=')
		if eq < 1 {
			return nil, fmt.Errorf("argument %q missing key=value", tok)
		}
		args[strings.ToLower(tok[:eq])] = tok[eq+1:]
	}
	return args, nil
}

// outputPath synthesizes the per-document output path: when writing exactly
// one document at index 0, the path is used verbatim; otherwise the
// zero-padded document index is spliced in immediately before the final
// '.' in the path (or appended if there is none), matching the original
// engine's CLI behavior.
func outputPath(base string, numDocs, startNum, docNum int) string {
	if docNum == 0 && numDocs == 1 {
		return base
	}
	width := len(strconv.Itoa(startNum + numDocs - 1))
	idx := fmt.Sprintf("%0*d", width, docNum)

	dot := strings.LastIndexByte(base, '.')
	if dot > 0 {
		return base[:dot] + idx + base[dot:]
	}
	return base + idx
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "gentmpl: "+format+"\n", a...)
	os.Exit(1)
}
