// Package assembler implements the MSC-16 assembler core: lexing via
// package parser, macro expansion, and a single forward pass that
// emits code while discovering labels and backpatching forward
// references. Assemble is the sole entry point; it constructs its
// tables, runs the pipeline, and drops them on return, so it is safe
// to call concurrently from independent goroutines.
package assembler

import (
	"strings"

	"github.com/msc16/toolchain/parser"
)

// Assemble translates MSC-16 assembly source into a flat binary image.
// On any lexical, syntactic, symbolic, or preprocessor error it
// returns an empty slice together with the accumulated error list.
func Assemble(source string) ([]byte, *parser.ErrorList) {
	lines := splitLines(source)

	pre := parser.NewPreprocessor()
	expanded, lineNos, preErrs := pre.Process(lines)

	enc := newEncoder()
	for _, e := range preErrs.Errors {
		enc.errs.Add(e)
	}

	for i, line := range expanded {
		lex := parser.NewLexer(line, lineNos[i])
		tokens := lex.Tokenize()
		for _, e := range lex.Errors().Errors {
			enc.errs.Add(e)
		}
		if len(tokens) == 0 {
			continue
		}
		enc.EncodeLine(tokens)
	}

	return enc.Finish()
}

// splitLines breaks source into lines without its terminators, one
// entry per physical line, preserving blank lines so line numbers
// stay 1-based and stable.
func splitLines(source string) []string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}
