package parser

import "strings"

// Preprocessor expands macro definitions and invocations in place
// before the encoder ever sees a line. It is grounded on the same
// walk-with-index shape as a classic macro assembler preprocessor:
// lines are consumed from a work list that can grow mid-scan when a
// macro invocation inserts its body.
type Preprocessor struct {
	macros *MacroTable
}

// NewPreprocessor creates a preprocessor backed by a fresh macro table.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{macros: NewMacroTable()}
}

// firstWord returns the first separator-delimited word on a line, or
// "" if the line is blank or starts with a comment.
func firstWord(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || trimmed[0] == '#' {
		return ""
	}
	end := strings.IndexAny(trimmed, " \t,#")
	if end == -1 {
		return trimmed
	}
	return trimmed[:end]
}

// secondWord returns the word following the first one, used to read a
// macro name off a `def NAME` line.
func secondWord(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	end := strings.IndexAny(trimmed, " \t,#")
	if end == -1 {
		return ""
	}
	rest := strings.TrimLeft(trimmed[end:], " \t,")
	if rest == "" || rest[0] == '#' {
		return ""
	}
	end2 := strings.IndexAny(rest, " \t,#")
	if end2 == -1 {
		return rest
	}
	return rest[:end2]
}

// Process walks lines, expanding macro definitions and invocations,
// and returns the emitted lines together with the original source
// line number each one carries for diagnostics.
func (p *Preprocessor) Process(lines []string) ([]string, []int, *ErrorList) {
	errs := &ErrorList{}

	work := append([]string(nil), lines...)
	lineNos := make([]int, len(lines))
	for i := range lineNos {
		lineNos[i] = i + 1
	}

	var output []string
	var outputLines []int
	var current *Macro

	i := 0
	for i < len(work) {
		raw := work[i]
		lineNo := lineNos[i]
		word := firstWord(raw)

		if current != nil {
			switch word {
			case "end":
				if err := p.macros.Define(current.Name, current.Body); err != nil {
					errs.Add(NewError(lineNo, ErrorPreprocessor, err.Error()))
				}
				current = nil
			case "def":
				errs.Add(NewError(lineNo, ErrorPreprocessor, "nested macro definition"))
			default:
				current.Body = append(current.Body, raw)
			}
			i++
			continue
		}

		switch word {
		case "def":
			name := secondWord(raw)
			if name == "" {
				errs.Add(NewError(lineNo, ErrorPreprocessor, "def requires a macro name"))
				i++
				continue
			}
			if _, exists := p.macros.Lookup(name); exists {
				errs.Add(NewError(lineNo, ErrorPreprocessor, "macro "+name+" already defined"))
			}
			current = &Macro{Name: name}
			i++
			continue

		case "end":
			errs.Add(NewError(lineNo, ErrorPreprocessor, "end without matching def"))
			i++
			continue
		}

		if word != "" {
			if m, ok := p.macros.Lookup(word); ok {
				work = spliceLines(work, i, m.Body)
				lineNos = spliceLineNos(lineNos, i, lineNo, len(m.Body))
				continue // rescan starting at the first inserted body line
			}
		}

		output = append(output, raw)
		outputLines = append(outputLines, lineNo)
		i++
	}

	if current != nil {
		errs.Add(NewError(lineNos[len(lineNos)-1], ErrorPreprocessor, "unterminated macro definition: "+current.Name))
	}

	return output, outputLines, errs
}

func spliceLines(work []string, at int, body []string) []string {
	out := make([]string, 0, len(work)-1+len(body))
	out = append(out, work[:at]...)
	out = append(out, body...)
	out = append(out, work[at+1:]...)
	return out
}

func spliceLineNos(lineNos []int, at int, callerLine int, bodyLen int) []int {
	out := make([]int, 0, len(lineNos)-1+bodyLen)
	out = append(out, lineNos[:at]...)
	for j := 0; j < bodyLen; j++ {
		out = append(out, callerLine)
	}
	out = append(out, lineNos[at+1:]...)
	return out
}
