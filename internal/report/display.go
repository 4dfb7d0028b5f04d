package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	errorBanner = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnBanner  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	infoBanner  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)

	errorText = pterm.NewStyle(pterm.FgRed)
	warnText  = pterm.NewStyle(pterm.FgYellow)
	infoText  = pterm.NewStyle(pterm.FgLightGreen)
)

// displayDiagnostic prints one compile-time diagnostic with its label,
// source position, and a caret-underlined excerpt when a span is available.
func displayDiagnostic(d Diagnostic) {
	banner, text := warnBanner, warnText
	tag := "warning"
	if d.IsError {
		banner, text = errorBanner, errorText
		tag = "error"
	}

	if d.Span == nil {
		banner.Print(" " + d.Label + " ")
		text.Println(" " + tag + ": " + d.Message)
		return
	}

	banner.Print(" " + d.Label + " ")
	text.Printf(" %s: %s:%d:%d: %s\n", tag, d.Span.File, d.Span.StartLine+1, d.Span.StartCol+1, d.Message)
	displaySourceExcerpt(d.Span)
}

// displaySourceExcerpt prints the source lines covered by span with
// caret-underlining, reopening the file fresh for each diagnostic.
func displaySourceExcerpt(span *Span) {
	file, err := os.Open(span.File)
	if err != nil {
		return
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if len(lines) == 0 {
		return
	}

	minIndent := math.MaxInt
	for _, line := range lines {
		indent := 0
		for _, c := range line {
			if c == ' ' {
				indent++
			} else {
				break
			}
		}
		if indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == math.MaxInt {
		minIndent = 0
	}

	numWidth := len(strconv.Itoa(span.EndLine + 1))
	numFmt := "%-" + strconv.Itoa(numWidth) + "v | "

	for i, line := range lines {
		fmt.Printf(numFmt, i+span.StartLine+1)
		if minIndent <= len(line) {
			fmt.Println(line[minIndent:])
		} else {
			fmt.Println(line)
		}

		fmt.Print(strings.Repeat(" ", numWidth), " | ")

		prefix := 0
		if i == 0 {
			prefix = span.StartCol - minIndent
			if prefix < 0 {
				prefix = 0
			}
		}

		suffix := 0
		if i == len(lines)-1 {
			suffix = len(line) - span.EndCol
			if suffix < 0 {
				suffix = 0
			}
		}

		carets := len(line) - suffix - prefix - minIndent
		if carets < 1 {
			carets = 1
		}

		fmt.Print(strings.Repeat(" ", prefix))
		fmt.Println(strings.Repeat("^", carets))
	}
	fmt.Println()
}

// displayICE prints an internal compiler error banner.
func displayICE(message string) {
	errorBanner.Print(" ICE ")
	errorText.Println(" internal compiler error: " + message)
}

// DisplayTrap prints a VM runtime trap banner: label, the function and
// instruction where it occurred, and a small call-stack snapshot, per
// spec.md §7.
func DisplayTrap(label, funcName string, pc int, stackTrace []string) {
	errorBanner.Print(" " + label + " ")
	errorText.Printf(" runtime trap in %s at pc=%d\n", funcName, pc)
	for _, frame := range stackTrace {
		fmt.Println("    at " + frame)
	}
}

// DisplaySuccess prints a success banner, used by the CLIs on a clean check/build.
func DisplaySuccess(tag, msg string) {
	infoBanner.Print(" " + tag + " ")
	infoText.Println(" " + msg)
}

// DisplayFatal prints a fatal, non-diagnostic error (bad CLI usage, I/O
// failure) and is always shown regardless of log level.
func DisplayFatal(format string, args ...interface{}) {
	errorBanner.Print(" fatal ")
	errorText.Println(" " + fmt.Sprintf(format, args...))
}
