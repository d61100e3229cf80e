package debug

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	traceLabel = color.New(color.FgCyan, color.Bold)
	traceSQL   = color.New(color.FgCyan)
)

// Query prints an executed statement to os.Stderr when debug logging is
// enabled. The statement is highlighted on terminals; the color package
// honors NO_COLOR and disables highlighting on non-terminal outputs.
func Query(sql string, args []interface{}) {
	if !Enabled() {
		return
	}
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "%s %s\n", traceLabel.Sprint("modelgo:query"), traceSQL.Sprint(sql))
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s %v\n", traceLabel.Sprint("modelgo:query"), traceSQL.Sprint(sql), args)
}
