package commands

import (
	"fmt"
	"os"
)

// consoleNotifier prints transient notifications to the terminal. It
// backs every service's Notifier dependency.
type consoleNotifier struct{}

func (consoleNotifier) Success(msg string) { fmt.Println("✔ " + msg) }
func (consoleNotifier) Info(msg string)    { fmt.Println("ℹ " + msg) }
func (consoleNotifier) Warning(msg string) { fmt.Println("⚠ " + msg) }
func (consoleNotifier) Error(msg string)   { fmt.Fprintln(os.Stderr, "✘ "+msg) }
