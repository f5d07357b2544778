package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mvilhena/depsense/pkg/editor"
)

// toastPrinter renders engine notifications as styled terminal lines. It
// stands in for the editor's toast surface.
type toastPrinter struct{}

func (toastPrinter) Notify(message string) {
	printInfo("%s", message)
}

var _ editor.Notifier = toastPrinter{}

// promptConfirmer asks yes/no questions on the controlling terminal. An
// unreadable stdin counts as a decline.
type promptConfirmer struct{}

func (promptConfirmer) Confirm(ctx context.Context, title, message string) (bool, error) {
	fmt.Println(StyleTitle.Render(title))
	fmt.Print(message + " [y/N] ")

	answer := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		line = strings.ToLower(strings.TrimSpace(line))
		return line == "y" || line == "yes", nil
	}
}

var _ editor.Confirmer = promptConfirmer{}
