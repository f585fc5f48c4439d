package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Nomadcxx/tvrename/internal/app"
)

// stdinPrompter asks y/n/q on the terminal. Enter defaults to yes.
type stdinPrompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

func (p *stdinPrompter) ask(question string) app.Decision {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.in)
	}

	for {
		fmt.Fprintf(p.out, "%s ([y]/n/q): ", question)
		line, err := p.reader.ReadString('\n')
		if err != nil {
			return app.DecisionQuit
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "", "y", "yes":
			return app.DecisionYes
		case "n", "no":
			return app.DecisionNo
		case "q", "quit":
			return app.DecisionQuit
		}
		fmt.Fprintln(p.out, "please answer y, n, or q")
	}
}

func (p *stdinPrompter) DecideRename(path, newName string) app.Decision {
	return p.ask(fmt.Sprintf("rename %s\n    -> %s?", path, newName))
}

func (p *stdinPrompter) DecideMove(path, destDir string) app.Decision {
	return p.ask(fmt.Sprintf("move %s\n    -> %s/?", path, destDir))
}
