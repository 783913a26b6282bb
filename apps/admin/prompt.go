package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/computersciencehouse/packet/core/packet"
)

var errAborted = errors.New("input aborted")

type prompter struct {
	in   *bufio.Reader
	out  io.Writer
	echo bool // print answers, for non interactive input
}

func newPrompter(in io.Reader, out io.Writer, echo bool) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out, echo: echo}
}

func (p *prompter) line(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)
	s, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && s != "") {
		_, _ = fmt.Fprintln(p.out)
		if err == io.EOF {
			return "", errAborted
		}
		return "", errors.Wrap(err, "reading input")
	}
	s = strings.TrimSpace(s)
	if p.echo {
		_, _ = fmt.Fprintln(p.out, s)
	}
	return s, nil
}

// confirm returns true only if the answer is y or Y.
func (p *prompter) confirm(prompt string) (bool, error) {
	s, err := p.line(prompt + " (y/N): ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(s, "y"), nil
}

// date prompts until a valid MM/DD/YYYY date is entered.
func (p *prompter) date(prompt string, season packet.SeasonConfig) (time.Time, error) {
	for {
		s, err := p.line(prompt + " (format: MM/DD/YYYY): ")
		if err != nil {
			return time.Time{}, err
		}
		if day, err := season.ParseDate(s); err == nil {
			return day, nil
		}
	}
}
