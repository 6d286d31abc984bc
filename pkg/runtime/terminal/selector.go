package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Selector asks on the terminal which reports to import.
type Selector struct {
	in  *bufio.Reader
	out io.Writer
}

func NewSelector(in *bufio.Reader, out io.Writer) *Selector {
	return &Selector{in: in, out: out}
}

// Select prompts until the answer is valid. A bare newline or yes selects
// every candidate; no, q or end of input selects none; otherwise the answer is
// a list of candidate sequence numbers.
func (s *Selector) Select(candidates []uint32) ([]uint32, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	for {
		if len(candidates) == 1 {
			_, _ = fmt.Fprintf(s.out, "Import report %d ([Y]es, [N]o)? ", candidates[0])
		} else {
			_, _ = fmt.Fprint(s.out, "Import ([Y]es = all, [N]o = none, or numbers)? ")
		}

		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if line == "" {
			_, _ = fmt.Fprintln(s.out)
			return nil, nil
		}
		if line == "\n" || line == "\r\n" {
			return slices.Clone(candidates), nil
		}

		answer := strings.ToLower(strings.TrimSpace(line))
		switch answer {
		case "":
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			continue
		case "y", "yes", "j", "ja":
			return slices.Clone(candidates), nil
		case "n", "no", "nej", "q":
			return nil, nil
		}

		if selected, ok := s.parse(answer, candidates); ok {
			return selected, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
	}
}

func (s *Selector) parse(answer string, candidates []uint32) ([]uint32, bool) {
	var selected []uint32
	for _, part := range strings.Fields(answer) {
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil || !slices.Contains(candidates, uint32(n)) {
			_, _ = fmt.Fprintf(s.out, "Invalid choice: %s\n", part)
			return nil, false
		}
		if !slices.Contains(selected, uint32(n)) {
			selected = append(selected, uint32(n))
		}
	}
	return selected, len(selected) > 0
}
