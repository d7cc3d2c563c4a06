package downloading

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadInputs reads one query or URL per line. Blank lines and lines starting
// with # are skipped.
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}
	return inputs, nil
}

// NormalizeInputs trims args and drops the empty ones.
func NormalizeInputs(args []string) []string {
	inputs := make([]string, 0, len(args))
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			inputs = append(inputs, a)
		}
	}
	return inputs
}
