package server

import (
	"fmt"
	"strconv"
)

// parseTuples reads a JSON array of fixed-size numeric arrays, e.g.
// [[1,2],[3,4]], calling fn for each tuple. The slice passed to fn is
// reused between calls.
func parseTuples(data []byte, arity int, fn func(vals []float64)) error {
	p := tupleParser{data: data}
	vals := make([]float64, arity)

	p.skipSpace()
	if !p.consume('[') {
		return fmt.Errorf("invalid format: expected '['")
	}

	p.skipSpace()
	if p.consume(']') {
		return nil
	}

	for {
		p.skipSpace()
		if !p.consume('[') {
			return fmt.Errorf("invalid format: expected '[' at %d", p.pos)
		}

		for j := range arity {
			if j > 0 {
				p.skipSpace()
				if !p.consume(',') {
					return fmt.Errorf("invalid format: expected %d numbers at %d", arity, p.pos)
				}
			}
			p.skipSpace()
			num, err := p.number()
			if err != nil {
				return err
			}
			vals[j] = num
		}

		p.skipSpace()
		if !p.consume(']') {
			return fmt.Errorf("invalid format: expected ']' at %d", p.pos)
		}
		fn(vals)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			break
		}
		return fmt.Errorf("invalid format: expected ',' or ']' at %d", p.pos)
	}

	p.skipSpace()
	if p.pos != len(p.data) {
		return fmt.Errorf("invalid format: trailing data at %d", p.pos)
	}
	return nil
}

type tupleParser struct {
	data []byte
	pos  int
}

func (p *tupleParser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\n', '\t', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *tupleParser) consume(c byte) bool {
	if p.pos < len(p.data) && p.data[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *tupleParser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, fmt.Errorf("invalid format: expected number at %d", start)
	}

	num, err := strconv.ParseFloat(string(p.data[start:p.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}
	return num, nil
}
