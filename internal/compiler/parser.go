package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/concerto/pkg/domain"
)

// MaxNesting bounds how many arrays and objects may be open at once while
// parsing. Deeper documents fail with domain.NestingTooDeep before any
// validation runs.
const MaxNesting = 10000

var errTooDeep = errors.New("too deep")

// Parser converts raw instance text into an ordered domain.Value.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a single JSON document. Syntax errors, empty input and
// trailing content are reported as domain.InputMalformed with the byte offset.
func (p *Parser) Parse(data []byte) (domain.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readValue(dec, 0)
	if err != nil {
		return domain.Value{}, malformed(dec, err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return domain.Value{}, malformed(dec, err)
		}
		return domain.Value{}, domain.NewInputMalformed(fmt.Errorf("unexpected trailing data %v", tok), dec.InputOffset())
	}
	return v, nil
}

func malformed(dec *json.Decoder, err error) error {
	if errors.Is(err, errTooDeep) {
		return domain.NewNestingTooDeep(domain.Root, MaxNesting)
	}
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return domain.NewInputMalformed(err, syn.Offset)
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return domain.NewInputMalformed(err, dec.InputOffset())
}

func readValue(dec *json.Decoder, depth int) (domain.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return domain.Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		if depth >= MaxNesting {
			return domain.Value{}, errTooDeep
		}
		switch t {
		case '{':
			return readObject(dec, depth+1)
		case '[':
			return readArray(dec, depth+1)
		}
		return domain.Value{}, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return domain.String(t), nil
	case json.Number:
		return domain.Number(t.String()), nil
	case bool:
		return domain.Bool(t), nil
	case nil:
		return domain.Null(), nil
	}
	return domain.Value{}, fmt.Errorf("unexpected token %v", tok)
}

func readObject(dec *json.Decoder, depth int) (domain.Value, error) {
	var members []domain.Member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return domain.Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return domain.Value{}, fmt.Errorf("object key must be a string, got %v", tok)
		}
		v, err := readValue(dec, depth)
		if err != nil {
			return domain.Value{}, err
		}
		members = append(members, domain.M(key, v))
	}
	if _, err := dec.Token(); err != nil {
		return domain.Value{}, err
	}
	return domain.Object(members...), nil
}

func readArray(dec *json.Decoder, depth int) (domain.Value, error) {
	elems := []domain.Value{}
	for dec.More() {
		v, err := readValue(dec, depth)
		if err != nil {
			return domain.Value{}, err
		}
		elems = append(elems, v)
	}
	if _, err := dec.Token(); err != nil {
		return domain.Value{}, err
	}
	return domain.Array(elems...), nil
}
