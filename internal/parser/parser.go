package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/poxo/internal/errors" // Custom errors package
	"github.com/mcncl/poxo/internal/models"
)

// frame is an object or array still being filled in.
type frame struct {
	object    models.Object
	index     map[string]int
	array     models.Array
	isObject  bool
	key       string
	expectKey bool
}

func (f *frame) value() models.JSONValue {
	if f.isObject {
		if f.object == nil {
			return models.Object{}
		}
		return f.object
	}
	if f.array == nil {
		return models.Array{}
	}
	return f.array
}

// Parse reads a single JSON document from reader. Object members keep their
// document order; a duplicated key holds the last value at the first key's
// position. Nesting is tracked on an explicit stack, so deeply nested
// input does not grow the goroutine stack.
func Parse(reader io.Reader) (models.Document, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Keep number literals so integers and floats can be told apart

	var (
		stack []*frame
		root  models.JSONValue
		done  bool
		seen  bool
	)

	attach := func(v models.JSONValue) {
		if len(stack) == 0 {
			root = v
			done = true
			return
		}
		top := stack[len(stack)-1]
		if top.isObject {
			// A repeated key keeps its first position and takes the last value.
			if i, ok := top.index[top.key]; ok {
				top.object[i].Value = v
			} else {
				top.index[top.key] = len(top.object)
				top.object = append(top.object, models.Member{Key: top.key, Value: v})
			}
			top.expectKey = true
			return
		}
		top.array = append(top.array, v)
	}

	for !done {
		tok, err := decoder.Token()
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				if !seen {
					return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
				}
				return models.Document{}, errors.NewParsingError("unexpected EOF before the JSON value was complete", errors.ErrInvalidJSON)
			}
			return models.Document{}, decodeError(err)
		}
		seen = true

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, &frame{isObject: true, expectKey: true, index: make(map[string]int)})
			case '[':
				stack = append(stack, &frame{})
			case '}', ']':
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				attach(top.value())
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].isObject && stack[n-1].expectKey {
				stack[n-1].key = t
				stack[n-1].expectKey = false
				continue
			}
			attach(models.String(t))
		case json.Number:
			num, err := models.ParseNumber(string(t))
			if err != nil {
				return models.Document{}, errors.NewParsingError(fmt.Sprintf("invalid number %q", string(t)), errors.ErrInvalidJSON)
			}
			attach(num)
		case bool:
			attach(models.Bool(t))
		case nil:
			attach(models.Null{})
		default:
			return models.Document{}, errors.NewParsingError(fmt.Sprintf("unexpected token %v", t), errors.ErrInvalidJSON)
		}
	}

	// Only whitespace may follow the document.
	if _, err := decoder.Token(); err == nil {
		return models.Document{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.Document{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
	}

	_, isArray := root.(models.Array)
	return models.Document{Root: root, RootIsArray: isArray}, nil
}

func decodeError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected EOF before the JSON value was complete", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Document{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Document, error) {
	text, err := ReadFile(filePath)
	if err != nil {
		return models.Document{}, err
	}
	return Parse(strings.NewReader(text))
}

// ReadFile returns the contents of a JSON input file. Missing and empty
// files are reported as input errors.
func ReadFile(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return "", errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return "", errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return string(data), nil
}
