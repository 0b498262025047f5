package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"quiz-runner/internal/domain"
)

// Source is the on-disk question source: {"questions": [...]}.
type Source struct {
	Questions []RawQuestion `json:"questions"`
}

// RawQuestion is an unvalidated question record. Pointer fields distinguish
// a missing key from a zero value.
type RawQuestion struct {
	Number  *int        `json:"question_number"`
	Text    string      `json:"question"`
	Options []RawOption `json:"options"`
	Answer  *int        `json:"answer"`
}

// RawOption is one element of a record's options list, e.g. {"Paris": 2}.
// An element may hold several label/number pairs; their key order is kept.
type RawOption []domain.Option

// UnmarshalJSON walks the object token by token so key order survives.
func (o *RawOption) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("option must be an object, got %s", data)
	}

	var opts RawOption
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := keyTok.(string)
		var number int
		if err := dec.Decode(&number); err != nil {
			return fmt.Errorf("option %q: %w", label, err)
		}
		opts = append(opts, domain.Option{Label: label, Number: number})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = opts
	return nil
}

func (o RawOption) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(opt.Number))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseSource decodes the raw records of a question source without validating them.
func ParseSource(data []byte) ([]RawQuestion, error) {
	var src struct {
		Questions *[]RawQuestion `json:"questions"`
	}
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parse question source: %w", err)
	}
	if src.Questions == nil {
		return nil, errors.New("parse question source: missing \"questions\" list")
	}
	return *src.Questions, nil
}

// Encode writes validated questions back into the source format, one option per object.
func Encode(questions []domain.Question) ([]byte, error) {
	src := Source{Questions: make([]RawQuestion, 0, len(questions))}
	for _, q := range questions {
		number, answer := q.Number, q.Answer
		opts := make([]RawOption, 0, len(q.Options))
		for _, opt := range q.Options {
			opts = append(opts, RawOption{opt})
		}
		src.Questions = append(src.Questions, RawQuestion{
			Number:  &number,
			Text:    q.Text,
			Options: opts,
			Answer:  &answer,
		})
	}
	return json.Marshal(src)
}
