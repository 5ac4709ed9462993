package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Letter identifies one option of a question, e.g. "A".
type Letter string

// Option is a single answer choice.
type Option struct {
	Letter Letter `json:"letter" validate:"required,max=1"`
	Text   string `json:"text" validate:"required"`
}

// Options is the ordered set of answer choices for a question. It decodes
// from a JSON object and keeps the key order of the document, which is the
// display order.
type Options []Option

// UnmarshalJSON decodes {"A": "...", "B": "..."} preserving key order.
func (o *Options) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("options must be an object of letter to text")
	}

	var opts Options
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected option key %v", tok)
		}
		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("option %q: %w", key, err)
		}
		opts = append(opts, Option{Letter: Letter(key), Text: text})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = opts
	return nil
}

// MarshalJSON encodes the options as an object in display order.
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(opt.Letter))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(opt.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Question is an immutable multiple-choice question.
type Question struct {
	// ID is unique across every loaded bank. Files may omit it, in which case
	// the loader assigns "<bank>-<n>".
	ID string `json:"id,omitempty"`

	// Text is the prompt shown to the taker.
	Text string `json:"question" validate:"required"`

	// Options in display order.
	Options Options `json:"options" validate:"min=1,dive"`

	// Correct holds every letter that scores. It is a set; order carries no meaning.
	Correct []Letter `json:"correct" validate:"min=1,dive,required"`

	// Explanation is optional reference text shown during review.
	Explanation string `json:"explanation,omitempty"`
}

// HasOption reports whether l is one of the question's option letters.
func (q Question) HasOption(l Letter) bool {
	_, ok := q.OptionText(l)
	return ok
}

// OptionText returns the text for option l.
func (q Question) OptionText(l Letter) (string, bool) {
	for _, o := range q.Options {
		if o.Letter == l {
			return o.Text, true
		}
	}
	return "", false
}

// IsCorrect reports whether l is a member of the correct set.
func (q Question) IsCorrect(l Letter) bool {
	return slices.Contains(q.Correct, l)
}

// Letters returns the option letters in display order.
func (q Question) Letters() []Letter {
	out := make([]Letter, len(q.Options))
	for i, o := range q.Options {
		out[i] = o.Letter
	}
	return out
}

// checkStructure enforces the invariants the struct tags cannot express.
func (q Question) checkStructure() error {
	seen := make(map[Letter]bool, len(q.Options))
	for _, o := range q.Options {
		if seen[o.Letter] {
			return fmt.Errorf("duplicate option %q", o.Letter)
		}
		seen[o.Letter] = true
	}
	for _, c := range q.Correct {
		if !seen[c] {
			return fmt.Errorf("correct answer %q is not an option", c)
		}
	}
	return nil
}
