package loader

import (
	"bytes"
	"strings"

	"github.com/erraggy/apiflow/rawdoc"
)

// Input is what a Signal inspects: the decoded document and, when scoring
// text, the text itself. Doc is empty when the text is not JSON or YAML, and
// Content is nil when scoring an already decoded document.
type Input struct {
	Doc     rawdoc.Object
	Content []byte
}

// Signal is one piece of evidence that a document belongs to a format.
type Signal struct {
	Name   string
	Weight float64
	Match  func(Input) bool
}

// Detector scores documents for a format.
//
// The gate is required: when it does not match, the score is 0 whatever the
// other signals say. Otherwise the score is the sum of the weights of the
// gate and every matching signal, capped at 1.
type Detector struct {
	Gate    Signal
	Signals []Signal
}

// Score decodes content and scores it. Undecodable content is scored with an
// empty document, so signals on the raw text still apply.
func (d Detector) Score(content []byte) float64 {
	doc, _ := rawdoc.DecodeObject(content)
	return d.score(Input{Doc: doc, Content: content})
}

// ScoreRaw scores an already decoded document.
func (d Detector) ScoreRaw(raw any) float64 {
	doc, ok := rawdoc.AsObject(raw)
	if !ok {
		return 0
	}
	return d.score(Input{Doc: doc})
}

func (d Detector) score(in Input) float64 {
	if d.Gate.Match == nil || !d.Gate.Match(in) {
		return 0
	}
	score := d.Gate.Weight
	for _, s := range d.Signals {
		if s.Match != nil && s.Match(in) {
			score += s.Weight
		}
	}
	return min(score, 1)
}

// HasKey matches documents holding a value along path.
func HasKey(weight float64, path ...string) Signal {
	return Signal{
		Name:   strings.Join(path, "."),
		Weight: weight,
		Match: func(in Input) bool {
			v, ok := rawdoc.Get(in.Doc, path...)
			return ok && v != nil
		},
	}
}

// Equals matches documents whose value along path renders as want.
func Equals(weight float64, want string, path ...string) Signal {
	return Signal{
		Name:   strings.Join(path, ".") + "==" + want,
		Weight: weight,
		Match: func(in Input) bool {
			v, ok := rawdoc.Get(in.Doc, path...)
			return ok && rawdoc.Scalar(v) == want
		},
	}
}

// StringPrefix matches documents whose string value along path starts with
// prefix.
func StringPrefix(weight float64, prefix string, path ...string) Signal {
	return Signal{
		Name:   strings.Join(path, ".") + "^=" + prefix,
		Weight: weight,
		Match: func(in Input) bool {
			v, ok := rawdoc.Get(in.Doc, path...)
			if !ok {
				return false
			}
			s, isString := v.(string)
			return isString && strings.HasPrefix(s, prefix)
		},
	}
}

// FirstLine matches text whose first non-blank line satisfies fn.
func FirstLine(name string, weight float64, fn func(line string) bool) Signal {
	return Signal{
		Name:   name,
		Weight: weight,
		Match: func(in Input) bool {
			line := firstLine(in.Content)
			return line != "" && fn(line)
		},
	}
}

func firstLine(content []byte) string {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	for len(content) > 0 {
		var line []byte
		line, content, _ = bytes.Cut(content, []byte("\n"))
		if trimmed := strings.TrimSpace(string(line)); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
