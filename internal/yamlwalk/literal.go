package yamlwalk

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/agentic-research/schemawalk/internal/jsonc"
	"gopkg.in/yaml.v3"
)

// literal decodes a scalar node into string, json.Number, float64 (for
// infinities and NaN), bool or nil. Aliases decode to their source text.
func literal(n *Node) (any, bool) {
	text := n.Text()
	switch n.kind {
	case kindString, kindAlias:
		return text, true
	case kindNull:
		return nil, true
	case kindBoolean:
		return strings.EqualFold(text, "true"), true
	case kindInteger:
		return integer(text)
	case kindFloat:
		return float(text)
	case kindDoubleQuote, kindSingleQuote:
		return quoted(text)
	case kindBlockScalar:
		return blockScalar(text), true
	default:
		return nil, false
	}
}

func integer(text string) (any, bool) {
	if v, ok := jsonc.Number(text); ok {
		return v, true
	}
	// YAML 1.2 octal is 0o17; strconv reads the same prefix.
	i, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64)
	if err != nil {
		return nil, false
	}
	return json.Number(strconv.FormatInt(i, 10)), true
}

func float(text string) (any, bool) {
	switch strings.ToLower(strings.TrimLeft(text, "+")) {
	case ".inf":
		return math.Inf(1), true
	case "-.inf":
		return math.Inf(-1), true
	case ".nan":
		return math.NaN(), true
	}
	if v, ok := jsonc.Number(text); ok {
		return v, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), true
}

// quoted decodes a flow scalar in either quoting style, escapes and line
// folding included. An unterminated scalar keeps its text after the quote.
func quoted(text string) (any, bool) {
	var s string
	if err := yaml.Unmarshal([]byte(text), &s); err != nil {
		return strings.TrimLeft(text, `"'`), false
	}
	return s, true
}

// blockScalar decodes a literal (|) or folded (>) block scalar, honoring
// the strip (-) and keep (+) chomping indicators.
func blockScalar(text string) string {
	header, body, _ := strings.Cut(text, "\n")
	folded := strings.HasPrefix(header, ">")
	chomp := byte(0)
	switch {
	case strings.Contains(header, "-"):
		chomp = '-'
	case strings.Contains(header, "+"):
		chomp = '+'
	}

	lines := strings.Split(body, "\n")
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if n := len(l) - len(strings.TrimLeft(l, " ")); indent < 0 || n < indent {
			indent = n
		}
	}
	for i, l := range lines {
		if indent >= 0 && len(l) >= indent {
			lines[i] = l[indent:]
		} else {
			lines[i] = ""
		}
	}

	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	trailing := len(lines) - end
	lines = lines[:end]

	var s string
	if folded {
		s = fold(lines)
	} else {
		s = strings.Join(lines, "\n")
	}
	switch {
	case len(lines) == 0:
		return ""
	case chomp == '-':
		return s
	case chomp == '+':
		return s + strings.Repeat("\n", max(trailing, 1))
	default:
		return s + "\n"
	}
}

// fold joins lines with spaces. Empty lines and more-indented lines keep
// their line breaks.
func fold(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			prev := lines[i-1]
			switch {
			case l == "":
				b.WriteByte('\n')
			case prev == "":
			case strings.HasPrefix(l, " ") || strings.HasPrefix(prev, " "):
				b.WriteByte('\n')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteString(l)
	}
	return b.String()
}
