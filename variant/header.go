package variant

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FieldType is the value type declared for a FORMAT field in the VCF header.
type FieldType int

const (
	String FieldType = iota
	Integer
	Float
	Character
	Flag
)

func parseFieldType(s string) FieldType {
	switch s {
	case "Integer":
		return Integer
	case "Float":
		return Float
	case "Character":
		return Character
	case "Flag":
		return Flag
	default:
		return String
	}
}

func (t FieldType) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Character:
		return "Character"
	case Flag:
		return "Flag"
	default:
		return "String"
	}
}

// FieldDef is one ##FORMAT declaration.
type FieldDef struct {
	ID          string
	Number      string
	Type        FieldType
	Description string
}

// Header holds the meta-information lines and the sample list of a VCF.
// Samples is fixed by the #CHROM line and is passed explicitly to every
// consumer of records from the same file.
type Header struct {
	Meta    []string            // ## lines, verbatim
	Format  map[string]FieldDef // keyed on FieldDef.ID
	Columns []string            // #CHROM line split on tabs
	Samples []string
}

// Text returns the header lines as they appeared in the input, #CHROM line last.
func (h Header) Text() []string {
	ans := make([]string, 0, len(h.Meta)+1)
	ans = append(ans, h.Meta...)
	ans = append(ans, strings.Join(h.Columns, "\t"))
	return ans
}

// FormatIDs returns the IDs of every declared FORMAT field in sorted order.
func (h Header) FormatIDs() []string {
	ans := maps.Keys(h.Format)
	slices.Sort(ans)
	return ans
}

// parseMeta records a ## line, decoding it when it declares a FORMAT field.
func (h *Header) parseMeta(line string) {
	h.Meta = append(h.Meta, line)
	if !strings.HasPrefix(line, "##FORMAT=<") || !strings.HasSuffix(line, ">") {
		return
	}

	kv := parseStructured(line[len("##FORMAT=<") : len(line)-1])
	if kv["ID"] == "" {
		return
	}
	h.Format[kv["ID"]] = FieldDef{
		ID:          kv["ID"],
		Number:      kv["Number"],
		Type:        parseFieldType(kv["Type"]),
		Description: kv["Description"],
	}
}

// parseStructured splits the body of a structured meta line
// (ID=GT,Number=1,Description="a, b") into its key/value pairs.
// Quoted values may contain commas and escaped quotes.
func parseStructured(s string) map[string]string {
	ans := make(map[string]string)
	var key string
	var inQuote, inValue bool
	curr := new(strings.Builder)

	flush := func() {
		if inValue {
			ans[key] = curr.String()
		} else if curr.Len() > 0 {
			ans[curr.String()] = ""
		}
		curr.Reset()
		inValue = false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\\' && i+1 < len(s):
			i++
			curr.WriteByte(s[i])
		case c == '"':
			inQuote = !inQuote
		case inQuote:
			curr.WriteByte(c)
		case c == '=' && !inValue:
			key = curr.String()
			curr.Reset()
			inValue = true
		case c == ',':
			flush()
		default:
			curr.WriteByte(c)
		}
	}
	flush()
	return ans
}
