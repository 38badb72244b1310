package variant

import (
	"bufio"
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// Selector restricts a Reader to a subset of sites.
type Selector interface {
	Contains(chrom string, pos int) bool
}

// Reader makes a single forward pass over a VCF. The header is parsed by
// NewReader; records are then pulled one at a time with Next:
//
//	for vr.Next() {
//		rec := vr.Record()
//	}
//	if err := vr.Error(); err != nil {
//
// Reading stops at the first error.
type Reader struct {
	Header Header

	reader *bufio.Reader
	sel    Selector
	line   int
	curr   Record
	err    error
}

// NewReader reads the header of the VCF in r. When sel is nil every record
// is returned. A FormatError is returned if the #CHROM line is absent.
func NewReader(r io.Reader, sel Selector) (*Reader, error) {
	vr := &Reader{
		reader: bufio.NewReader(r),
		sel:    sel,
	}
	vr.Header.Format = make(map[string]FieldDef)

	for {
		line, done, err := vr.nextLine()
		if err != nil {
			return nil, err
		}
		if done {
			return nil, &FormatError{Line: vr.line, Msg: "no #CHROM header line found"}
		}

		switch {
		case strings.HasPrefix(line, "##"):
			vr.Header.parseMeta(line)
		case strings.HasPrefix(line, "#CHROM"):
			vr.Header.Columns = strings.Split(line, "\t")
			if len(vr.Header.Columns) < numFixed-1 {
				return nil, &FormatError{Line: vr.line, Msg: "#CHROM line has fewer than 8 columns"}
			}
			if len(vr.Header.Columns) > numFixed {
				vr.Header.Samples = vr.Header.Columns[numFixed:]
			}
			return vr, nil
		default:
			return nil, &FormatError{Line: vr.line, Msg: "data line found before #CHROM header line"}
		}
	}
}

// nextLine returns the next non-empty line without its line terminator.
func (vr *Reader) nextLine() (string, bool, error) {
	for {
		line, err := vr.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", false, pfx.Err(err)
		}
		if line == "" && err == io.EOF {
			return "", true, nil
		}
		vr.line++
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		return line, false, nil
	}
}

// Next advances to the next selected record. It returns false at the end of
// input or on error; check Error afterwards.
func (vr *Reader) Next() bool {
	if vr.err != nil {
		return false
	}

	for {
		line, done, err := vr.nextLine()
		if err != nil {
			vr.err = err
			return false
		}
		if done {
			return false
		}
		if line[0] == '#' {
			vr.err = &FormatError{Line: vr.line, Msg: "header line found after #CHROM line"}
			return false
		}

		rec, err := parseRecord(line, vr.line, len(vr.Header.Samples))
		if err != nil {
			vr.err = err
			return false
		}
		if vr.sel != nil && !vr.sel.Contains(rec.Chrom, rec.Pos) {
			continue
		}
		if err = checkSubfields(rec, vr.Header.Samples); err != nil {
			vr.err = err
			return false
		}

		vr.curr = rec
		return true
	}
}

// Record returns the record read by the last call to Next.
func (vr *Reader) Record() Record {
	return vr.curr
}

// Error returns the first error encountered by Next.
func (vr *Reader) Error() error {
	return vr.err
}

// Line returns the number of lines consumed so far.
func (vr *Reader) Line() int {
	return vr.line
}
