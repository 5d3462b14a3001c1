// Package mmcif reads the part of an mmcif file that the resolver
// needs. Coordinates of the first model, the cell and space group,
// the biological assembly recipe and any NCS operators. It is a
// line scanner, not a grammar for the whole dictionary. Categories
// we do not know are skipped without comment.

package mmcif

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/andrew-torda/structure/pdb/cmmn"
)

// A Reader scans one file. Make one with NewReader, call DoFile
// once.
type Reader struct {
	scnnr *bufio.Scanner
	n     int    // number of the line in "line"
	line  string // current line
	eof   bool
}

func NewReader(r io.Reader) *Reader {
	scnnr := bufio.NewScanner(bufio.NewReader(r))
	scnnr.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{scnnr: scnnr}
}

// next moves to the next line. It returns false at end of file.
func (rd *Reader) next() bool {
	if rd.eof {
		return false
	}
	if !rd.scnnr.Scan() {
		rd.eof = true
		rd.line = ""
		return false
	}
	rd.n++
	rd.line = rd.scnnr.Text()
	return true
}

// broke makes an error that remembers where we were.
func (rd *Reader) broke(desc string) error {
	return &readError{n: rd.n, inline: rd.line, desc: desc}
}

// wanted are the loop categories we collect rows for. Everything
// else is skipped.
var wanted = map[string]bool{
	"_atom_site":                true,
	"_pdbx_struct_assembly_gen": true,
	"_pdbx_struct_oper_list":    true,
	"_struct_ncs_oper":          true,
}

// items are the single key-value tags we keep.
var items = map[string]bool{
	"_cell.length_a":                 true,
	"_cell.length_b":                 true,
	"_cell.length_c":                 true,
	"_cell.angle_alpha":              true,
	"_cell.angle_beta":               true,
	"_cell.angle_gamma":              true,
	"_symmetry.space_group_name_H-M": true,
	"_struct.title":                  true,

	"_pdbx_database_status.recvd_initial_deposition_date": true,
}

// a table is one loop's worth of data for a category we wanted.
type table struct {
	cols []string // tag names without the category prefix
	rows [][]string
}

// col finds a column index, -1 if the file did not have it.
func (t *table) col(name string) int {
	for i, c := range t.cols {
		if c == name {
			return i
		}
	}
	return -1
}

// category splits "_atom_site.id" into "_atom_site" and "id".
func category(tag string) (string, string) {
	if i := strings.IndexByte(tag, '.'); i != -1 {
		return tag[:i], tag[i+1:]
	}
	return tag, ""
}

// DoFile reads the whole file and builds a structure from what it
// found. Errors carry the line number that upset us.
func (rd *Reader) DoFile() (*cmmn.Structure, error) {
	var code string
	kv := make(map[string]string)
	tables := make(map[string]*table)

	rd.next()
	for !rd.eof {
		s := strings.TrimSpace(rd.line)
		switch {
		case s == "" || s[0] == '#':
			rd.next()
		case strings.HasPrefix(s, "data_"):
			code = strings.ToLower(s[len("data_"):])
			rd.next()
		case s == "loop_":
			if err := rd.doLoop(tables); err != nil {
				return nil, err
			}
		case s[0] == '_':
			if err := rd.doItem(s, kv, tables); err != nil {
				return nil, err
			}
		default:
			rd.next() // something we do not care about
		}
	}
	if err := rd.scnnr.Err(); err != nil {
		return nil, err
	}
	return rd.assemble(code, kv, tables)
}

// doItem handles one key-value pair outside a loop. The value can
// sit on the same line, the next line, or in a ;-block. Tags from
// the wanted loop categories sometimes appear this way too, when
// there is only one row; those become one-row tables.
func (rd *Reader) doItem(s string, kv map[string]string, tables map[string]*table) error {
	fields := splitQuoted(s)
	tag := fields[0]
	var val string
	switch {
	case len(fields) > 1:
		val = fields[1]
	default:
		if !rd.next() {
			return rd.broke("end of file looking for the value of " + tag)
		}
		v := strings.TrimSpace(rd.line)
		if strings.HasPrefix(rd.line, ";") {
			blk, err := rd.semiBlock()
			if err != nil {
				return err
			}
			val = blk
		} else {
			// another tag here means the value never appeared.
			// Swallowing the tag as the value would lose it.
			if v == "" || v[0] == '_' || v == "loop_" ||
				strings.HasPrefix(v, "data_") {
				return rd.broke("no value for " + tag)
			}
			f2 := splitQuoted(v)
			if len(f2) == 0 {
				return rd.broke("no value for " + tag)
			}
			val = f2[0]
		}
	}
	cat, col := category(tag)
	if wanted[cat] {
		t := tables[cat]
		if t == nil {
			t = &table{}
			tables[cat] = t
		}
		if len(t.rows) == 0 {
			t.rows = [][]string{nil}
		}
		t.cols = append(t.cols, col)
		t.rows[0] = append(t.rows[0], val)
	} else if items[tag] {
		kv[tag] = val
	}
	rd.next()
	return nil
}

// semiBlock eats a ;-delimited text block, current line included,
// and returns the contents with newlines squashed to spaces.
func (rd *Reader) semiBlock() (string, error) {
	var parts []string
	parts = append(parts, strings.TrimSpace(rd.line[1:]))
	for rd.next() {
		if strings.HasPrefix(rd.line, ";") {
			return strings.TrimSpace(strings.Join(parts, " ")), nil
		}
		parts = append(parts, strings.TrimSpace(rd.line))
	}
	return "", rd.broke("end of file inside a ; block")
}

// doLoop reads one loop_, header tags then data rows. Rows of
// categories nobody asked for are thrown away as they go by.
func (rd *Reader) doLoop(tables map[string]*table) error {
	var cat string
	var cols []string
	for rd.next() {
		s := strings.TrimSpace(rd.line)
		if s == "" || s[0] != '_' {
			break
		}
		c, col := category(s)
		if cat == "" {
			cat = c
		} else if c != cat {
			return rd.broke("loop mixes categories " + cat + " and " + c)
		}
		cols = append(cols, col)
	}
	if cat == "" {
		return rd.broke("loop_ with no tags")
	}
	keep := wanted[cat]
	var t *table
	if keep {
		t = &table{cols: cols}
		tables[cat] = t
	}
	for !rd.eof {
		s := strings.TrimSpace(rd.line)
		if s == "" || s == "loop_" || s[0] == '_' || s[0] == '#' ||
			strings.HasPrefix(s, "data_") {
			break
		}
		if keep {
			var row []string
			if s[0] == ';' {
				blk, err := rd.semiBlock()
				if err != nil {
					return err
				}
				row = append(row, blk)
				if !rd.next() {
					break
				}
				s = strings.TrimSpace(rd.line)
				row = append(row, splitQuoted(s)...)
			} else {
				row = splitQuoted(s)
			}
			for len(row) < len(cols) { // values continued on next line
				if !rd.next() {
					return rd.broke("row of " + cat + " ends early")
				}
				s = strings.TrimSpace(rd.line)
				if strings.HasPrefix(rd.line, ";") {
					blk, err := rd.semiBlock()
					if err != nil {
						return err
					}
					row = append(row, blk)
				} else {
					row = append(row, splitQuoted(s)...)
				}
			}
			if len(row) != len(cols) {
				return rd.broke("row of " + cat + " has " +
					strconv.Itoa(len(row)) + " values, want " +
					strconv.Itoa(len(cols)))
			}
			t.rows = append(t.rows, row)
		}
		if !rd.next() {
			break
		}
	}
	return nil
}
