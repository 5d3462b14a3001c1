// Turning the collected tables into a structure. The scanner in
// mmcif.go only gathers strings. Everything typed happens here.

package mmcif

import (
	"strconv"
	"strings"

	"github.com/andrew-torda/structure/pdb/cmmn"
	"github.com/andrew-torda/structure/xtal"
)

// absent says if a cif value is one of the placeholders for "no
// value here".
func absent(s string) bool { return s == "." || s == "?" || s == "" }

func (rd *Reader) getFloat(s, what string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &readError{desc: "bad number \"" + s + "\" for " + what}
	}
	return x, nil
}

// assemble builds the structure once the whole file has been
// scanned.
func (rd *Reader) assemble(code string, kv map[string]string,
	tables map[string]*table) (*cmmn.Structure, error) {
	s := cmmn.Structure{Code: code}
	s.Hdr.Title = kv["_struct.title"]
	if d := kv["_pdbx_database_status.recvd_initial_deposition_date"]; !absent(d) {
		s.Hdr.DepDate = d
	}

	inf, err := rd.xtalInfo(kv, tables)
	if err != nil {
		return nil, err
	}
	s.Hdr.Xtal = inf

	if t := tables["_atom_site"]; t != nil {
		if s.Chains, err = rd.chains(t); err != nil {
			return nil, err
		}
	}

	bio, err := rd.bioAssemblies(tables)
	if err != nil {
		return nil, err
	}
	s.Hdr.BioAssemblies = bio
	return &s, nil
}

// xtalInfo builds the crystallographic header if the file has a
// cell. A known space group symbol brings its operators along, an
// unknown one falls back to P1 so callers never see a nil group.
// The NCS operators land here too.
func (rd *Reader) xtalInfo(kv map[string]string, tables map[string]*table) (*xtal.Info, error) {
	if _, ok := kv["_cell.length_a"]; !ok {
		return nil, nil // no cell, nothing crystallographic
	}
	names := []string{"_cell.length_a", "_cell.length_b", "_cell.length_c",
		"_cell.angle_alpha", "_cell.angle_beta", "_cell.angle_gamma"}
	var p [6]float64
	var err error
	for i, n := range names {
		v, ok := kv[n]
		if !ok {
			return nil, &readError{desc: "cell is missing " + n}
		}
		if p[i], err = rd.getFloat(v, n); err != nil {
			return nil, err
		}
	}
	cell, err := xtal.NewCrystalCell(p[0], p[1], p[2], p[3], p[4], p[5])
	if err != nil {
		return nil, &readError{desc: "bad cell: " + err.Error()}
	}
	inf := xtal.Info{Cell: cell}
	if sym, ok := kv["_symmetry.space_group_name_H-M"]; ok {
		if sg, known := xtal.LookupSpaceGroup(sym); known {
			inf.SG = sg
		}
	}
	if inf.SG == nil {
		inf.SG = xtal.P1() // no symbol or one we have no table for
	}
	if t := tables["_struct_ncs_oper"]; t != nil {
		ops, err := rd.ncsOpers(t)
		if err != nil {
			return nil, err
		}
		inf.NcsOperators = ops
	}
	return &inf, nil
}

// matFromRow reads matrix[i][j] and vector[i] columns into an
// affine transformation.
func (rd *Reader) matFromRow(t *table, row []string) (xtal.Matrix4, error) {
	m := xtal.Identity()
	for i := 1; i <= 3; i++ {
		for j := 1; j <= 3; j++ {
			name := "matrix[" + strconv.Itoa(i) + "][" + strconv.Itoa(j) + "]"
			c := t.col(name)
			if c == -1 {
				return m, &readError{desc: "operator table has no " + name}
			}
			x, err := rd.getFloat(row[c], name)
			if err != nil {
				return m, err
			}
			m[i-1][j-1] = x
		}
		name := "vector[" + strconv.Itoa(i) + "]"
		c := t.col(name)
		if c == -1 {
			return m, &readError{desc: "operator table has no " + name}
		}
		x, err := rd.getFloat(row[c], name)
		if err != nil {
			return m, err
		}
		m[i-1][3] = x
	}
	return m, nil
}

// ncsOpers collects the NCS operators, leaving out the ones marked
// "given". Those are already part of the deposited coordinates.
func (rd *Reader) ncsOpers(t *table) ([]xtal.Matrix4, error) {
	codeCol := t.col("code")
	var ops []xtal.Matrix4
	for _, row := range t.rows {
		if codeCol != -1 && row[codeCol] == "given" {
			continue
		}
		m, err := rd.matFromRow(t, row)
		if err != nil {
			return nil, err
		}
		ops = append(ops, m)
	}
	return ops, nil
}

// expandIDList turns "1", "1,2,3" or "1-4" into a list of operator
// ids.
func expandIDList(expr string) ([]string, error) {
	var ids []string
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if i := strings.IndexByte(part, '-'); i > 0 {
			lo, e1 := strconv.Atoi(part[:i])
			hi, e2 := strconv.Atoi(part[i+1:])
			if e1 == nil && e2 == nil && lo <= hi {
				for n := lo; n <= hi; n++ {
					ids = append(ids, strconv.Itoa(n))
				}
				continue
			}
		}
		if part != "" {
			ids = append(ids, part)
		}
	}
	if len(ids) == 0 {
		return nil, &readError{desc: "empty operator expression"}
	}
	return ids, nil
}

// expandOperExpr turns an oper_expression into groups of operator
// ids. "1", "1,2,3" and "(1-4)" are one group. Products of operator
// lists, "(X0)(1-60)" as the viral capsids use, come back as one
// group per parenthesis; the caller multiplies them out.
func expandOperExpr(expr string) ([][]string, error) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "(") {
		ids, err := expandIDList(expr)
		if err != nil {
			return nil, err
		}
		return [][]string{ids}, nil
	}
	var groups [][]string
	for expr != "" {
		if expr[0] != '(' {
			return nil, &readError{desc: "bad operator expression \"" + expr + "\""}
		}
		i := strings.IndexByte(expr, ')')
		if i < 0 {
			return nil, &readError{desc: "unbalanced operator expression \"" + expr + "\""}
		}
		ids, err := expandIDList(expr[1:i])
		if err != nil {
			return nil, err
		}
		groups = append(groups, ids)
		expr = expr[i+1:]
	}
	return groups, nil
}

// composeOpers multiplies the operator groups out into one flat
// list. One group comes back as its operators in order. For
// "(X0)(1-60)" each operator of the first group is combined with
// each of the second, left matrix times right, so the right hand
// operator acts on the coordinates first.
func composeOpers(groups [][]string, opers map[string]xtal.Matrix4) ([]xtal.Matrix4, error) {
	lookup := func(id string) (xtal.Matrix4, error) {
		m, ok := opers[id]
		if !ok {
			return m, &readError{desc: "assembly wants operator \"" + id +
				"\" which is not in the operator list"}
		}
		return m, nil
	}
	mats := make([]xtal.Matrix4, 0, len(groups[0]))
	for _, id := range groups[0] {
		m, err := lookup(id)
		if err != nil {
			return nil, err
		}
		mats = append(mats, m)
	}
	for _, grp := range groups[1:] {
		next := make([]xtal.Matrix4, 0, len(mats)*len(grp))
		for _, left := range mats {
			for _, id := range grp {
				right, err := lookup(id)
				if err != nil {
					return nil, err
				}
				next = append(next, left.Mul(&right))
			}
		}
		mats = next
	}
	return mats, nil
}

// bioAssemblies combines the assembly generator rows with the
// operator list into the per-assembly transform sequences. Row
// order in the file is the order the transforms run in.
func (rd *Reader) bioAssemblies(tables map[string]*table) (map[int]cmmn.BioAssembly, error) {
	gen := tables["_pdbx_struct_assembly_gen"]
	opl := tables["_pdbx_struct_oper_list"]
	if gen == nil || opl == nil {
		return nil, nil
	}
	idCol := opl.col("id")
	if idCol == -1 {
		return nil, &readError{desc: "operator list has no id column"}
	}
	opers := make(map[string]xtal.Matrix4, len(opl.rows))
	for _, row := range opl.rows {
		m, err := rd.matFromRow(opl, row)
		if err != nil {
			return nil, err
		}
		opers[row[idCol]] = m
	}

	asmCol := gen.col("assembly_id")
	exprCol := gen.col("oper_expression")
	chainCol := gen.col("asym_id_list")
	if asmCol == -1 || exprCol == -1 || chainCol == -1 {
		return nil, &readError{desc: "assembly generator table is incomplete"}
	}
	ret := make(map[int]cmmn.BioAssembly)
	for _, row := range gen.rows {
		nr, err := strconv.Atoi(row[asmCol])
		if err != nil || nr < 1 {
			return nil, &readError{desc: "bad assembly id \"" + row[asmCol] + "\""}
		}
		groups, err := expandOperExpr(row[exprCol])
		if err != nil {
			return nil, err
		}
		mats, err := composeOpers(groups, opers)
		if err != nil {
			return nil, err
		}
		chains := strings.Split(row[chainCol], ",")
		for i := range chains {
			chains[i] = strings.TrimSpace(chains[i])
		}
		asm := ret[nr]
		asm.ID = nr
		for _, m := range mats {
			asm.Transforms = append(asm.Transforms,
				cmmn.Transform{ChainIDs: chains, Mat: m})
		}
		ret[nr] = asm
	}
	return ret, nil
}

// one growing chain while we read atom rows
type chainBld struct {
	id    string
	res   []cmmn.ResID
	atoms []map[string]cmmn.Xyz // one map per residue
}

// chains walks the atom_site rows and groups them into chains.
// Only the first model is kept. Het atoms are atoms like any
// other.
func (rd *Reader) chains(t *table) ([]cmmn.Chain, error) {
	atCol := t.col("label_atom_id")
	chCol := t.col("auth_asym_id")
	if chCol == -1 {
		chCol = t.col("label_asym_id")
	}
	seqCol := t.col("auth_seq_id")
	if seqCol == -1 {
		seqCol = t.col("label_seq_id")
	}
	insCol := t.col("pdbx_PDB_ins_code")
	xCol, yCol, zCol := t.col("Cartn_x"), t.col("Cartn_y"), t.col("Cartn_z")
	mdlCol := t.col("pdbx_PDB_model_num")
	if atCol == -1 || chCol == -1 || seqCol == -1 ||
		xCol == -1 || yCol == -1 || zCol == -1 {
		return nil, &readError{desc: "atom_site table is missing columns"}
	}

	var blds []*chainBld
	byID := make(map[string]*chainBld)
	firstModel := ""
	for _, row := range t.rows {
		if mdlCol != -1 {
			if firstModel == "" {
				firstModel = row[mdlCol]
			} else if row[mdlCol] != firstModel {
				continue // later models are dropped
			}
		}
		chID := row[chCol]
		bld := byID[chID]
		if bld == nil {
			bld = &chainBld{id: chID}
			byID[chID] = bld
			blds = append(blds, bld)
		}
		num, err := strconv.Atoi(row[seqCol])
		if err != nil {
			if absent(row[seqCol]) {
				num = cmmn.BrokenResNum
			} else {
				return nil, &readError{desc: "bad residue number \"" + row[seqCol] + "\""}
			}
		}
		res := cmmn.ResID{Num: num}
		if insCol != -1 && !absent(row[insCol]) {
			res.Ins = row[insCol][0]
		}
		n := len(bld.res)
		if n == 0 || bld.res[n-1] != res {
			bld.res = append(bld.res, res)
			bld.atoms = append(bld.atoms, make(map[string]cmmn.Xyz))
			n++
		}
		x, e1 := rd.getFloat(row[xCol], "Cartn_x")
		y, e2 := rd.getFloat(row[yCol], "Cartn_y")
		z, e3 := rd.getFloat(row[zCol], "Cartn_z")
		if e1 != nil || e2 != nil || e3 != nil {
			return nil, &readError{desc: "bad coordinates for atom " + row[atCol]}
		}
		name := row[atCol]
		if _, dup := bld.atoms[n-1][name]; !dup { // first altloc wins
			bld.atoms[n-1][name] = cmmn.Xyz{
				X: float32(x), Y: float32(y), Z: float32(z)}
		}
	}

	chains := make([]cmmn.Chain, 0, len(blds))
	for _, bld := range blds {
		chains = append(chains, bld.done())
	}
	return chains, nil
}

// done flattens a chain builder into the parallel-slice layout.
// Atoms a residue does not have get the broken marker.
func (bld *chainBld) done() cmmn.Chain {
	ch := cmmn.Chain{ChainID: bld.id, CoordSet: make(cmmn.CoordSet)}
	names := make(map[string]bool)
	for _, m := range bld.atoms {
		for name := range m {
			names[name] = true
		}
	}
	nres := len(bld.res)
	ch.NumLbl = make([]int, nres)
	ch.InsCode = make([]byte, nres)
	for i, r := range bld.res {
		ch.NumLbl[i] = r.Num
		ch.InsCode[i] = r.Ins
	}
	for name := range names {
		sl := make(cmmn.XyzSl, nres)
		for i := range sl {
			if xyz, ok := bld.atoms[i][name]; ok {
				sl[i] = xyz
			} else {
				sl[i] = cmmn.BrokenXyz
			}
		}
		ch.CoordSet[name] = sl
	}
	return ch
}
