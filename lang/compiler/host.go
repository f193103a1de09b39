package compiler

import (
	"fmt"

	"github.com/mna/icc/lang/parser"
	"github.com/mna/icc/lang/types"
	"go.uber.org/zap"
)

// djb2 hashes a host prototype's exact declaration text. The VM resolves a
// CALL_HOST target at load time by recomputing this same hash over the
// prototype text recorded in the compiled program, matching it against the
// value stored here at compile time, and then looking the host
// implementation up by function name.
func djb2(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

// declareHostPrototypes parses and registers a library's worth of host
// function prototypes (the bundled core library, or a caller-supplied one)
// as callable functions with no compiled body. It must run before any
// source function referencing them is compiled, and before source
// declarations so a library prototype can never be shadowed silently -
// redeclaring the same name from source is a redefinition error.
func (c *compiler) declareHostPrototypes(prototypes []string) error {
	for _, proto := range prototypes {
		fd, err := parser.ParsePrototype(proto)
		if err != nil {
			return fmt.Errorf("invalid host prototype %q: %w", proto, err)
		}
		if _, ok := c.scope.funcs.Get(fd.Name.Name); ok {
			return fmt.Errorf("host prototype %q: function %q redefined", proto, fd.Name.Name)
		}

		ret, err := c.resolveType(fd.Ret)
		if err != nil {
			return fmt.Errorf("invalid host prototype %q: %w", proto, err)
		}
		params := make([]types.Type, len(fd.Params))
		paramCells := 0
		for i, p := range fd.Params {
			pt, err := c.resolveType(p.Type)
			if err != nil {
				return fmt.Errorf("invalid host prototype %q: %w", proto, err)
			}
			params[i] = pt
			paramCells += types.DataCellSize(pt)
		}
		retCells := 0
		if !ret.IsVoid() {
			retCells = types.DataCellSize(ret)
		}
		if ret.IsStruct() && retCells > 1 {
			return fmt.Errorf("invalid host prototype %q: struct return must fit in one cell, got %d", proto, retCells)
		}

		hash := djb2(proto)
		idx := len(c.prog.HostFunctions)
		c.prog.HostFunctions = append(c.prog.HostFunctions, &HostFunction{
			Name:        fd.Name.Name,
			Prototype:   proto,
			Hash:        hash,
			ParamCells:  paramCells,
			ReturnCells: retCells,
		})
		Logger().Debug("declared host prototype",
			zap.String("prototype", proto),
			zap.Uint32("hash", hash))
		c.scope.funcs.Put(fd.Name.Name, &funcSig{
			index:       idx,
			host:        true,
			params:      params,
			ret:         ret,
			paramCells:  paramCells,
			returnCells: retCells,
		})
	}
	return nil
}
