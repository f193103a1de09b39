package machine

import (
	"fmt"

	"github.com/mna/icc/lang/compiler"
	"go.uber.org/zap"
)

// djb2 is the string hash used to resolve a host prototype at load time:
// h = 5381; h = h*33 + c for each byte c of the prototype's exact
// declaration text (e.g. "void exit()").
func djb2(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 + uint32(s[i])
	}
	return h
}

// bindHostFunctions resolves each host prototype declared by the program
// against the Go implementations supplied by hosts, keyed by the
// prototype's function identifier. It recomputes each prototype string's
// djb2 hash and rejects a mismatch against the hash recorded at compile
// time (the two sides must agree on the exact prototype text), a hash
// collision between two distinct prototypes, and an unresolved prototype
// (the host doesn't provide an implementation for it).
func bindHostFunctions(p *compiler.Program, hosts map[string]HostFunc) ([]HostFunc, error) {
	seen := make(map[uint32]string, len(p.HostFunctions))
	bound := make([]HostFunc, len(p.HostFunctions))
	for i, hf := range p.HostFunctions {
		h := djb2(hf.Prototype)
		if h != hf.Hash {
			return nil, fmt.Errorf("machine: host prototype %q hash mismatch at load time", hf.Prototype)
		}
		if other, ok := seen[h]; ok && other != hf.Prototype {
			return nil, fmt.Errorf("machine: host prototype hash collision between %q and %q", other, hf.Prototype)
		}
		seen[h] = hf.Prototype

		fn, ok := hosts[hf.Name]
		if !ok {
			return nil, fmt.Errorf("machine: no host implementation bound for %q", hf.Prototype)
		}
		bound[i] = fn
		Logger().Debug("resolved host function",
			zap.String("prototype", hf.Prototype),
			zap.Uint32("hash", h))
	}
	return bound, nil
}
