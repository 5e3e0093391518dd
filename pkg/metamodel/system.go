package metamodel

import _ "embed"

// SystemNamespace is the namespace of the Concerto metamodel.
const SystemNamespace = "concerto.metamodel@1.0.0"

//go:embed metamodel.json
var systemMetamodel []byte

// System returns a copy of the embedded Concerto metamodel document. It is
// self-describing: the document validates against a registry built from itself.
func System() []byte {
	out := make([]byte, len(systemMetamodel))
	copy(out, systemMetamodel)
	return out
}
