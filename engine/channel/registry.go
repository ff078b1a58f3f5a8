package channel

// builtin couples a descriptor with its default benchmark/weight tables.
type builtin struct {
	descriptor *Descriptor
	benchmarks Benchmarks
}

var builtins []builtin

func register(d *Descriptor, b Benchmarks) {
	if err := d.Validate(); err != nil {
		// Descriptors are compiled-in data; a bad one is a programming error.
		panic(err)
	}
	builtins = append(builtins, builtin{descriptor: d, benchmarks: b})
}

// BuiltIn returns the registered channel descriptors in registration order.
func BuiltIn() []*Descriptor {
	out := make([]*Descriptor, len(builtins))
	for i, b := range builtins {
		out[i] = b.descriptor
	}
	return out
}

// Lookup returns the descriptor for name, or nil.
func Lookup(name string) *Descriptor {
	for _, b := range builtins {
		if b.descriptor.Name == name {
			return b.descriptor
		}
	}
	return nil
}
