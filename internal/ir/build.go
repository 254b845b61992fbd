package ir

import (
	"fmt"

	"github.com/roach88/stingeripc/internal/stinger"
)

// FromSpec converts a validated spec into its IR and fills SpecHash.
func FromSpec(spec *stinger.Spec) (*Interface, error) {
	out := &Interface{
		IRVersion: IRVersion,
		Format:    spec.FormatVersion(),
		Name:      spec.Name(),
		Version:   spec.Version(),
		InfoTopic: spec.InterfaceInfoTopic(),
		Signals:   make([]Signal, 0, spec.Len()),
	}

	for _, sig := range spec.Signals() {
		irSig := Signal{
			Name:        sig.Name(),
			Topic:       sig.EmitTopic(),
			PayloadType: sig.PayloadType().String(),
		}
		if schema, ok := sig.Schema(); ok {
			raw, err := schema.MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("signal %q: encode schema: %w", sig.Name(), err)
			}
			irSig.Schema = raw
		} else {
			for _, a := range sig.Args() {
				desc, _ := a.Description()
				irSig.Args = append(irSig.Args, Arg{
					Name:        a.Name(),
					Type:        a.Type().String(),
					Description: desc,
				})
			}
		}
		out.Signals = append(out.Signals, irSig)
	}

	hash, err := SpecHash(out)
	if err != nil {
		return nil, err
	}
	out.SpecHash = hash
	return out, nil
}
