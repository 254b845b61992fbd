package generate

import (
	"strings"

	"github.com/roach88/stingeripc/internal/stinger"
)

// PayloadDescription summarises a signal's payload for humans, e.g.
// "on: boolean, level: integer". Args keep declaration order.
func PayloadDescription(sig *stinger.Signal) string {
	if sig.PayloadType() == stinger.PayloadJSONSchema {
		return "json schema object"
	}
	args := sig.Args()
	if len(args) == 0 {
		return "no arguments"
	}
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, a.Name()+": "+a.Type().String())
	}
	return strings.Join(parts, ", ")
}
