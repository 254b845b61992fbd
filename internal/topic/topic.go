package topic

import "strings"

const (
	separator = "/"

	interfaceSegment = "interface"
	signalSegment    = "signal"
)

// Base joins topic segments under an optional root prefix.
type Base struct {
	root string
}

// NewBase creates a Base rooted at root. Leading and trailing separators are
// stripped. A root that is empty after stripping means no root.
func NewBase(root string) Base {
	return Base{root: strings.Trim(root, separator)}
}

// Root returns the stripped root prefix, or "" when there is none.
func (b Base) Root() string {
	return b.root
}

// Join concatenates the root with parts using '/'.
// Without a root the result has no leading separator.
func (b Base) Join(parts ...string) string {
	joined := strings.Join(parts, separator)
	if b.root == "" {
		return joined
	}
	return b.root + separator + joined
}

// InterfaceCreator produces the topics owned by one interface.
type InterfaceCreator struct {
	base          Base
	interfaceName string
}

// NewInterfaceCreator creates a creator for interfaceName under an optional
// global root.
func NewInterfaceCreator(interfaceName, root string) *InterfaceCreator {
	return &InterfaceCreator{
		base:          NewBase(root),
		interfaceName: interfaceName,
	}
}

// InterfaceName returns the interface name the creator was built with.
func (c *InterfaceCreator) InterfaceName() string {
	return c.interfaceName
}

// Root returns the stripped global root, or "".
func (c *InterfaceCreator) Root() string {
	return c.base.Root()
}

// Prefix returns the topic prefix shared by everything in the interface.
func (c *InterfaceCreator) Prefix() string {
	return c.base.Join(c.interfaceName)
}

// InterfaceInfoTopic returns "{prefix}/interface".
func (c *InterfaceCreator) InterfaceInfoTopic() string {
	return c.Prefix() + separator + interfaceSegment
}

// SignalCreator returns a new signal creator rooted at the interface prefix.
func (c *InterfaceCreator) SignalCreator() *SignalCreator {
	return NewSignalCreator(c.Prefix())
}

// SignalCreator produces per-signal emission topics.
type SignalCreator struct {
	base Base
}

// NewSignalCreator creates a signal creator rooted at root, normally the
// interface prefix.
func NewSignalCreator(root string) *SignalCreator {
	return &SignalCreator{base: NewBase(root)}
}

// Root returns the stripped root of the creator.
func (c *SignalCreator) Root() string {
	return c.base.Root()
}

// SignalTopic returns "{root}/signal/{signalName}".
func (c *SignalCreator) SignalTopic(signalName string) string {
	return c.base.Join(signalSegment, signalName)
}
