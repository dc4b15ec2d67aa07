package schema

// ItemType classifies what kind of content a TypeDescriptor describes.
type ItemType string

const (
	ItemTypeContent ItemType = "content"
	ItemTypeMedia   ItemType = "media"
	ItemTypeMember  ItemType = "member"
)

// PropertyDescriptor describes one typed property of a content type.
// Owned by its parent TypeDescriptor; read-only to this module.
type PropertyDescriptor struct {
	// Alias is the property's lookup key. Comparison is case-insensitive.
	Alias string

	// ClrName is the generated accessor name for the property.
	ClrName string

	Name        string
	Description string

	// TypeFullName is the fully qualified value type of the property.
	TypeFullName string
}

// TypeDescriptor describes one content type as supplied by the schema
// subsystem. Descriptors are inputs to a rebuild and are never mutated
// by this module.
//
// All fields except Origin participate in the generation fingerprint.
// Adding a field here without deciding whether it is fingerprinted is
// a correctness bug: an unhashed relevant field serves stale models,
// a hashed irrelevant field forces spurious rebuilds.
type TypeDescriptor struct {
	// ID uniquely identifies the descriptor within the schema subsystem.
	ID int64

	// Alias is the case-insensitive key models are bound under.
	Alias string

	// ClrName is the generated wrapper type name.
	ClrName string

	// ParentID is the ID of the parent type, or 0 for roots.
	ParentID int64

	Name        string
	Description string
	ItemType    ItemType

	// Mixins holds IDs of composed types. Treated as a set; order
	// does not affect the fingerprint.
	Mixins []int64

	// Properties in schema declaration order.
	Properties []PropertyDescriptor

	// Origin records where the descriptor was loaded from, for
	// diagnostics only. NOT fingerprinted: a descriptor moving
	// between files must not invalidate compiled models.
	Origin string
}

// Node is a raw content node as supplied by the content subsystem.
// CreateModel decorates nodes with typed wrappers keyed on TypeAlias.
type Node interface {
	// TypeAlias returns the content type alias of the node.
	TypeAlias() string

	// Property returns the raw value stored under the given property
	// alias, or nil when the node has no such property.
	Property(alias string) any
}

// Provider supplies the full descriptor set. Implementations must
// return fresh data on every call: the rebuild engine re-reads the
// schema on each rebuild rather than caching descriptors itself.
type Provider interface {
	GetAll() ([]TypeDescriptor, error)
}
