package field

import (
	"fmt"
	"strings"

	"github.com/secret-point/sql-aide/schema"
)

// Descriptor is a node of a field description. Base nodes carry a Type;
// wrapper nodes carry a Layer and point at the node they wrap.
type Descriptor struct {
	layer       Layer
	inner       *Descriptor
	typ         Type
	size        int
	value       any
	annotations []schema.Annotation
	attachment  any
}

// Of returns a base descriptor of the given type.
func Of(t Type) *Descriptor {
	return &Descriptor{typ: t}
}

// Text returns a TEXT descriptor.
func Text() *Descriptor { return Of(TypeText) }

// VarChar returns a VARCHAR(size) descriptor.
func VarChar(size int) *Descriptor { return &Descriptor{typ: TypeVarChar, size: size} }

// Integer returns an INTEGER descriptor.
func Integer() *Descriptor { return Of(TypeInteger) }

// BigInt returns a BIGINT descriptor.
func BigInt() *Descriptor { return Of(TypeBigInt) }

// Float returns a floating point descriptor.
func Float() *Descriptor { return Of(TypeFloat) }

// BigFloat returns an arbitrary precision floating point descriptor.
func BigFloat() *Descriptor { return Of(TypeBigFloat) }

// FloatArray returns a descriptor for an array of floats.
func FloatArray() *Descriptor { return Of(TypeFloatArray) }

// Boolean returns a BOOLEAN descriptor.
func Boolean() *Descriptor { return Of(TypeBoolean) }

// Date returns a DATE descriptor.
func Date() *Descriptor { return Of(TypeDate) }

// DateTime returns a TIMESTAMP descriptor.
func DateTime() *Descriptor { return Of(TypeDateTime) }

// JSONText returns a descriptor for JSON stored as text.
func JSONText() *Descriptor { return Of(TypeJSONText) }

// JSONB returns a descriptor for binary JSON.
func JSONB() *Descriptor { return Of(TypeJSONB) }

// UUID returns a UUID descriptor.
func UUID() *Descriptor { return Of(TypeUUID) }

// Bytes returns a binary descriptor. No domain supports it.
func Bytes() *Descriptor { return Of(TypeBytes) }

// Optional wraps d in an optional layer.
func (d *Descriptor) Optional() *Descriptor {
	return &Descriptor{layer: LayerOptional, inner: d}
}

// Nullable wraps d in a nullable layer.
func (d *Descriptor) Nullable() *Descriptor {
	return &Descriptor{layer: LayerNullable, inner: d}
}

// Default wraps d in a layer holding a default value. The value is rendered
// as a SQL literal.
func (d *Descriptor) Default(v any) *Descriptor {
	return &Descriptor{layer: LayerDefault, inner: d, value: v}
}

// Annotations attaches annotations to this node and returns it.
func (d *Descriptor) Annotations(annotations ...schema.Annotation) *Descriptor {
	d.annotations = append(d.annotations, annotations...)
	return d
}

// Layer returns the role of this node.
func (d *Descriptor) Layer() Layer { return d.layer }

// Inner returns the wrapped node, or nil for a base node.
func (d *Descriptor) Inner() *Descriptor { return d.inner }

// Unwrap walks the chain and returns the base node together with the wrapper
// layers peeled on the way, outermost first.
func (d *Descriptor) Unwrap() (*Descriptor, []*Descriptor) {
	var layers []*Descriptor
	n := d
	for n.inner != nil {
		layers = append(layers, n)
		n = n.inner
	}
	return n, layers
}

// Base returns the base node of the chain.
func (d *Descriptor) Base() *Descriptor {
	b, _ := d.Unwrap()
	return b
}

// Type returns the base type of the chain.
func (d *Descriptor) Type() Type {
	return d.Base().typ
}

// Size returns the declared size of the base type, or zero.
func (d *Descriptor) Size() int {
	return d.Base().size
}

// IsOptional reports if any layer makes the field optional or nullable.
func (d *Descriptor) IsOptional() bool {
	for n := d; n != nil; n = n.inner {
		if n.layer == LayerOptional || n.layer == LayerNullable {
			return true
		}
	}
	return false
}

// DefaultValue returns the value of the outermost default layer.
func (d *Descriptor) DefaultValue() (any, bool) {
	for n := d; n != nil; n = n.inner {
		if n.layer == LayerDefault {
			return n.value, true
		}
	}
	return nil, false
}

// AllAnnotations returns the annotations of every node, innermost first, so
// that outer layers override inner ones when merged.
func (d *Descriptor) AllAnnotations() []schema.Annotation {
	var nodes []*Descriptor
	for n := d; n != nil; n = n.inner {
		nodes = append(nodes, n)
	}
	var out []schema.Annotation
	for i := len(nodes) - 1; i >= 0; i-- {
		out = append(out, nodes[i].annotations...)
	}
	return out
}

// Attach stores v in the attachment slot of this node.
func (d *Descriptor) Attach(v any) { d.attachment = v }

// Attachment returns the content of the attachment slot of this node.
func (d *Descriptor) Attachment() any { return d.attachment }

// Detach clears the attachment slot of this node and of every inner node.
func (d *Descriptor) Detach() {
	for n := d; n != nil; n = n.inner {
		n.attachment = nil
	}
}

// String returns the wrapper chain, e.g. "optional(default(text))".
func (d *Descriptor) String() string {
	base, layers := d.Unwrap()
	var b strings.Builder
	for _, l := range layers {
		b.WriteString(l.layer.String())
		b.WriteByte('(')
	}
	b.WriteString(base.typ.String())
	if base.size > 0 {
		fmt.Fprintf(&b, "[%d]", base.size)
	}
	b.WriteString(strings.Repeat(")", len(layers)))
	return b.String()
}
