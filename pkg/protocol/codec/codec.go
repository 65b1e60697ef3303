package codec

// Codec defines a simple interface for marshaling wire messages.
// Implementations should be deterministic and safe for cross-process exchange.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Subprotocol identifiers negotiated with the remote endpoint.
const (
	SubprotocolJSON = "app"
	SubprotocolCBOR = "app+cbor"
)

// Registry maps subprotocol names to codecs.
type Registry struct{ byName map[string]Codec }

// NewRegistry constructs a registry preloaded with the built-in codecs.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Codec)}
	r.Register(SubprotocolJSON, JSON())
	if c, err := CBOR(); err == nil {
		r.Register(SubprotocolCBOR, c)
	}
	return r
}

// Register adds a codec under a subprotocol name.
func (r *Registry) Register(name string, c Codec) { r.byName[name] = c }

// Get returns a codec by subprotocol name, or nil.
func (r *Registry) Get(name string) Codec { return r.byName[name] }

// ForSubprotocol resolves the codec for a negotiated subprotocol,
// defaulting to JSON for unknown names.
func ForSubprotocol(name string) Codec {
	if name == SubprotocolCBOR {
		if c, err := CBOR(); err == nil {
			return c
		}
	}
	return JSON()
}
