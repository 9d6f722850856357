package command

import (
	"reflect"
	"strings"

	"github.com/viant/structology/conv"
	"github.com/viant/x"
)

// Signature describes one privileged command kind known to the catalog.
type Signature struct {
	Name        string
	Description string
	Input       reflect.Type
	// Defaults supplies values for parameters that may be omitted from the
	// originating request, e.g. givepack amount defaults to 1.
	Defaults map[string]interface{}
}

type Signatures []Signature

// Lookup returns the signature registered under name or nil.
func (s Signatures) Lookup(name string) *Signature {
	for i := range s {
		sig := &s[i]
		if sig.Name == name {
			return sig
		}
	}
	return nil
}

// Catalog validates raw parameter bags into typed command kinds. It is pure:
// parsing and rendering have no side effects and are deterministic.
type Catalog struct {
	signatures Signatures
	types      *x.Registry
	converter  *conv.Converter
}

// NewCatalog creates a catalog pre-populated with the built-in command kinds.
func NewCatalog() *Catalog {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	ret := &Catalog{
		types:     x.NewRegistry(),
		converter: conv.NewConverter(options),
	}
	ret.register(Signature{
		Name:        "givepack",
		Description: "Give a pack to a user",
		Input:       reflect.TypeOf(GrantPack{}),
		Defaults:    map[string]interface{}{"amount": 1},
	})
	ret.register(Signature{
		Name:        "givepoints",
		Description: "Give points to a user",
		Input:       reflect.TypeOf(GrantPoints{}),
	})
	ret.register(Signature{
		Name:        "checkgifts",
		Description: "Check all gifted data",
		Input:       reflect.TypeOf(InspectLedger{}),
	})
	return ret
}

func (c *Catalog) register(signature Signature) {
	c.signatures = append(c.signatures, signature)
	c.types.Register(x.NewType(signature.Input, x.WithName(signature.Name)))
}

// Signatures returns all registered command signatures.
func (c *Catalog) Signatures() Signatures {
	return c.signatures
}

// Parse converts a raw parameter bag into a validated command Kind. It fails
// with a ValidationError for missing, mistyped or out-of-range parameters and
// with an unknown-command error when name is not registered.
func (c *Catalog) Parse(name string, parameters map[string]interface{}) (Kind, error) {
	signature := c.signatures.Lookup(strings.ToLower(name))
	if signature == nil {
		return nil, NewUnknownCommandError(name)
	}
	bag := applyDefaults(parameters, signature.Defaults)
	instance := reflect.New(signature.Input).Interface()
	if len(bag) > 0 {
		if err := c.converter.Convert(bag, instance); err != nil {
			return nil, NewValidationError(signature.Name, "", err.Error())
		}
	}
	kind, ok := reflect.ValueOf(instance).Elem().Interface().(Kind)
	if !ok {
		return nil, NewUnknownCommandError(name)
	}
	if err := validate(kind); err != nil {
		return nil, err
	}
	return kind, nil
}

// applyDefaults merges default values for parameters absent from the bag.
// Parameter names are matched case-insensitively.
func applyDefaults(parameters, defaults map[string]interface{}) map[string]interface{} {
	if len(defaults) == 0 {
		return parameters
	}
	bag := make(map[string]interface{}, len(parameters)+len(defaults))
	present := make(map[string]bool, len(parameters))
	for k, v := range parameters {
		bag[k] = v
		present[strings.ToLower(k)] = true
	}
	for k, v := range defaults {
		if !present[strings.ToLower(k)] {
			bag[k] = v
		}
	}
	return bag
}

func validate(kind Kind) error {
	switch c := kind.(type) {
	case GrantPack:
		if c.User == "" {
			return NewValidationError(c.Name(), "user", "required")
		}
		if c.PackID == "" {
			return NewValidationError(c.Name(), "packid", "required")
		}
		if c.Amount < 1 {
			return NewValidationError(c.Name(), "amount", "must be at least 1")
		}
	case GrantPoints:
		if c.User == "" {
			return NewValidationError(c.Name(), "user", "required")
		}
		if c.Amount < 0 {
			return NewValidationError(c.Name(), "amount", "cannot be negative")
		}
	case InspectLedger:
	default:
		return NewUnknownCommandError(kind.Name())
	}
	return nil
}
