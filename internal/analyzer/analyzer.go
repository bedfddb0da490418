package analyzer

import (
	"fmt"
	"strconv"

	"github.com/mcncl/poxo/internal/errors"
	"github.com/mcncl/poxo/internal/inflect"
	"github.com/mcncl/poxo/internal/models"
	"github.com/mcncl/poxo/internal/naming"
)

// DefaultRootName is the default name for the root class if not specified.
const DefaultRootName = "RootType"

// Order controls the order in which discovered classes are emitted.
type Order int

const (
	// OrderLIFO pops the most recently discovered class first. A class
	// found in field k is emitted, together with everything nested in it,
	// before classes found in earlier fields of the same parent.
	OrderLIFO Order = iota
	// OrderDiscovery emits classes breadth-first, in the order they were found.
	OrderDiscovery
)

// ParseOrder maps a config/CLI value to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "lifo":
		return OrderLIFO, nil
	case "discovery", "bfs":
		return OrderDiscovery, nil
	default:
		return 0, fmt.Errorf("unknown class order %q (want lifo or discovery)", s)
	}
}

// CollisionPolicy decides what happens when two nested objects normalize to
// the same class name.
type CollisionPolicy int

const (
	// CollisionRename appends a counter to later classes: Item, Item2, Item3.
	CollisionRename CollisionPolicy = iota
	// CollisionAllow emits one class per object even if names repeat.
	CollisionAllow
	// CollisionError fails the extraction.
	CollisionError
)

// ParseCollisionPolicy maps a config/CLI value to a CollisionPolicy.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "", "rename":
		return CollisionRename, nil
	case "allow":
		return CollisionAllow, nil
	case "error":
		return CollisionError, nil
	default:
		return 0, fmt.Errorf("unknown collision policy %q (want rename, allow or error)", s)
	}
}

// Options configures an Engine. Zero values select the defaults.
type Options struct {
	Conversion   naming.Conversion
	Singularizer inflect.Singularizer
	Order        Order
	Collisions   CollisionPolicy
}

// Engine infers field types and extracts class definitions from a JSON
// object. An Engine is not safe for concurrent use; create one per document.
type Engine struct {
	conv       naming.Conversion
	singular   inflect.Singularizer
	order      Order
	collisions CollisionPolicy
	// used counts how often each class name has been handed out
	used map[string]int
}

// NewEngine creates a new Engine instance.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		conv:       opts.Conversion,
		singular:   opts.Singularizer,
		order:      opts.Order,
		collisions: opts.Collisions,
		used:       make(map[string]int),
	}
	if e.conv == nil {
		e.conv = naming.Pascal
	}
	if e.singular == nil {
		e.singular = inflect.NewEnglish(nil)
	}
	return e
}

// InferType returns the type of value for a field or element named
// candidate. When value is a non-empty object it also returns the class that
// must be generated for it.
//
// Arrays are typed from their first element only. Nested arrays are
// unwrapped iteratively, each level singularizing the candidate name again.
func (e *Engine) InferType(candidate string, value models.JSONValue) (models.TypeRef, *models.PendingClass, error) {
	depth := 0
	for {
		arr, ok := value.(models.Array)
		if !ok || len(arr) == 0 {
			break
		}
		candidate = e.singular.Singular(candidate)
		value = arr[0]
		depth++
	}

	ref, pending, err := e.inferElement(candidate, value)
	if err != nil {
		return nil, nil, err
	}
	for ; depth > 0; depth-- {
		ref = models.ArrayOf{Elem: ref}
	}
	return ref, pending, nil
}

func (e *Engine) inferElement(candidate string, value models.JSONValue) (models.TypeRef, *models.PendingClass, error) {
	switch v := value.(type) {
	case models.String:
		return models.Primitive{Kind: models.KindString}, nil, nil
	case models.Integer:
		return models.Primitive{Kind: models.KindInteger}, nil, nil
	case models.Float:
		return models.Primitive{Kind: models.KindFloat}, nil, nil
	case models.BigInteger:
		return models.Primitive{Kind: models.KindBigInteger}, nil, nil
	case models.Bool:
		return models.Primitive{Kind: models.KindBool}, nil, nil
	case models.Null:
		return models.Placeholder{Reason: models.ReasonUndetermined}, nil, nil
	case models.Array:
		// Non-empty arrays are unwrapped by InferType.
		return models.UnknownArray{}, nil, nil
	case models.Object:
		if len(v) == 0 {
			return models.UnknownObject{}, nil, nil
		}
		name, err := e.claimName(e.conv(candidate))
		if err != nil {
			return nil, nil, err
		}
		return models.ClassRef{Name: name}, &models.PendingClass{Name: name, Object: v}, nil
	case models.Unusable:
		if v.Kind == models.UnusableFunction {
			return models.Placeholder{Reason: models.ReasonFunction}, nil, nil
		}
		return models.Placeholder{Reason: models.ReasonUnknownType}, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %T", errors.ErrUnsupportedValue, value)
	}
}

// claimName records a class name and applies the collision policy.
func (e *Engine) claimName(name string) (string, error) {
	count := e.used[name]
	e.used[name] = count + 1
	if count == 0 {
		return name, nil
	}

	switch e.collisions {
	case CollisionAllow:
		return name, nil
	case CollisionError:
		return "", fmt.Errorf("%w: %q is generated more than once", errors.ErrNameCollision, name)
	default:
		for n := count + 1; ; n++ {
			candidate := name + strconv.Itoa(n)
			if e.used[candidate] == 0 {
				e.used[candidate] = 1
				return candidate, nil
			}
		}
	}
}

// Extract walks root and returns one class per non-empty object, starting
// with the root class. Objects are processed from an explicit worklist, so
// nesting depth does not grow the call stack.
func (e *Engine) Extract(rootName string, root models.Object) ([]models.ClassModel, error) {
	if rootName == "" {
		rootName = DefaultRootName
	}
	e.used = make(map[string]int)

	name, err := e.claimName(e.conv(rootName))
	if err != nil {
		return nil, err
	}

	var classes []models.ClassModel
	work := []models.PendingClass{{Name: name, Object: root}}
	for len(work) > 0 {
		var next models.PendingClass
		if e.order == OrderDiscovery {
			next, work = work[0], work[1:]
		} else {
			next, work = work[len(work)-1], work[:len(work)-1]
		}

		class := models.ClassModel{
			Name:   next.Name,
			Fields: make([]models.FieldModel, 0, len(next.Object)),
		}
		for _, member := range next.Object {
			ref, pending, err := e.InferType(member.Key, member.Value)
			if err != nil {
				return nil, fmt.Errorf("failed to infer field '%s' in class '%s': %w", member.Key, next.Name, err)
			}
			if pending != nil {
				work = append(work, *pending)
			}
			class.Fields = append(class.Fields, models.FieldModel{
				SourceKey: member.Key,
				Name:      e.conv(member.Key),
				Type:      ref,
			})
		}
		classes = append(classes, class)
	}

	return classes, nil
}
