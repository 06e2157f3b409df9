package document

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/prcctl/internal/paracobn"
	"github.com/danmuck/prcctl/internal/paracobn/hash40"
	"github.com/danmuck/prcctl/internal/paramtree"
)

var (
	ErrNotFound        = errors.New("document: path not found")
	ErrNotContainer    = errors.New("document: target is not a struct or list")
	ErrRootDelete      = errors.New("document: cannot delete root")
	ErrProbesExhausted = errors.New("document: no free field hash after probing")
)

// maxInsertProbes bounds the hash+1 collision probe on struct insert.
const maxInsertProbes = 1000

// Document is one open container session. The canonical tree is
// authoritative; Tree is its disposable name-resolved projection.
type Document struct {
	root     paracobn.Value
	Labels   *hash40.Labels
	Tree     *paramtree.Node
	filename string
}

// Open decodes a container and builds its projection. A failed decode leaves
// no document behind.
func Open(data []byte, filename string, labels *hash40.Labels) (*Document, error) {
	root, err := paracobn.Decode(data)
	if err != nil {
		return nil, err
	}
	d := &Document{root: root, Labels: labels, filename: filename}
	d.Rebuild()

	if n := countUnknown(root); n > 0 {
		log.Warn().Str("file", filename).Int("placeholders", n).
			Msg("container holds unknown-type placeholders")
	}
	log.Debug().Str("file", filename).Int("bytes", len(data)).Msg("container opened")
	return d, nil
}

func countUnknown(v paracobn.Value) int {
	switch v.Kind {
	case paracobn.KindUnknown:
		return 1
	case paracobn.KindList:
		n := 0
		for _, item := range v.List {
			n += countUnknown(item)
		}
		return n
	case paracobn.KindStruct:
		n := 0
		for _, f := range v.Struct.Fields {
			n += countUnknown(f.Value)
		}
		return n
	}
	return 0
}

func (d *Document) Filename() string {
	return d.filename
}

// Root returns the canonical tree. Callers mutate it only through the
// path-addressed operations.
func (d *Document) Root() paracobn.Value {
	return d.root
}

// Encode serializes the canonical tree fully in memory.
func (d *Document) Encode() ([]byte, error) {
	return paracobn.Encode(d.root)
}

// Save encodes and then writes the target path. Encode failures and I/O
// failures both leave the in-memory document untouched and are reported
// verbatim; they are distinguishable through errors.Is.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Info().Str("file", path).Int("bytes", len(data)).Msg("container saved")
	return nil
}

// Rebuild regenerates the display tree from the canonical tree and the
// current dictionary. Call after loading new labels.
func (d *Document) Rebuild() {
	d.Tree = paramtree.FromValue(0, d.root, d.Labels)
}

// valueAt returns a pointer to the canonical slot addressed by indices.
func (d *Document) valueAt(indices []int) (*paracobn.Value, error) {
	current := &d.root
	for _, i := range indices {
		switch current.Kind {
		case paracobn.KindStruct:
			if i < 0 || i >= len(current.Struct.Fields) {
				return nil, fmt.Errorf("%w: index %d", ErrNotFound, i)
			}
			current = &current.Struct.Fields[i].Value
		case paracobn.KindList:
			if i < 0 || i >= len(current.List) {
				return nil, fmt.Errorf("%w: index %d", ErrNotFound, i)
			}
			current = &current.List[i]
		default:
			return nil, fmt.Errorf("%w: scalar has no children", ErrNotFound)
		}
	}
	return current, nil
}

// Get returns the display node at path, read-only.
func (d *Document) Get(path string) (*paramtree.Node, error) {
	indices, err := paramtree.ParsePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	node := d.Tree.Child(indices)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return node, nil
}

// UpdateValue replaces the canonical value at path in place.
func (d *Document) UpdateValue(path string, v paracobn.Value) error {
	indices, err := paramtree.ParsePath(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	slot, err := d.valueAt(indices)
	if err != nil {
		return err
	}
	*slot = v
	d.Rebuild()
	return nil
}

// UpdateKey re-keys the struct field at path: the field is removed from its
// parent and reinserted under the new hash, moving it to the end of the
// parent's insertion order. The new name is registered with the dictionary.
// Renaming the root only touches the display node; the root has no parent
// struct to re-key.
func (d *Document) UpdateKey(path string, newName string, newHash uint64) error {
	indices, err := paramtree.ParsePath(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if len(indices) == 0 {
		d.Tree.Name = newName
		d.Tree.Hash = newHash
		return nil
	}

	parent, err := d.valueAt(indices[:len(indices)-1])
	if err != nil {
		return err
	}
	if parent.Kind != paracobn.KindStruct {
		return fmt.Errorf("%w: list items have no keys", ErrNotContainer)
	}
	i := indices[len(indices)-1]
	if i < 0 || i >= len(parent.Struct.Fields) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	oldHash := parent.Struct.Fields[i].Hash
	value, _ := parent.Struct.Remove(oldHash)
	parent.Struct.Set(newHash, value)
	d.Labels.RegisterForHash(newHash, newName)
	d.Rebuild()
	return nil
}

// Delete removes the struct field or list element at path. The root is
// refused.
func (d *Document) Delete(path string) error {
	indices, err := paramtree.ParsePath(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if len(indices) == 0 {
		return ErrRootDelete
	}

	parent, err := d.valueAt(indices[:len(indices)-1])
	if err != nil {
		return err
	}
	i := indices[len(indices)-1]
	switch parent.Kind {
	case paracobn.KindStruct:
		if i < 0 || i >= len(parent.Struct.Fields) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		parent.Struct.Remove(parent.Struct.Fields[i].Hash)
	case paracobn.KindList:
		if i < 0 || i >= len(parent.List) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		parent.List = append(parent.List[:i], parent.List[i+1:]...)
	default:
		return fmt.Errorf("%w: %s", ErrNotContainer, path)
	}
	d.Rebuild()
	return nil
}

// Insert appends a new field (struct target) or item (list target) at path.
// Struct field-hash collisions probe hash+1, hash+2, ... so an existing
// field is never silently overwritten; the hash actually used is returned.
func (d *Document) Insert(path string, hash uint64, v paracobn.Value) (uint64, error) {
	indices, err := paramtree.ParsePath(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	target, err := d.valueAt(indices)
	if err != nil {
		return 0, err
	}

	switch target.Kind {
	case paracobn.KindStruct:
		chosen := hash
		probes := 0
		for target.Struct.Index(chosen) >= 0 {
			probes++
			if probes > maxInsertProbes {
				return 0, fmt.Errorf("%w: base 0x%X", ErrProbesExhausted, hash)
			}
			chosen = hash + uint64(probes)
		}
		target.Struct.Fields = append(target.Struct.Fields, paracobn.Field{Hash: chosen, Value: v})
		d.Rebuild()
		return chosen, nil
	case paracobn.KindList:
		target.List = append(target.List, v)
		d.Rebuild()
		return hash, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrNotContainer, path)
	}
}
