// Package layers holds the explicit mapping between portal layers and the
// category ids used by search endpoints. The set shipped here covers the
// commonly queried registry layers; callers can extend it at startup.
package layers

import "fmt"

// Layer describes one portal layer.
type Layer struct {
	LayerID    int
	CategoryID int
	Title      string
}

// Registry is an immutable lookup table of layers, built once at startup.
type Registry struct {
	byTitle    map[string]Layer
	byLayerID  map[int]Layer
	byCategory map[int]Layer
}

// Builder assembles a Registry.
type Builder struct {
	layers []Layer
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add registers a layer descriptor. Later additions win on conflicts,
// which lets callers override shipped defaults.
func (b *Builder) Add(l Layer) *Builder {
	b.layers = append(b.layers, l)
	return b
}

func (b *Builder) Build() *Registry {
	r := &Registry{
		byTitle:    make(map[string]Layer, len(b.layers)),
		byLayerID:  make(map[int]Layer, len(b.layers)),
		byCategory: make(map[int]Layer, len(b.layers)),
	}
	for _, l := range b.layers {
		r.byTitle[l.Title] = l
		r.byLayerID[l.LayerID] = l
		r.byCategory[l.CategoryID] = l
	}
	return r
}

// Well-known registry layers.
var (
	Parcels = Layer{LayerID: 36048, CategoryID: 36368, Title: "Земельные участки из ЕГРН"}

	Buildings = Layer{LayerID: 36049, CategoryID: 36369, Title: "Здания"}

	Constructions = Layer{LayerID: 36328, CategoryID: 36383, Title: "Сооружения"}

	UnderConstruction = Layer{LayerID: 36329, CategoryID: 36384, Title: "Объекты незавершенного строительства"}

	ZouitEnergy = Layer{LayerID: 37578, CategoryID: 37579, Title: "ЗОУИТ объектов энергетики, связи, транспорта"}

	CadastralDistricts = Layer{LayerID: 36070, CategoryID: 36070, Title: "Кадастровые районы"}

	CadastralQuarters = Layer{LayerID: 36071, CategoryID: 36071, Title: "Кадастровые кварталы"}
)

// Default returns the registry seeded with the well-known layers.
func Default() *Registry {
	return NewBuilder().
		Add(Parcels).
		Add(Buildings).
		Add(Constructions).
		Add(UnderConstruction).
		Add(ZouitEnergy).
		Add(CadastralDistricts).
		Add(CadastralQuarters).
		Build()
}

// ByTitle looks a layer up by its portal title.
func (r *Registry) ByTitle(title string) (Layer, error) {
	l, ok := r.byTitle[title]
	if !ok {
		return Layer{}, fmt.Errorf("unknown layer title %q", title)
	}
	return l, nil
}

// ByLayerID looks a layer up by layer id.
func (r *Registry) ByLayerID(id int) (Layer, error) {
	l, ok := r.byLayerID[id]
	if !ok {
		return Layer{}, fmt.Errorf("unknown layer id %d", id)
	}
	return l, nil
}

// ByCategory looks a layer up by category id.
func (r *Registry) ByCategory(id int) (Layer, error) {
	l, ok := r.byCategory[id]
	if !ok {
		return Layer{}, fmt.Errorf("unknown category id %d", id)
	}
	return l, nil
}

// KnownCategory reports whether the category id belongs to a registered
// layer.
func (r *Registry) KnownCategory(id int) bool {
	_, ok := r.byCategory[id]
	return ok
}
