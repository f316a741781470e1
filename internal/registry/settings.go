package registry

// ContentKind selects one of the three registration queues.
type ContentKind int

const (
	KindBlock ContentKind = iota
	KindItem
	KindEntity
)

// String returns the kind name
func (k ContentKind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindItem:
		return "item"
	case KindEntity:
		return "entity"
	}
	return "unknown"
}

// BlockSettings carries everything the engine needs to construct a
// block. Field meanings follow the engine's block settings builder.
type BlockSettings struct {
	Hardness               float32
	Resistance             float32
	RequiresTool           bool
	Luminance              int32
	Slipperiness           float32
	VelocityMultiplier     float32
	JumpVelocityMultiplier float32
	TicksRandomly          bool
	Collidable             bool
	Replaceable            bool
	Burnable               bool
}

// DefaultBlockSettings mirrors the engine's stone-like defaults.
func DefaultBlockSettings() BlockSettings {
	return BlockSettings{
		Hardness:               1.0,
		Resistance:             1.0,
		Slipperiness:           0.6,
		VelocityMultiplier:     1.0,
		JumpVelocityMultiplier: 1.0,
		Collidable:             true,
	}
}

// ItemSettings carries item construction parameters.
type ItemSettings struct {
	MaxStackSize    int32
	MaxDamage       int32
	FireResistant   bool
	AttackDamage    float32
	AttackSpeed     float32
	AttackKnockback float32
}

// DefaultItemSettings mirrors the engine's plain-item defaults.
func DefaultItemSettings() ItemSettings {
	return ItemSettings{MaxStackSize: 64}
}

// EntitySettings carries entity construction parameters. Goal
// descriptors stay opaque JSON; the engine parses them, not us.
type EntitySettings struct {
	Width           float32
	Height          float32
	MaxHealth       float32
	MovementSpeed   float32
	AttackDamage    float32
	SpawnGroup      string
	BaseType        string
	BreedingItem    string
	ModelType       string
	TexturePath     string
	ModelScale      float32
	GoalsJSON       string
	TargetGoalsJSON string
}

// DefaultEntitySettings mirrors the engine's generic-mob defaults.
func DefaultEntitySettings() EntitySettings {
	return EntitySettings{
		Width:         0.6,
		Height:        1.8,
		MaxHealth:     20,
		MovementSpeed: 0.25,
		SpawnGroup:    "creature",
		ModelScale:    1.0,
	}
}

// Registration is one queued content definition awaiting the drain.
type Registration struct {
	HandlerID int64
	Kind      ContentKind
	ID        Identifier

	Block  *BlockSettings
	Item   *ItemSettings
	Entity *EntitySettings
}
