package domain

// FullWidth is the sentinel width of components that span the whole page.
const FullWidth = 100000

// FallbackSize is used for types missing from DefaultSizes.
var FallbackSize = Size{Width: 200, Height: 150}

// DefaultSizes maps a component type to the size it gets when dropped
// without an explicit size.
var DefaultSizes = map[ComponentType]Size{
	ComponentTypeTextBlock:   {Width: 200, Height: 150},
	ComponentTypeImage:       {Width: 300, Height: 200},
	ComponentTypeVideo:       {Width: 480, Height: 270},
	ComponentTypeCard:        {Width: 250, Height: 300},
	ComponentTypeProjectCard: {Width: 600, Height: 240},
	ComponentTypeButton:      {Width: 120, Height: 40},
	ComponentTypeNavBar:      {Width: FullWidth, Height: 48},
}

// DefaultSize looks up the default size for t.
func DefaultSize(t ComponentType) Size {
	if s, ok := DefaultSizes[t]; ok {
		return s
	}
	return FallbackSize
}
