package ports

import "context"

// MetamodelSource produces the raw bytes of a metamodel document.
type MetamodelSource interface {
	// Load returns the document.
	// Returns domain.ErrMetamodelNotFound if the source holds no document.
	Load(ctx context.Context) ([]byte, error)
}

// MetamodelStore defines the interface for persisting a metamodel document,
// typically a local or shared copy of an upstream one.
type MetamodelStore interface {
	MetamodelSource

	// Save replaces the stored document.
	Save(ctx context.Context, data []byte) error
}
