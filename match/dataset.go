package match

import (
	"context"

	"dld_finder/models"
)

// FilterSpec is a coarse candidate filter. All set fields are combined with
// AND; string fields are substring (LIKE) filters except Rooms, which is a
// prefix filter on the rooms text column.
type FilterSpec struct {
	ProjectToken string
	AreaToken    string
	Rooms        string
	Limit        int
}

// Dataset is the read side of a verified dataset snapshot. Implementations
// must be safe for concurrent use and must answer every query from a single
// consistent snapshot.
type Dataset interface {
	Query(ctx context.Context, filter FilterSpec) ([]models.RegistrationRecord, error)
	Metadata(ctx context.Context) (models.SnapshotMeta, error)
}
