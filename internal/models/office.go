package models

// AllOffices is the sentinel office filter meaning "no office restriction".
const AllOffices = "all"

// Office is a read-only reference entry from the office directory.
type Office struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OfficeDirectory resolves office IDs to display names.
type OfficeDirectory struct {
	offices []Office
	byID    map[string]Office
}

// NewOfficeDirectory builds a directory preserving the given order.
func NewOfficeDirectory(offices []Office) *OfficeDirectory {
	d := &OfficeDirectory{
		offices: make([]Office, len(offices)),
		byID:    make(map[string]Office, len(offices)),
	}
	copy(d.offices, offices)
	for _, o := range offices {
		d.byID[o.ID] = o
	}
	return d
}

// Offices returns the directory entries in their original order.
func (d *OfficeDirectory) Offices() []Office {
	out := make([]Office, len(d.offices))
	copy(out, d.offices)
	return out
}

// Name returns the display name for an office ID, falling back to the raw ID
// for offices missing from the directory.
func (d *OfficeDirectory) Name(id string) string {
	if o, ok := d.byID[id]; ok {
		return o.Name
	}
	return id
}

// Len returns the number of offices in the directory.
func (d *OfficeDirectory) Len() int {
	return len(d.offices)
}
