package dat

import "time"

const (
	versionLayout = "20060102150405"
	dateLayout    = "2006-01-02 15:04:05 MST"
)

// NewHeader derives the catalog header from cfg, stamped with now in UTC.
func NewHeader(cfg Config, now time.Time) Header {
	now = now.UTC()
	return Header{
		Name:        cfg.Name,
		Description: cfg.Description,
		Version:     now.Format(versionLayout),
		Author:      cfg.Author,
		URL:         cfg.URL,
		Date:        now.Format(dateLayout),
	}
}

// Builder accumulates a catalog document. It performs no validation.
type Builder struct {
	doc Datafile
}

// NewBuilder returns a Builder holding an empty document.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetHeader sets the document header. The header is always serialized
// before any game, whenever it is set.
func (b *Builder) SetHeader(h Header) {
	b.doc.Header = &h
}

// AppendTitle appends t after the titles already added.
func (b *Builder) AppendTitle(t *Title) {
	b.doc.Games = append(b.doc.Games, t)
}

// Datafile returns the document built so far.
func (b *Builder) Datafile() *Datafile {
	return &b.doc
}

// Len returns the number of titles appended.
func (b *Builder) Len() int {
	return len(b.doc.Games)
}

// RomCount returns the total number of roms across all titles.
func (d *Datafile) RomCount() int {
	n := 0
	for _, g := range d.Games {
		n += len(g.Roms)
	}
	return n
}
