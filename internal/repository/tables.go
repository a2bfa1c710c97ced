package repository

// This file is the allow-list of content tables.  Every table the content
// API or the admin editor may touch is described here once, with its column
// set, so that SQL identifiers are never taken from a request.

// Table names one of the content tables.
type Table string

const (
	TableHomeContent    Table = "home_content"
	TableCapabilities   Table = "capabilities"
	TableStudioImages   Table = "studio_images"
	TableGalleryImages  Table = "gallery_images"
	TableShows          Table = "shows"
	TableShowsContent   Table = "shows_content"
	TableRoles          Table = "roles"
	TableJoinContent    Table = "join_content"
	TableContactContent Table = "contact_content"
	TableNavigation     Table = "navigation"
	TableSocialLinks    Table = "social_links"
	TableSiteSettings   Table = "site_settings"
)

// Kind is the value shape of a column.
type Kind int

const (
	KindText  Kind = iota // nullable string
	KindInt               // integer (only the order column)
	KindFloat             // float (focal point axes)
	KindList              // ordered list of strings, stored as a JSON array
)

// Column describes one editable column.
type Column struct {
	Name  string
	Kind  Kind
	Icon  bool // value must be a known icon name
	Focal bool // value must lie in [0,1]; defaults to 0.5
	Order bool // the display order column
}

// Descriptor is the compile-time description of a content table.
type Descriptor struct {
	Table     Table
	Columns   []Column
	Ordered   bool // has an order column; listed by it ascending
	Singleton bool // holds at most one row
}

// Column looks up an editable column by name.
func (d *Descriptor) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the editable column names in declaration order.
func (d *Descriptor) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

func text(name string) Column  { return Column{Name: name, Kind: KindText} }
func icon(name string) Column  { return Column{Name: name, Kind: KindText, Icon: true} }
func focal(name string) Column { return Column{Name: name, Kind: KindFloat, Focal: true} }
func list(name string) Column  { return Column{Name: name, Kind: KindList} }

var orderColumn = Column{Name: "order", Kind: KindInt, Order: true}

func ordered(t Table, cols ...Column) *Descriptor {
	return &Descriptor{Table: t, Columns: append(cols, orderColumn), Ordered: true}
}

func singleton(t Table, cols ...Column) *Descriptor {
	return &Descriptor{Table: t, Columns: cols, Singleton: true}
}

// allowList keeps the public ordering of tables stable for listings and
// the schema.
var allowList = []*Descriptor{
	singleton(TableHomeContent,
		text("hero_title"), text("hero_subtitle"), text("hero_cta_text"), text("hero_cta_link"),
		text("hero_image_url"), text("hero_image_mobile_url"), focal("hero_focal_x"), focal("hero_focal_y"),
		text("featured_video_id"), text("featured_thumbnail_url"), focal("featured_focal_x"), focal("featured_focal_y"),
		list("marquee_items"), text("quote_text"), text("quote_accent"),
	),
	ordered(TableCapabilities, text("title"), text("description"), icon("icon")),
	ordered(TableStudioImages, text("image_url"), text("alt_text")),
	ordered(TableGalleryImages, text("image_url"), text("link_url")),
	ordered(TableShows,
		text("video_id"), text("thumbnail_url"), text("thumbnail_mobile_url"), focal("focal_x"), focal("focal_y"),
		text("title"), text("title_translated"), text("category"), text("category_translated"),
	),
	singleton(TableShowsContent, text("title"), text("subtitle")),
	ordered(TableRoles,
		text("title"), text("title_translated"), text("type"), text("type_translated"),
		text("description"), text("description_translated"),
	),
	singleton(TableJoinContent, text("title"), text("subtitle"), text("pitch_title"), text("pitch_subtitle")),
	singleton(TableContactContent,
		text("form_title"), text("info_title"), text("info_accent"), text("info_subtitle"), text("email"),
	),
	ordered(TableNavigation, text("label"), text("href")),
	ordered(TableSocialLinks, text("label"), text("href"), icon("icon")),
	singleton(TableSiteSettings,
		text("site_name"), text("description"), text("logo_url"),
		text("primary_color"), text("secondary_color"), text("accent_color"),
	),
}

var byName = func() map[Table]*Descriptor {
	m := make(map[Table]*Descriptor, len(allowList))
	for _, d := range allowList {
		m[d.Table] = d
	}
	return m
}()

// ParseTable validates a table name against the allow-list.
func ParseTable(name string) (Table, error) {
	t := Table(name)
	if _, ok := byName[t]; !ok {
		return "", ErrInvalidTable
	}
	return t, nil
}

// Describe returns the descriptor of an allow-listed table.
func Describe(t Table) (*Descriptor, error) {
	d, ok := byName[t]
	if !ok {
		return nil, ErrInvalidTable
	}
	return d, nil
}

// Tables returns the allow-listed tables in declaration order.
func Tables() []Table {
	out := make([]Table, len(allowList))
	for i, d := range allowList {
		out[i] = d.Table
	}
	return out
}
