package model

import "time"

// Meta holds the columns every content row carries.  The store assigns all
// three; admin payloads never set them.
type Meta struct {
	ID        string    `mapstructure:"id" json:"id,omitempty" yaml:"-"`
	CreatedAt time.Time `mapstructure:"created_at" json:"created_at,omitempty" yaml:"-"`
	UpdatedAt time.Time `mapstructure:"updated_at" json:"updated_at,omitempty" yaml:"-"`
}

// HomeContent is the singleton row behind the landing page: hero block,
// featured video, marquee strip and quote.
type HomeContent struct {
	Meta                 `mapstructure:",squash" yaml:",inline"`
	HeroTitle            string   `mapstructure:"hero_title" json:"hero_title" yaml:"hero_title"`
	HeroSubtitle         string   `mapstructure:"hero_subtitle" json:"hero_subtitle" yaml:"hero_subtitle"`
	HeroCTAText          string   `mapstructure:"hero_cta_text" json:"hero_cta_text" yaml:"hero_cta_text"`
	HeroCTALink          string   `mapstructure:"hero_cta_link" json:"hero_cta_link" yaml:"hero_cta_link"`
	HeroImageURL         string   `mapstructure:"hero_image_url" json:"hero_image_url" yaml:"hero_image_url"`
	HeroImageMobileURL   string   `mapstructure:"hero_image_mobile_url" json:"hero_image_mobile_url" yaml:"hero_image_mobile_url"`
	HeroFocalX           float64  `mapstructure:"hero_focal_x" json:"hero_focal_x" yaml:"hero_focal_x"`
	HeroFocalY           float64  `mapstructure:"hero_focal_y" json:"hero_focal_y" yaml:"hero_focal_y"`
	FeaturedVideoID      string   `mapstructure:"featured_video_id" json:"featured_video_id" yaml:"featured_video_id"`
	FeaturedThumbnailURL string   `mapstructure:"featured_thumbnail_url" json:"featured_thumbnail_url" yaml:"featured_thumbnail_url"`
	FeaturedFocalX       float64  `mapstructure:"featured_focal_x" json:"featured_focal_x" yaml:"featured_focal_x"`
	FeaturedFocalY       float64  `mapstructure:"featured_focal_y" json:"featured_focal_y" yaml:"featured_focal_y"`
	MarqueeItems         []string `mapstructure:"marquee_items" json:"marquee_items" yaml:"marquee_items"`
	QuoteText            string   `mapstructure:"quote_text" json:"quote_text" yaml:"quote_text"`
	QuoteAccent          string   `mapstructure:"quote_accent" json:"quote_accent" yaml:"quote_accent"`
}

// HeroFocal returns the hero image focal point.
func (h HomeContent) HeroFocal() FocalPoint { return FocalPoint{X: h.HeroFocalX, Y: h.HeroFocalY} }

// FeaturedFocal returns the featured thumbnail focal point.
func (h HomeContent) FeaturedFocal() FocalPoint {
	return FocalPoint{X: h.FeaturedFocalX, Y: h.FeaturedFocalY}
}

// Capability is one entry of the "what we do" grid.
type Capability struct {
	Meta        `mapstructure:",squash" yaml:",inline"`
	Title       string `mapstructure:"title" json:"title" yaml:"title"`
	Description string `mapstructure:"description" json:"description" yaml:"description"`
	Icon        string `mapstructure:"icon" json:"icon" yaml:"icon"`
	Order       int    `mapstructure:"order" json:"order" yaml:"order"`
}

// StudioImage is a photo of the studio space.
type StudioImage struct {
	Meta     `mapstructure:",squash" yaml:",inline"`
	ImageURL string `mapstructure:"image_url" json:"image_url" yaml:"image_url"`
	AltText  string `mapstructure:"alt_text" json:"alt_text" yaml:"alt_text"`
	Order    int    `mapstructure:"order" json:"order" yaml:"order"`
}

// GalleryImage is a tile of the home gallery, optionally linking elsewhere.
type GalleryImage struct {
	Meta     `mapstructure:",squash" yaml:",inline"`
	ImageURL string `mapstructure:"image_url" json:"image_url" yaml:"image_url"`
	LinkURL  string `mapstructure:"link_url" json:"link_url" yaml:"link_url"`
	Order    int    `mapstructure:"order" json:"order" yaml:"order"`
}

// Show is a produced show with its video and localized title/category.
type Show struct {
	Meta               `mapstructure:",squash" yaml:",inline"`
	VideoID            string  `mapstructure:"video_id" json:"video_id" yaml:"video_id"`
	ThumbnailURL       string  `mapstructure:"thumbnail_url" json:"thumbnail_url" yaml:"thumbnail_url"`
	ThumbnailMobileURL string  `mapstructure:"thumbnail_mobile_url" json:"thumbnail_mobile_url" yaml:"thumbnail_mobile_url"`
	FocalX             float64 `mapstructure:"focal_x" json:"focal_x" yaml:"focal_x"`
	FocalY             float64 `mapstructure:"focal_y" json:"focal_y" yaml:"focal_y"`
	Title              string  `mapstructure:"title" json:"title" yaml:"title"`
	TitleTranslated    string  `mapstructure:"title_translated" json:"title_translated" yaml:"title_translated"`
	Category           string  `mapstructure:"category" json:"category" yaml:"category"`
	CategoryTranslated string  `mapstructure:"category_translated" json:"category_translated" yaml:"category_translated"`
	Order              int     `mapstructure:"order" json:"order" yaml:"order"`
}

// Focal returns the thumbnail focal point.
func (s Show) Focal() FocalPoint { return FocalPoint{X: s.FocalX, Y: s.FocalY} }

// ShowsContent holds the shows page heading.
type ShowsContent struct {
	Meta     `mapstructure:",squash" yaml:",inline"`
	Title    string `mapstructure:"title" json:"title" yaml:"title"`
	Subtitle string `mapstructure:"subtitle" json:"subtitle" yaml:"subtitle"`
}

// Role is an open position listed on the join page.
type Role struct {
	Meta                  `mapstructure:",squash" yaml:",inline"`
	Title                 string `mapstructure:"title" json:"title" yaml:"title"`
	TitleTranslated       string `mapstructure:"title_translated" json:"title_translated" yaml:"title_translated"`
	Type                  string `mapstructure:"type" json:"type" yaml:"type"`
	TypeTranslated        string `mapstructure:"type_translated" json:"type_translated" yaml:"type_translated"`
	Description           string `mapstructure:"description" json:"description" yaml:"description"`
	DescriptionTranslated string `mapstructure:"description_translated" json:"description_translated" yaml:"description_translated"`
	Order                 int    `mapstructure:"order" json:"order" yaml:"order"`
}

// JoinContent holds the join page and pitch section headings.
type JoinContent struct {
	Meta          `mapstructure:",squash" yaml:",inline"`
	Title         string `mapstructure:"title" json:"title" yaml:"title"`
	Subtitle      string `mapstructure:"subtitle" json:"subtitle" yaml:"subtitle"`
	PitchTitle    string `mapstructure:"pitch_title" json:"pitch_title" yaml:"pitch_title"`
	PitchSubtitle string `mapstructure:"pitch_subtitle" json:"pitch_subtitle" yaml:"pitch_subtitle"`
}

// ContactContent holds the contact page copy and the public address.
type ContactContent struct {
	Meta         `mapstructure:",squash" yaml:",inline"`
	FormTitle    string `mapstructure:"form_title" json:"form_title" yaml:"form_title"`
	InfoTitle    string `mapstructure:"info_title" json:"info_title" yaml:"info_title"`
	InfoAccent   string `mapstructure:"info_accent" json:"info_accent" yaml:"info_accent"`
	InfoSubtitle string `mapstructure:"info_subtitle" json:"info_subtitle" yaml:"info_subtitle"`
	Email        string `mapstructure:"email" json:"email" yaml:"email"`
}

// NavItem is a header navigation link.
type NavItem struct {
	Meta  `mapstructure:",squash" yaml:",inline"`
	Label string `mapstructure:"label" json:"label" yaml:"label"`
	Href  string `mapstructure:"href" json:"href" yaml:"href"`
	Order int    `mapstructure:"order" json:"order" yaml:"order"`
}

// SocialLink is a footer social profile link.
type SocialLink struct {
	Meta  `mapstructure:",squash" yaml:",inline"`
	Label string `mapstructure:"label" json:"label" yaml:"label"`
	Href  string `mapstructure:"href" json:"href" yaml:"href"`
	Icon  string `mapstructure:"icon" json:"icon" yaml:"icon"`
	Order int    `mapstructure:"order" json:"order" yaml:"order"`
}

// SiteSettings is the singleton with site-wide identity and brand colors.
type SiteSettings struct {
	Meta           `mapstructure:",squash" yaml:",inline"`
	SiteName       string `mapstructure:"site_name" json:"site_name" yaml:"site_name"`
	Description    string `mapstructure:"description" json:"description" yaml:"description"`
	LogoURL        string `mapstructure:"logo_url" json:"logo_url" yaml:"logo_url"`
	PrimaryColor   string `mapstructure:"primary_color" json:"primary_color" yaml:"primary_color"`
	SecondaryColor string `mapstructure:"secondary_color" json:"secondary_color" yaml:"secondary_color"`
	AccentColor    string `mapstructure:"accent_color" json:"accent_color" yaml:"accent_color"`
}
