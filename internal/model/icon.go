package model

// Icon names a presentational symbol a capability or social link may show.
// The set is closed: rows referencing anything else are rejected on write.
type Icon string

const (
	IconCamera    Icon = "camera"
	IconFilm      Icon = "film"
	IconVideo     Icon = "video"
	IconMic       Icon = "mic"
	IconEdit      Icon = "edit"
	IconPalette   Icon = "palette"
	IconGlobe     Icon = "globe"
	IconUsers     Icon = "users"
	IconStar      Icon = "star"
	IconSparkles  Icon = "sparkles"
	IconInstagram Icon = "instagram"
	IconYouTube   Icon = "youtube"
	IconTikTok    Icon = "tiktok"
	IconTwitter   Icon = "twitter"
	IconLinkedIn  Icon = "linkedin"
	IconFacebook  Icon = "facebook"
	IconMail      Icon = "mail"
	IconPhone     Icon = "phone"
)

// iconGlyphs maps each icon to the glyph the templates render.
var iconGlyphs = map[Icon]string{
	IconCamera:    "📷",
	IconFilm:      "🎞",
	IconVideo:     "🎥",
	IconMic:       "🎙",
	IconEdit:      "✂",
	IconPalette:   "🎨",
	IconGlobe:     "🌐",
	IconUsers:     "👥",
	IconStar:      "★",
	IconSparkles:  "✨",
	IconInstagram: "IG",
	IconYouTube:   "YT",
	IconTikTok:    "TT",
	IconTwitter:   "X",
	IconLinkedIn:  "in",
	IconFacebook:  "f",
	IconMail:      "✉",
	IconPhone:     "☎",
}

// ValidIcon reports whether name is one of the known icons.
func ValidIcon(name string) bool {
	_, ok := iconGlyphs[Icon(name)]
	return ok
}

// IconGlyph returns the glyph for name, or "" for unknown names.
func IconGlyph(name string) string {
	return iconGlyphs[Icon(name)]
}
