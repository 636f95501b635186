package models

// SiteSettings is the site configuration served to the public pages.
// Branding, SEO and homepage copy are pass-through blocks for the front end;
// the booking core only reads General for its "contact us directly" fallback.
type SiteSettings struct {
	General  GeneralSettings  `json:"general"`
	Branding BrandingSettings `json:"branding"`
	Homepage HomepageSettings `json:"homepage"`
	SEO      SEOSettings      `json:"seo"`
}

type GeneralSettings struct {
	SiteName     string `json:"site_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

type BrandingSettings struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	FontFamily     string `json:"font_family"`
	LogoURL        string `json:"logo_url,omitempty"`
	FaviconURL     string `json:"favicon_url,omitempty"`
}

type HomepageSettings struct {
	HeroTitle        string   `json:"hero_title"`
	HeroSubtitle     string   `json:"hero_subtitle"`
	HeroCTAText      string   `json:"hero_cta_text"`
	HeroCTALink      string   `json:"hero_cta_link"`
	AboutTitle       string   `json:"about_title"`
	AboutDescription string   `json:"about_description"`
	Features         []string `json:"features"`
}

type SEOSettings struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	MetaKeywords    string `json:"meta_keywords"`
	OGTitle         string `json:"og_title"`
	OGDescription   string `json:"og_description"`
	OGImage         string `json:"og_image,omitempty"`
}
