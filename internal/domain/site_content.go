package domain

// SiteContentID addresses the single home page document.
const SiteContentID = "homePage"

type SiteContent struct {
	HeroTitleEN    string `json:"heroTitle_en" firestore:"heroTitle_en"`
	HeroTitlePT    string `json:"heroTitle_pt" firestore:"heroTitle_pt"`
	HeroSubtitleEN string `json:"heroSubtitle_en" firestore:"heroSubtitle_en"`
	HeroSubtitlePT string `json:"heroSubtitle_pt" firestore:"heroSubtitle_pt"`
	AboutTitleEN   string `json:"aboutTitle_en" firestore:"aboutTitle_en"`
	AboutTitlePT   string `json:"aboutTitle_pt" firestore:"aboutTitle_pt"`
	AboutContentEN string `json:"aboutContent_en" firestore:"aboutContent_en"`
	AboutContentPT string `json:"aboutContent_pt" firestore:"aboutContent_pt"`
	HeroImageURL   string `json:"heroImageUrl" firestore:"heroImageUrl"`
	AboutImageURL  string `json:"aboutImageUrl" firestore:"aboutImageUrl"`
}

func (s SiteContent) HeroTitle(locale Locale) string {
	return pick(locale, s.HeroTitleEN, s.HeroTitlePT)
}

func (s SiteContent) HeroSubtitle(locale Locale) string {
	return pick(locale, s.HeroSubtitleEN, s.HeroSubtitlePT)
}

func (s SiteContent) AboutTitle(locale Locale) string {
	return pick(locale, s.AboutTitleEN, s.AboutTitlePT)
}

func (s SiteContent) AboutContent(locale Locale) string {
	return pick(locale, s.AboutContentEN, s.AboutContentPT)
}
