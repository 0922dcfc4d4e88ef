package domain

import "fmt"

// Tour is a bookable listing. Writes replace the whole document.
type Tour struct {
	ID            string  `json:"id,omitempty" firestore:"-"`
	NameEN        string  `json:"name_en" firestore:"name_en"`
	NamePT        string  `json:"name_pt" firestore:"name_pt"`
	DescriptionEN string  `json:"description_en" firestore:"description_en"`
	DescriptionPT string  `json:"description_pt" firestore:"description_pt"`
	Duration      string  `json:"duration" firestore:"duration"`
	GroupSize     string  `json:"groupSize" firestore:"groupSize"`
	Price         float64 `json:"price" firestore:"price"`
	ImageURL      string  `json:"imageUrl" firestore:"imageUrl"`
}

func (t Tour) Name(locale Locale) string {
	return pick(locale, t.NameEN, t.NamePT)
}

// Description returns the localized description or "" when unset.
func (t Tour) Description(locale Locale) string {
	return pick(locale, t.DescriptionEN, t.DescriptionPT)
}

func (t Tour) FormattedPrice() string {
	return fmt.Sprintf("%.2f", t.Price)
}

func FindTour(tours []Tour, id string) (Tour, bool) {
	for _, t := range tours {
		if t.ID == id {
			return t, true
		}
	}
	return Tour{}, false
}
