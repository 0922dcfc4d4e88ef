package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/i18n"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

const (
	MsgToursLoadFailed   = "Failed to load tours."
	MsgContentLoadFailed = "Failed to load home content."
	MsgBookingSucceeded  = "Booking successful!"
	MsgBookingFailed     = "Failed to book. Please try again."

	bookingDateLayout = "2006-01-02"
)

// SectionState is the load state of one independently fetched part of the
// public page. A section that has not answered yet is still Loading.
type SectionState struct {
	Loading bool
	Error   string
}

type TourCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	GroupSize   string `json:"groupSize"`
	Price       string `json:"price"`
	ImageURL    string `json:"imageUrl"`
}

type PublicPage struct {
	Locale  domain.Locale
	Strings i18n.Strings

	HeroTitle     string
	HeroSubtitle  string
	AboutTitle    string
	AboutContent  string
	HeroImageURL  string
	AboutImageURL string

	Tours        []domain.Tour
	Cards        []TourCard
	ToursState   SectionState
	ContentState SectionState
}

type BookingForm struct {
	TourID  string `json:"tourId" form:"tourId"`
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
	// Date is YYYY-MM-DD or empty.
	Date string `json:"date" form:"date"`
}

type PublicSiteConfig struct {
	CacheTTL time.Duration
	// SectionTimeout bounds each section fetch; zero waits for the store.
	SectionTimeout time.Duration
}

type PublicSiteService struct {
	tours    *TourService
	content  *SiteContentService
	bookings *BookingService
	cache    readCache
	timeout  time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

func NewPublicSiteService(tours *TourService, content *SiteContentService, bookings *BookingService, cache ports.Cache, cfg PublicSiteConfig, logger zerolog.Logger) *PublicSiteService {
	return &PublicSiteService{
		tours:    tours,
		content:  content,
		bookings: bookings,
		cache:    readCache{cache: cache, ttl: cfg.CacheTTL, logger: logger},
		timeout:  cfg.SectionTimeout,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *PublicSiteService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

type cachedContent struct {
	Content domain.SiteContent `json:"content"`
	Exists  bool               `json:"exists"`
}

// Load fetches tours and home content concurrently. Either section may fail
// or lag without affecting the other.
func (s *PublicSiteService) Load(ctx context.Context, locale domain.Locale) PublicPage {
	var (
		g          errgroup.Group
		tours      []domain.Tour
		content    cachedContent
		toursState SectionState
		textState  SectionState
	)

	g.Go(func() error {
		toursState = s.section(ctx, "tours", MsgToursLoadFailed, func(ctx context.Context) error {
			return s.cache.load(ctx, CacheKeyTours, &tours, func() error {
				var err error
				tours, err = s.tours.List(ctx)
				return err
			})
		})
		return nil
	})
	g.Go(func() error {
		textState = s.section(ctx, "site content", MsgContentLoadFailed, func(ctx context.Context) error {
			return s.cache.load(ctx, CacheKeySiteContent, &content, func() error {
				c, exists, err := s.content.Get(ctx)
				if err != nil {
					return err
				}
				content = cachedContent{Content: *c, Exists: exists}
				return nil
			})
		})
		return nil
	})
	_ = g.Wait()

	if toursState.Loading || toursState.Error != "" {
		tours = nil
	}
	if textState.Loading || textState.Error != "" {
		content = cachedContent{}
	}
	page := Localize(locale, tours, content.Content)
	page.ToursState = toursState
	page.ContentState = textState
	return page
}

func (s *PublicSiteService) section(ctx context.Context, name, failure string, fetch func(context.Context) error) SectionState {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	err := fetch(ctx)
	switch {
	case err == nil:
		return SectionState{}
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Warn().Err(err).Str("section", name).Msg("public section still loading")
		return SectionState{Loading: true}
	default:
		s.logger.Error().Err(err).Str("section", name).Msg("public section failed")
		return SectionState{Error: failure}
	}
}

// Localize renders stored records in locale. Unset texts fall back to the
// bundled copy, missing images to the placeholder.
func Localize(locale domain.Locale, tours []domain.Tour, content domain.SiteContent) PublicPage {
	str := i18n.For(locale)
	page := PublicPage{
		Locale:        locale,
		Strings:       str,
		HeroTitle:     firstNonEmpty(content.HeroTitle(locale), str.Hero.Title),
		HeroSubtitle:  firstNonEmpty(content.HeroSubtitle(locale), str.Hero.Subtitle),
		AboutTitle:    firstNonEmpty(content.AboutTitle(locale), str.About.Title),
		AboutContent:  firstNonEmpty(content.AboutContent(locale), str.About.Content),
		HeroImageURL:  firstNonEmpty(content.HeroImageURL, i18n.PlaceholderImage),
		AboutImageURL: firstNonEmpty(content.AboutImageURL, i18n.PlaceholderImage),
		Tours:         tours,
	}
	page.Cards = make([]TourCard, 0, len(tours))
	for _, t := range tours {
		page.Cards = append(page.Cards, TourCard{
			ID:          t.ID,
			Name:        t.Name(locale),
			Description: firstNonEmpty(t.Description(locale), str.TourDescriptionFallback),
			Duration:    t.Duration,
			GroupSize:   t.GroupSize,
			Price:       t.FormattedPrice(),
			ImageURL:    firstNonEmpty(t.ImageURL, i18n.PlaceholderImage),
		})
	}
	return page
}

// SubmitBooking books a tour from the list the visitor was shown. The list
// is not refreshed: an id missing from it fails with ErrTourNotFound.
func (s *PublicSiteService) SubmitBooking(ctx context.Context, tours []domain.Tour, locale domain.Locale, form BookingForm) (*domain.Booking, error) {
	var problems []string
	name := strings.TrimSpace(form.Name)
	if name == "" {
		problems = append(problems, "name is required")
	}
	email := strings.TrimSpace(form.Email)
	if email == "" {
		problems = append(problems, "email is required")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		problems = append(problems, "email is invalid")
	}
	var date *time.Time
	if raw := strings.TrimSpace(form.Date); raw != "" {
		d, err := time.ParseInLocation(bookingDateLayout, raw, time.UTC)
		if err != nil {
			problems = append(problems, "date must be YYYY-MM-DD")
		} else {
			date = &d
		}
	}
	if err := validationErr(problems); err != nil {
		return nil, err
	}

	tour, ok := domain.FindTour(tours, form.TourID)
	if !ok {
		return nil, ErrTourNotFound
	}

	return s.bookings.Create(ctx, domain.Booking{
		Name:      name,
		Email:     email,
		Message:   strings.TrimSpace(form.Message),
		TourID:    tour.ID,
		TourName:  tour.Name(locale),
		Date:      date,
		CreatedAt: s.now().UTC(),
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
