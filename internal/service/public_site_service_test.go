package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/i18n"
	"github.com/zachrizzo/hens-travel/internal/repository/memory"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
	"github.com/zachrizzo/hens-travel/internal/repository/rediscache"
)

type publicFixture struct {
	tours    *flakyStore[domain.Tour]
	content  *flakyStore[domain.SiteContent]
	bookings *memory.Store[domain.Booking]
	tourSvc  *TourService
	siteSvc  *SiteContentService
	booking  *BookingService
	public   *PublicSiteService
}

func newPublicFixture(cache ports.Cache, notifiers ...ports.BookingNotifier) *publicFixture {
	f := &publicFixture{
		tours:    newFlakyStore[domain.Tour](),
		content:  newFlakyStore[domain.SiteContent](),
		bookings: memory.NewStore[domain.Booking](),
	}
	f.tourSvc = NewTourService(f.tours, nil, cache, zerolog.Nop())
	f.siteSvc = NewSiteContentService(f.content, nil, cache, zerolog.Nop())
	f.booking = NewBookingService(f.bookings, zerolog.Nop(), notifiers...)
	f.public = NewPublicSiteService(f.tourSvc, f.siteSvc, f.booking, cache, PublicSiteConfig{}, zerolog.Nop())
	f.public.SetClock(fixedClock)
	return f
}

func TestPublicSite_LoadFallsBackToBundledCopy(t *testing.T) {
	ctx := context.Background()
	f := newPublicFixture(nil)
	_ = f.content.Store.Upsert(ctx, domain.SiteContentID, domain.SiteContent{HeroTitleEN: "Paris, your way"})
	_, _ = f.tours.Store.Create(ctx, domain.Tour{NameEN: "City Walk", NamePT: "Passeio", Price: 49.5})

	en := f.public.Load(ctx, domain.LocaleEN)
	if en.HeroTitle != "Paris, your way" {
		t.Fatalf("expected stored hero title, got %q", en.HeroTitle)
	}
	if en.HeroSubtitle != i18n.For(domain.LocaleEN).Hero.Subtitle {
		t.Fatalf("expected bundled subtitle, got %q", en.HeroSubtitle)
	}
	if en.HeroImageURL != i18n.PlaceholderImage || en.AboutImageURL != i18n.PlaceholderImage {
		t.Fatalf("expected placeholder images")
	}

	pt := f.public.Load(ctx, domain.LocalePT)
	if pt.HeroTitle != i18n.For(domain.LocalePT).Hero.Title {
		t.Fatalf("expected Portuguese fallback for unset locale field, got %q", pt.HeroTitle)
	}
	if len(pt.Cards) != 1 || pt.Cards[0].Name != "Passeio" || pt.Cards[0].Price != "49.50" {
		t.Fatalf("unexpected Portuguese cards %+v", pt.Cards)
	}
	if pt.Cards[0].Description != i18n.For(domain.LocalePT).TourDescriptionFallback {
		t.Fatalf("expected fallback description, got %q", pt.Cards[0].Description)
	}
}

func TestPublicSite_SectionsFailIndependently(t *testing.T) {
	ctx := context.Background()
	f := newPublicFixture(nil)
	_, _ = f.tours.Store.Create(ctx, domain.Tour{NameEN: "City Walk"})
	f.content.getErr = errBackend

	page := f.public.Load(ctx, domain.LocaleEN)
	if page.ContentState.Error != "Failed to load home content." {
		t.Fatalf("expected content error, got %+v", page.ContentState)
	}
	if page.ToursState.Error != "" || len(page.Cards) != 1 {
		t.Fatalf("expected tours to render despite content failure, got %+v", page)
	}
	if page.HeroTitle != i18n.For(domain.LocaleEN).Hero.Title {
		t.Fatalf("expected bundled hero title, got %q", page.HeroTitle)
	}

	f.content.getErr = nil
	f.tours.listErr = errBackend
	page = f.public.Load(ctx, domain.LocaleEN)
	if page.ToursState.Error != "Failed to load tours." || len(page.Cards) != 0 {
		t.Fatalf("expected tours error, got %+v", page.ToursState)
	}
	if page.ContentState.Error != "" {
		t.Fatalf("expected content to load, got %+v", page.ContentState)
	}
}

type slowTourStore struct {
	*memory.Store[domain.Tour]
}

func (s slowTourStore) ListAll(ctx context.Context) ([]ports.Record[domain.Tour], error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestPublicSite_SlowSectionStaysLoading(t *testing.T) {
	tourSvc := NewTourService(slowTourStore{memory.NewStore[domain.Tour]()}, nil, nil, zerolog.Nop())
	siteSvc := NewSiteContentService(memory.NewStore[domain.SiteContent](), nil, nil, zerolog.Nop())
	public := NewPublicSiteService(tourSvc, siteSvc, nil, nil, PublicSiteConfig{SectionTimeout: 20 * time.Millisecond}, zerolog.Nop())

	page := public.Load(context.Background(), domain.LocaleEN)
	if !page.ToursState.Loading || page.ToursState.Error != "" {
		t.Fatalf("expected tours still loading, got %+v", page.ToursState)
	}
	if page.ContentState.Loading {
		t.Fatalf("expected content section to finish")
	}
}

func TestPublicSite_BookingScenario(t *testing.T) {
	ctx := context.Background()
	notifier := &recordingNotifier{}
	f := newPublicFixture(nil, notifier)
	tours := []domain.Tour{{ID: "T1", NameEN: "City Walk", NamePT: "Passeio"}}

	booking, err := f.public.SubmitBooking(ctx, tours, domain.LocaleEN, BookingForm{
		TourID: "T1",
		Name:   "Ana",
		Email:  "ana@example.com",
		Date:   "2024-06-01",
	})
	if err != nil {
		t.Fatalf("SubmitBooking returned error: %v", err)
	}
	if booking.TourName != "City Walk" {
		t.Fatalf("expected tourName City Walk, got %q", booking.TourName)
	}
	wantDate := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if booking.Date == nil || !booking.Date.Equal(wantDate) || booking.Date.Location() != time.UTC {
		t.Fatalf("expected date %v, got %v", wantDate, booking.Date)
	}
	if !booking.CreatedAt.Equal(testNow) {
		t.Fatalf("expected createdAt %v, got %v", testNow, booking.CreatedAt)
	}

	stored, err := f.bookings.Get(ctx, booking.ID)
	if err != nil {
		t.Fatalf("stored booking missing: %v", err)
	}
	if stored.TourID != "T1" || stored.TourName != "City Walk" {
		t.Fatalf("unexpected stored booking %+v", stored)
	}
	if err := f.booking.Wait(ctx); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if len(notifier.bookings) != 1 {
		t.Fatalf("expected notifier call")
	}

	pt, err := f.public.SubmitBooking(ctx, tours, domain.LocalePT, BookingForm{TourID: "T1", Name: "Bia", Email: "bia@example.com"})
	if err != nil {
		t.Fatalf("SubmitBooking returned error: %v", err)
	}
	if pt.TourName != "Passeio" || pt.Date != nil {
		t.Fatalf("expected Portuguese snapshot without date, got %+v", pt)
	}
}

func TestPublicSite_BookingRejectsUnknownTourAndBadInput(t *testing.T) {
	ctx := context.Background()
	f := newPublicFixture(nil)
	tours := []domain.Tour{{ID: "T1", NameEN: "City Walk"}}

	_, err := f.public.SubmitBooking(ctx, tours, domain.LocaleEN, BookingForm{TourID: "T9", Name: "Ana", Email: "ana@example.com"})
	if !errors.Is(err, ErrTourNotFound) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrTourNotFound, got %v", err)
	}

	_, err = f.public.SubmitBooking(ctx, tours, domain.LocaleEN, BookingForm{TourID: "T1", Email: "not-an-email", Date: "01/06/2024"})
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Problems) != 3 {
		t.Fatalf("expected three problems, got %v", err)
	}
	if f.bookings.Len() != 0 {
		t.Fatalf("expected no booking stored")
	}
}

func TestPublicSite_AdminWritesInvalidateCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := rediscache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	f := newPublicFixture(cache)

	if _, err := f.tourSvc.Save(ctx, "", cityWalkForm(), nil); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	page := f.public.Load(ctx, domain.LocaleEN)
	if len(page.Cards) != 1 {
		t.Fatalf("expected one card, got %d", len(page.Cards))
	}

	// A write behind the service's back is hidden by the cache...
	_, _ = f.tours.Store.Create(ctx, domain.Tour{NameEN: "Louvre"})
	if page = f.public.Load(ctx, domain.LocaleEN); len(page.Cards) != 1 {
		t.Fatalf("expected cached tour list, got %d cards", len(page.Cards))
	}

	// ...while an admin save clears it.
	form := cityWalkForm()
	form.NameEN = "Montmartre"
	if _, err := f.tourSvc.Save(ctx, "", form, nil); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if page = f.public.Load(ctx, domain.LocaleEN); len(page.Cards) != 3 {
		t.Fatalf("expected fresh tour list after invalidation, got %d cards", len(page.Cards))
	}

	if _, err := f.siteSvc.Save(ctx, SiteContentForm{HeroTitleEN: "Cached?"}, nil, nil); err != nil {
		t.Fatalf("site Save returned error: %v", err)
	}
	if page = f.public.Load(ctx, domain.LocaleEN); page.HeroTitle != "Cached?" {
		t.Fatalf("expected site content invalidated, got %q", page.HeroTitle)
	}
}
