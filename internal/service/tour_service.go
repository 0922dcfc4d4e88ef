package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/metrics"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

// TourForm is the admin form as typed. Price stays a string until submit.
type TourForm struct {
	NameEN        string `json:"name_en" form:"name_en"`
	NamePT        string `json:"name_pt" form:"name_pt"`
	DescriptionEN string `json:"description_en" form:"description_en"`
	DescriptionPT string `json:"description_pt" form:"description_pt"`
	Duration      string `json:"duration" form:"duration"`
	GroupSize     string `json:"groupSize" form:"groupSize"`
	Price         string `json:"price" form:"price"`
	ImageURL      string `json:"imageUrl" form:"imageUrl"`
}

// TourFormFrom seeds the form with every stored field so that saving an
// untouched form writes the record back unchanged.
func TourFormFrom(t domain.Tour) TourForm {
	return TourForm{
		NameEN:        t.NameEN,
		NamePT:        t.NamePT,
		DescriptionEN: t.DescriptionEN,
		DescriptionPT: t.DescriptionPT,
		Duration:      t.Duration,
		GroupSize:     t.GroupSize,
		Price:         strconv.FormatFloat(t.Price, 'f', -1, 64),
		ImageURL:      t.ImageURL,
	}
}

// ToTour validates the form and coerces the price.
func (f TourForm) ToTour() (domain.Tour, error) {
	var problems []string
	required := []struct{ name, value string }{
		{"name_en", f.NameEN},
		{"name_pt", f.NamePT},
		{"duration", f.Duration},
		{"groupSize", f.GroupSize},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			problems = append(problems, r.name+" is required")
		}
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	switch {
	case strings.TrimSpace(f.Price) == "":
		problems = append(problems, "price is required")
	case err != nil:
		problems = append(problems, "price must be a number")
	case price < 0:
		problems = append(problems, "price must not be negative")
	}
	if err := validationErr(problems); err != nil {
		return domain.Tour{}, err
	}
	return domain.Tour{
		NameEN:        f.NameEN,
		NamePT:        f.NamePT,
		DescriptionEN: f.DescriptionEN,
		DescriptionPT: f.DescriptionPT,
		Duration:      f.Duration,
		GroupSize:     f.GroupSize,
		Price:         price,
		ImageURL:      strings.TrimSpace(f.ImageURL),
	}, nil
}

type DeleteResult struct {
	ImageRemoved bool `json:"imageRemoved"`
	// OrphanedImageURL is set when the record was deleted but its image
	// could not be.
	OrphanedImageURL string `json:"orphanedImageUrl,omitempty"`
}

type TourService struct {
	tours  ports.RecordStore[domain.Tour]
	media  *MediaGateway
	cache  readCache
	logger zerolog.Logger
}

func NewTourService(tours ports.RecordStore[domain.Tour], media *MediaGateway, cache ports.Cache, logger zerolog.Logger) *TourService {
	return &TourService{
		tours:  tours,
		media:  media,
		cache:  readCache{cache: cache, logger: logger},
		logger: logger,
	}
}

func (s *TourService) List(ctx context.Context) ([]domain.Tour, error) {
	records, err := s.tours.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list tours", err)
	}
	tours := make([]domain.Tour, 0, len(records))
	for _, r := range records {
		t := r.Data
		t.ID = r.ID
		tours = append(tours, t)
	}
	return tours, nil
}

func (s *TourService) Get(ctx context.Context, id string) (*domain.Tour, error) {
	tour, err := s.tours.Get(ctx, id)
	if err != nil {
		return nil, storeErr("get tour", err)
	}
	tour.ID = id
	return tour, nil
}

// Save creates the tour when id is empty and otherwise replaces it. A new
// image, if given, is uploaded first and overrides the form's imageUrl. An
// uploaded image is not removed again when the write fails.
func (s *TourService) Save(ctx context.Context, id string, form TourForm, image *ImageUpload) (*domain.Tour, error) {
	tour, err := form.ToTour()
	if err != nil {
		return nil, err
	}
	if image != nil {
		if s.media == nil {
			return nil, mediaErr("upload", errors.New("object storage not configured"))
		}
		url, err := s.media.Upload(ctx, PrefixTours, *image)
		if err != nil {
			return nil, err
		}
		tour.ImageURL = url
	}

	if id != "" {
		if err := s.tours.Update(ctx, id, tour); err != nil {
			return nil, storeErr("update tour", err)
		}
		tour.ID = id
	} else {
		newID, err := s.tours.Create(ctx, tour)
		if err != nil {
			return nil, storeErr("create tour", err)
		}
		tour.ID = newID
	}
	s.cache.invalidate(ctx, CacheKeyTours)
	return &tour, nil
}

// Delete removes the tour's image, then the record. The record is deleted
// even when the image removal fails; the image is then reported as orphaned.
func (s *TourService) Delete(ctx context.Context, tour domain.Tour) (DeleteResult, error) {
	result := DeleteResult{ImageRemoved: tour.ImageURL == ""}
	if tour.ImageURL != "" {
		err := mediaErr("remove", errors.New("object storage not configured"))
		if s.media != nil {
			err = s.media.Remove(ctx, tour.ImageURL)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("tour_id", tour.ID).Str("image_url", tour.ImageURL).Msg("tour image not removed")
			result.OrphanedImageURL = tour.ImageURL
		} else {
			result.ImageRemoved = true
		}
	}

	if err := s.tours.Delete(ctx, tour.ID); err != nil {
		return DeleteResult{}, storeErr("delete tour", err)
	}
	if result.OrphanedImageURL != "" {
		metrics.ObserveOrphan()
	}
	s.cache.invalidate(ctx, CacheKeyTours)
	return result, nil
}

// DeleteByID loads the tour to find its image. Deleting an unknown id
// succeeds.
func (s *TourService) DeleteByID(ctx context.Context, id string) (DeleteResult, error) {
	tour, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return DeleteResult{ImageRemoved: true}, nil
		}
		return DeleteResult{}, err
	}
	return s.Delete(ctx, *tour)
}
