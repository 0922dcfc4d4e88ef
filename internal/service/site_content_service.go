package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/zachrizzo/hens-travel/internal/domain"
	"github.com/zachrizzo/hens-travel/internal/repository/ports"
)

// SiteContentForm mirrors domain.SiteContent. The image URLs carry the
// stored values so that saving without new files keeps them.
type SiteContentForm struct {
	HeroTitleEN    string `json:"heroTitle_en" form:"heroTitle_en"`
	HeroTitlePT    string `json:"heroTitle_pt" form:"heroTitle_pt"`
	HeroSubtitleEN string `json:"heroSubtitle_en" form:"heroSubtitle_en"`
	HeroSubtitlePT string `json:"heroSubtitle_pt" form:"heroSubtitle_pt"`
	AboutTitleEN   string `json:"aboutTitle_en" form:"aboutTitle_en"`
	AboutTitlePT   string `json:"aboutTitle_pt" form:"aboutTitle_pt"`
	AboutContentEN string `json:"aboutContent_en" form:"aboutContent_en"`
	AboutContentPT string `json:"aboutContent_pt" form:"aboutContent_pt"`
	HeroImageURL   string `json:"heroImageUrl" form:"heroImageUrl"`
	AboutImageURL  string `json:"aboutImageUrl" form:"aboutImageUrl"`
}

func SiteContentFormFrom(c domain.SiteContent) SiteContentForm {
	return SiteContentForm(c)
}

func (f SiteContentForm) toContent() domain.SiteContent {
	return domain.SiteContent(f)
}

type SiteContentService struct {
	content ports.RecordStore[domain.SiteContent]
	media   *MediaGateway
	cache   readCache
}

func NewSiteContentService(content ports.RecordStore[domain.SiteContent], media *MediaGateway, cache ports.Cache, logger zerolog.Logger) *SiteContentService {
	return &SiteContentService{
		content: content,
		media:   media,
		cache:   readCache{cache: cache, logger: logger},
	}
}

// Get returns the home page content and whether it has been saved yet.
func (s *SiteContentService) Get(ctx context.Context) (*domain.SiteContent, bool, error) {
	content, err := s.content.Get(ctx, domain.SiteContentID)
	if err != nil {
		if errors.Is(err, ports.ErrRecordNotFound) {
			return &domain.SiteContent{}, false, nil
		}
		return nil, false, storeErr("get site content", err)
	}
	return content, true, nil
}

// Save uploads whichever of hero and about was given, then overwrites the
// singleton with the current URLs.
func (s *SiteContentService) Save(ctx context.Context, form SiteContentForm, hero, about *ImageUpload) (*domain.SiteContent, error) {
	content := form.toContent()
	uploads := []struct {
		file   *ImageUpload
		prefix string
		dst    *string
	}{
		{hero, PrefixHomeHero, &content.HeroImageURL},
		{about, PrefixHomeAbout, &content.AboutImageURL},
	}
	for _, u := range uploads {
		if u.file == nil {
			continue
		}
		if s.media == nil {
			return nil, mediaErr("upload", errors.New("object storage not configured"))
		}
		url, err := s.media.Upload(ctx, u.prefix, *u.file)
		if err != nil {
			return nil, err
		}
		*u.dst = url
	}

	if err := s.content.Upsert(ctx, domain.SiteContentID, content); err != nil {
		return nil, storeErr("save site content", err)
	}
	s.cache.invalidate(ctx, CacheKeySiteContent)
	return &content, nil
}
