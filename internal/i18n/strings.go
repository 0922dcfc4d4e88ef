// Package i18n holds the static copy of the public site in each supported
// locale. It is also the fallback for home page texts an admin has not set.
package i18n

import "github.com/zachrizzo/hens-travel/internal/domain"

type Strings struct {
	Nav struct {
		Home, About, Services, Book string
	}
	Hero struct {
		Title, Subtitle, CTA string
	}
	About struct {
		Title, Content string
	}
	Services struct {
		Title string
	}
	Booking struct {
		Title, Name, Email, Date, Message, Submit, Tour string
		Duration, GroupSize, Price                 string
	}
	Footer struct {
		Rights string
	}
	TourDescriptionFallback string
	LoadingTours            string
	LoadingContent          string
	NoTours                 string
	LanguageName            string
}

const PlaceholderImage = "/static/placeholder.svg"

var catalog = map[domain.Locale]Strings{
	domain.LocaleEN: english(),
	domain.LocalePT: portuguese(),
}

// For returns the strings of locale, falling back to English.
func For(locale domain.Locale) Strings {
	if s, ok := catalog[locale]; ok {
		return s
	}
	return catalog[domain.LocaleEN]
}

func english() Strings {
	var s Strings
	s.Nav.Home, s.Nav.About, s.Nav.Services, s.Nav.Book = "Home", "About", "Services", "Book Now"
	s.Hero.Title = "Discover Paris with a Local Expert"
	s.Hero.Subtitle = "Unforgettable tours in the City of Light"
	s.Hero.CTA = "Book Your Tour"
	s.About.Title = "About Your Guide"
	s.About.Content = "Hello! I'm Sophie, your personal guide to the wonders of Paris. With over 10 years of experience, I'm passionate about sharing the city's rich history, hidden gems, and vibrant culture with visitors from around the world."
	s.Services.Title = "Our Tours"
	s.Booking.Title = "Book Your Parisian Adventure"
	s.Booking.Name = "Your Name"
	s.Booking.Email = "Your Email"
	s.Booking.Date = "Select Date"
	s.Booking.Message = "Special Requests"
	s.Booking.Submit = "Book Now"
	s.Booking.Tour = "Tour"
	s.Booking.Duration = "Duration"
	s.Booking.GroupSize = "Group Size"
	s.Booking.Price = "Price"
	s.Footer.Rights = "All rights reserved"
	s.TourDescriptionFallback = "Experience the magic of Paris with our expert-guided tour."
	s.LoadingTours = "Loading tours..."
	s.LoadingContent = "Loading..."
	s.NoTours = "No tours available yet."
	s.LanguageName = "English"
	return s
}

func portuguese() Strings {
	var s Strings
	s.Nav.Home, s.Nav.About, s.Nav.Services, s.Nav.Book = "Início", "Sobre", "Serviços", "Reserve Agora"
	s.Hero.Title = "Descubra Paris com um Especialista Local"
	s.Hero.Subtitle = "Tours inesquecíveis na Cidade Luz"
	s.Hero.CTA = "Reserve Seu Tour"
	s.About.Title = "Sobre Seu Guia"
	s.About.Content = "Olá! Eu sou Sophie, sua guia pessoal para as maravilhas de Paris. Com mais de 10 anos de experiência, sou apaixonada por compartilhar a rica história da cidade, suas joias escondidas e cultura vibrante com visitantes de todo o mundo."
	s.Services.Title = "Nossos Tours"
	s.Booking.Title = "Reserve Sua Aventura Parisiense"
	s.Booking.Name = "Seu Nome"
	s.Booking.Email = "Seu Email"
	s.Booking.Date = "Selecione a Data"
	s.Booking.Message = "Pedidos Especiais"
	s.Booking.Submit = "Reserve Agora"
	s.Booking.Tour = "Tour"
	s.Booking.Duration = "Duração"
	s.Booking.GroupSize = "Tamanho do Grupo"
	s.Booking.Price = "Preço"
	s.Footer.Rights = "Todos os direitos reservados"
	s.TourDescriptionFallback = "Viva a magia de Paris com o nosso tour guiado por especialistas."
	s.LoadingTours = "Carregando tours..."
	s.LoadingContent = "Carregando..."
	s.NoTours = "Ainda não há tours disponíveis."
	s.LanguageName = "Português"
	return s
}
