package domain

import "time"

// Booking is a tour request submitted from the public site. Bookings are
// never updated after creation.
//
// TourName is a snapshot of the tour's name in the requester's locale at
// submission time. It is not kept in sync with later tour renames, and
// TourID is not re-validated once stored, so a booking may outlive its tour.
type Booking struct {
	ID        string     `json:"id,omitempty" firestore:"-"`
	Name      string     `json:"name" firestore:"name"`
	Email     string     `json:"email" firestore:"email"`
	Message   string     `json:"message" firestore:"message"`
	TourID    string     `json:"tourId" firestore:"tourId"`
	TourName  string     `json:"tourName" firestore:"tourName"`
	Date      *time.Time `json:"date" firestore:"date"`
	CreatedAt time.Time  `json:"createdAt" firestore:"createdAt"`
}
