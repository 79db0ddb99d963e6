package models

import "time"

// Service is one bookable offering in a provider's catalogue.
type Service struct {
	Name     string  `bson:"name" json:"name"`
	Price    float64 `bson:"price" json:"price"`
	Duration int     `bson:"duration" json:"duration"` // minutes
}

// Provider is a marketplace provider profile, owned 1:1 by a user.
type Provider struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	DisplayName string    `bson:"displayName" json:"displayName"`
	Tagline     string    `bson:"tagline,omitempty" json:"tagline,omitempty"`
	Bio         string    `bson:"bio,omitempty" json:"bio,omitempty"`
	HourlyRate  float64   `bson:"hourlyRate" json:"hourlyRate"`
	Currency    string    `bson:"currency" json:"currency"`
	Services    []Service `bson:"services" json:"services"`

	// CommissionRate is the platform's cut as a fraction in [0,1].
	CommissionRate float64 `bson:"commissionRate" json:"commissionRate"`

	CompletedBookings  int  `bson:"completedBookings" json:"completedBookings"`
	IsActive           bool `bson:"isActive" json:"isActive"`
	IsVerified         bool `bson:"isVerified" json:"isVerified"`
	PayoutOnboarded    bool `bson:"payoutOnboarded" json:"payoutOnboarded"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ServiceByName looks up a catalogue entry by its name.
func (p *Provider) ServiceByName(name string) (Service, bool) {
	for _, s := range p.Services {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}
