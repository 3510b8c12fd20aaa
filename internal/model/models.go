package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Listing{},
		&ListingImage{},
		&Message{},
		&SiteReview{},
		&Notification{},
	}
}
