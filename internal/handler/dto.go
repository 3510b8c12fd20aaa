package handler

import (
	"time"

	"github.com/tindaph/tinda-backend/internal/chat"
	"github.com/tindaph/tinda-backend/internal/model"
)

type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Region     string `json:"region"`
	Province   string `json:"province"`
	City       string `json:"city"`
	IsVerified bool   `json:"isVerified"`
	JoinedAt   string `json:"joinedAt"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		Region:     u.Location.Region,
		Province:   u.Location.Province,
		City:       u.Location.City,
		IsVerified: u.IsVerified,
		JoinedAt:   u.JoinedAt.Format(time.RFC3339),
	}
}

// PublicUserResponse leaves out the email address.
type PublicUserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Region     string `json:"region"`
	Province   string `json:"province"`
	City       string `json:"city"`
	IsVerified bool   `json:"isVerified"`
	JoinedAt   string `json:"joinedAt"`
}

func toPublicUserResponse(u *model.User) PublicUserResponse {
	return PublicUserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Role:       string(u.Role),
		Region:     u.Location.Region,
		Province:   u.Location.Province,
		City:       u.Location.City,
		IsVerified: u.IsVerified,
		JoinedAt:   u.JoinedAt.Format(time.RFC3339),
	}
}

type ListingResponse struct {
	ID          string   `json:"id"`
	SellerID    string   `json:"sellerId"`
	SellerName  string   `json:"sellerName,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Region      string   `json:"region"`
	Province    string   `json:"province"`
	City        string   `json:"city"`
	Status      string   `json:"status"`
	Views       int64    `json:"views"`
	Likes       int64    `json:"likes"`
	Images      []string `json:"images"`
	CreatedAt   string   `json:"createdAt"`
}

func toListingResponse(l *model.Listing) ListingResponse {
	resp := ListingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price.StringFixed(2),
		Category:    l.Category,
		Condition:   l.Condition,
		Region:      l.Location.Region,
		Province:    l.Location.Province,
		City:        l.Location.City,
		Status:      string(l.Status),
		Views:       l.Views,
		Likes:       l.Likes,
		Images:      l.ImageURLs(),
		CreatedAt:   l.CreatedAt.Format(time.RFC3339),
	}
	if l.Seller != nil {
		resp.SellerName = l.Seller.Name
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	return resp
}

func toListingResponses(list []model.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(list))
	for i := range list {
		out = append(out, toListingResponse(&list[i]))
	}
	return out
}

type MessageResponse struct {
	ID          uint64 `json:"id"`
	SenderID    string `json:"senderId"`
	RecipientID string `json:"recipientId"`
	ListingID   string `json:"listingId"`
	Body        string `json:"body"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"createdAt"`
}

func toMessageResponse(m *model.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		ListingID:   m.ListingID,
		Body:        m.Body,
		Read:        m.Read,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
}

type ThreadResponse struct {
	ListingID     string             `json:"listingId"`
	CounterpartID string             `json:"counterpartId"`
	Listing       ListingResponse    `json:"listing"`
	Counterpart   PublicUserResponse `json:"counterpart"`
	Messages      []MessageResponse  `json:"messages"`
	LastMessage   MessageResponse    `json:"lastMessage"`
	UnreadCount   int                `json:"unreadCount"`
}

func toThreadResponse(t *chat.Thread) ThreadResponse {
	msgs := make([]MessageResponse, 0, len(t.Messages))
	for i := range t.Messages {
		msgs = append(msgs, toMessageResponse(&t.Messages[i]))
	}
	return ThreadResponse{
		ListingID:     t.Key.ListingID,
		CounterpartID: t.Key.CounterpartID,
		Listing:       toListingResponse(&t.Listing),
		Counterpart:   toPublicUserResponse(&t.Counterpart),
		Messages:      msgs,
		LastMessage:   toMessageResponse(&t.LastMessage),
		UnreadCount:   t.UnreadCount,
	}
}

type ReviewResponse struct {
	ID        uint64 `json:"id"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserCity  string `json:"userCity"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}
