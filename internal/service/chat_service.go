package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tindaph/tinda-backend/internal/chat"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
)

const MaxMessageLength = 2000

type SendMessageInput struct {
	ToUserID  string
	ListingID string
	Body      string
}

type ChatService interface {
	SendMessage(ctx context.Context, sess *model.Session, in SendMessageInput) (*model.Message, error)
	ContactSeller(ctx context.Context, sess *model.Session, listingID string) (*model.Message, error)
	Threads(ctx context.Context, sess *model.Session) ([]chat.Thread, error)
	MarkThreadRead(ctx context.Context, sess *model.Session, key chat.ThreadKey) (int64, error)
}

type chatService struct {
	messages repository.MessageRepository
	listings repository.ListingRepository
	users    repository.UserRepository
	notify   NotificationService
}

func NewChatService(messages repository.MessageRepository, listings repository.ListingRepository, users repository.UserRepository, notify NotificationService) ChatService {
	return &chatService{messages: messages, listings: listings, users: users, notify: notify}
}

// SendMessage stores a message about a listing. One of the two participants
// has to be the listing's seller.
func (s *chatService) SendMessage(ctx context.Context, sess *model.Session, in SendMessageInput) (*model.Message, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, invalid("body", "message body is required")
	}
	if len(body) > MaxMessageLength {
		return nil, invalid("body", fmt.Sprintf("message is longer than %d characters", MaxMessageLength))
	}
	if in.ToUserID == "" || in.ListingID == "" {
		return nil, invalid("recipient", "recipient and listing are required")
	}
	if in.ToUserID == sess.UserID {
		return nil, invalid("recipient", "cannot message yourself")
	}

	listing, err := s.listings.FindByID(ctx, in.ListingID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if !canSee(sess, listing) {
		return nil, ErrNotFound
	}
	if listing.SellerID != sess.UserID && listing.SellerID != in.ToUserID {
		return nil, invalid("recipient", "messages must be between the seller and a buyer of the listing")
	}
	if _, err := s.users.FindByID(ctx, in.ToUserID); err != nil {
		return nil, notFoundOr(err)
	}

	m := &model.Message{
		SenderID:    sess.UserID,
		RecipientID: in.ToUserID,
		ListingID:   in.ListingID,
		Body:        body,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, in.ToUserID, model.NotificationNewMessage,
		"New message from "+sess.Name, fmt.Sprintf("About %q", listing.Title), strPtr(listing.ID))
	return m, nil
}

// ContactSeller opens a conversation with the listing's seller using the
// standard opener.
func (s *chatService) ContactSeller(ctx context.Context, sess *model.Session, listingID string) (*model.Message, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if !canSee(sess, listing) {
		return nil, ErrNotFound
	}
	if listing.SellerID == sess.UserID {
		return nil, invalid("recipient", "cannot message yourself")
	}
	sellerName := "there"
	if listing.Seller != nil && listing.Seller.Name != "" {
		sellerName = listing.Seller.Name
	}
	return s.SendMessage(ctx, sess, SendMessageInput{
		ToUserID:  listing.SellerID,
		ListingID: listing.ID,
		Body:      fmt.Sprintf("Hi %s, is this still available?", sellerName),
	})
}

// Threads returns the viewer's conversations, most recent first.
func (s *chatService) Threads(ctx context.Context, sess *model.Session) ([]chat.Thread, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	msgs, err := s.messages.ListByParticipant(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	listingIDs := map[string]struct{}{}
	userIDs := map[string]struct{}{}
	for _, m := range msgs {
		listingIDs[m.ListingID] = struct{}{}
		userIDs[chat.Counterpart(m, sess.UserID)] = struct{}{}
	}

	listings, err := s.listings.FindByIDs(ctx, keys(listingIDs))
	if err != nil {
		return nil, err
	}
	users, err := s.users.FindByIDs(ctx, keys(userIDs))
	if err != nil {
		return nil, err
	}
	listingByID := make(map[string]model.Listing, len(listings))
	for _, l := range listings {
		listingByID[l.ID] = l
	}
	userByID := make(map[string]model.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	threads := chat.BuildThreads(msgs, sess.UserID,
		func(id string) (model.Listing, bool) { l, ok := listingByID[id]; return l, ok },
		func(id string) (model.User, bool) { u, ok := userByID[id]; return u, ok },
	)
	chat.SortByRecent(threads)
	return threads, nil
}

func (s *chatService) MarkThreadRead(ctx context.Context, sess *model.Session, key chat.ThreadKey) (int64, error) {
	if sess == nil {
		return 0, ErrUnauthorized
	}
	if key.ListingID == "" || key.CounterpartID == "" {
		return 0, invalid("thread", "listingId and counterpartId are required")
	}
	n, err := s.messages.MarkThreadRead(ctx, sess.UserID, key.ListingID, key.CounterpartID)
	if err != nil {
		return 0, err
	}
	s.notify.MarkListingRead(ctx, sess.UserID, key.ListingID, model.NotificationNewMessage)
	return n, nil
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
