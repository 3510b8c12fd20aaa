package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tindaph/tinda-backend/internal/chat"
	"github.com/tindaph/tinda-backend/internal/model"
)

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seller := e.signUp(t, "seller@example.com", model.RoleSeller, qc)
	buyer := e.signUp(t, "buyer@example.com", model.RoleUser, qc)
	third := e.signUp(t, "third@example.com", model.RoleUser, qc)
	l := e.listingAt(t, seller, "bike", qc, model.StatusActive, time.Now())

	tests := []struct {
		name string
		sess *model.Session
		in   SendMessageInput
		want error
		fld  string
	}{
		{"anonymous", nil, SendMessageInput{ToUserID: seller.UserID, ListingID: l.ID, Body: "hi"}, ErrUnauthorized, ""},
		{"empty body", buyer, SendMessageInput{ToUserID: seller.UserID, ListingID: l.ID, Body: "  "}, nil, "body"},
		{"long body", buyer, SendMessageInput{ToUserID: seller.UserID, ListingID: l.ID, Body: strings.Repeat("a", MaxMessageLength+1)}, nil, "body"},
		{"to self", buyer, SendMessageInput{ToUserID: buyer.UserID, ListingID: l.ID, Body: "hi"}, nil, "recipient"},
		{"seller not involved", buyer, SendMessageInput{ToUserID: third.UserID, ListingID: l.ID, Body: "hi"}, nil, "recipient"},
		{"missing listing", buyer, SendMessageInput{ToUserID: seller.UserID, ListingID: "nope", Body: "hi"}, ErrNotFound, ""},
		{"missing recipient", seller, SendMessageInput{ToUserID: "ghost", ListingID: l.ID, Body: "hi"}, ErrNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.chat.SendMessage(ctx, tt.sess, tt.in)
			require.Error(t, err)
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), "got %v", err)
			} else {
				assert.Equal(t, tt.fld, validationField(err))
			}
		})
	}
}

func TestConversationFlow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seller := e.signUp(t, "seller@example.com", model.RoleSeller, qc)
	buyer := e.signUp(t, "buyer@example.com", model.RoleUser, qc)
	other := e.signUp(t, "other@example.com", model.RoleUser, cebu)
	bike := e.listingAt(t, seller, "bike", qc, model.StatusActive, time.Now())
	phone := e.listingAt(t, seller, "phone", qc, model.StatusActive, time.Now())

	opener, err := e.chat.ContactSeller(ctx, buyer, bike.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi Name seller@example.com, is this still available?", opener.Body)
	assert.Equal(t, seller.UserID, opener.RecipientID)

	_, err = e.chat.SendMessage(ctx, seller, SendMessageInput{ToUserID: buyer.UserID, ListingID: bike.ID, Body: "Yes, still available"})
	require.NoError(t, err)
	_, err = e.chat.ContactSeller(ctx, other, phone.ID)
	require.NoError(t, err)
	_, err = e.chat.SendMessage(ctx, buyer, SendMessageInput{ToUserID: seller.UserID, ListingID: bike.ID, Body: "Can you do 2k?"})
	require.NoError(t, err)

	threads, err := e.chat.Threads(ctx, seller)
	require.NoError(t, err)
	require.Len(t, threads, 2)

	byKey := map[chat.ThreadKey]chat.Thread{}
	for _, th := range threads {
		byKey[th.Key] = th
	}
	bikeKey := chat.ThreadKey{ListingID: bike.ID, CounterpartID: buyer.UserID}
	phoneKey := chat.ThreadKey{ListingID: phone.ID, CounterpartID: other.UserID}
	require.Contains(t, byKey, bikeKey)
	require.Contains(t, byKey, phoneKey)
	assert.Len(t, byKey[bikeKey].Messages, 3)
	assert.Equal(t, 2, byKey[bikeKey].UnreadCount)
	assert.Equal(t, "Can you do 2k?", byKey[bikeKey].LastMessage.Body)
	assert.Equal(t, "bike", byKey[bikeKey].Listing.Title)
	assert.Equal(t, buyer.UserID, byKey[bikeKey].Counterpart.ID)
	assert.Equal(t, 1, byKey[phoneKey].UnreadCount)

	buyerThreads, err := e.chat.Threads(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, buyerThreads, 1)
	assert.Equal(t, 1, buyerThreads[0].UnreadCount)

	n, err := e.chat.MarkThreadRead(ctx, seller, bikeKey)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	threads, err = e.chat.Threads(ctx, seller)
	require.NoError(t, err)
	for _, th := range threads {
		if th.Key == bikeKey {
			assert.Zero(t, th.UnreadCount)
		}
	}

	// two bike messages folded into one entry, which reading the thread cleared
	notes, unread, err := e.notifier.List(ctx, seller.UserID, true, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationNewMessage, notes[0].Type)
	require.NotNil(t, notes[0].ListingID)
	assert.Equal(t, phone.ID, *notes[0].ListingID)
}

func TestMessagesNeedVisibleListing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	seller := e.signUp(t, "seller@example.com", model.RoleSeller, qc)
	buyer := e.signUp(t, "buyer@example.com", model.RoleUser, qc)
	admin := e.adminSession(t)

	for _, status := range []model.ListingStatus{model.StatusPending, model.StatusRejected} {
		l := e.listingAt(t, seller, "hidden "+string(status), qc, status, time.Now())
		t.Run(string(status), func(t *testing.T) {
			_, err := e.chat.ContactSeller(ctx, buyer, l.ID)
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
			_, err = e.chat.SendMessage(ctx, buyer, SendMessageInput{ToUserID: seller.UserID, ListingID: l.ID, Body: "hi"})
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)

			_, err = e.chat.SendMessage(ctx, admin, SendMessageInput{ToUserID: seller.UserID, ListingID: l.ID, Body: "please add photos"})
			assert.NoError(t, err)
		})
	}

	sold := e.listingAt(t, seller, "sold bike", qc, model.StatusSold, time.Now())
	_, err := e.chat.ContactSeller(ctx, buyer, sold.ID)
	require.NoError(t, err)
}

func TestContactSellerOwnListing(t *testing.T) {
	e := newEnv(t)
	seller := e.signUp(t, "seller@example.com", model.RoleSeller, qc)
	l := e.listingAt(t, seller, "bike", qc, model.StatusActive, time.Now())
	_, err := e.chat.ContactSeller(context.Background(), seller, l.ID)
	assert.Equal(t, "recipient", validationField(err))
}

func TestMarkThreadReadValidation(t *testing.T) {
	e := newEnv(t)
	buyer := e.signUp(t, "buyer@example.com", model.RoleUser, qc)
	_, err := e.chat.MarkThreadRead(context.Background(), buyer, chat.ThreadKey{ListingID: "x"})
	assert.Equal(t, "thread", validationField(err))
	_, err = e.chat.MarkThreadRead(context.Background(), nil, chat.ThreadKey{})
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestThreadsEmpty(t *testing.T) {
	e := newEnv(t)
	buyer := e.signUp(t, "buyer@example.com", model.RoleUser, qc)
	threads, err := e.chat.Threads(context.Background(), buyer)
	require.NoError(t, err)
	assert.Empty(t, threads)
}
