package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tindaph/tinda-backend/internal/auth"
	"github.com/tindaph/tinda-backend/internal/db"
	"github.com/tindaph/tinda-backend/internal/model"
	"github.com/tindaph/tinda-backend/internal/repository"
	"github.com/tindaph/tinda-backend/internal/session"
	"github.com/tindaph/tinda-backend/internal/storage"
	"gorm.io/gorm"
)

var (
	qc   = model.Location{Region: "NCR", Province: "Metro Manila", City: "Quezon City"}
	mnl  = model.Location{Region: "NCR", Province: "Metro Manila", City: "Manila"}
	cebu = model.Location{Region: "Region VII (Central Visayas)", Province: "Cebu", City: "Cebu City"}
)

type fakeStore struct {
	mu      sync.Mutex
	n       int
	failAt  int
	puts    []string
	deleted []string
}

func (f *fakeStore) Put(_ context.Context, data []byte, contentType string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	if f.failAt > 0 && f.n == f.failAt {
		return storage.Object{}, errors.New("bucket unavailable")
	}
	key := fmt.Sprintf("listings/%d.jpg", f.n)
	f.puts = append(f.puts, key)
	return storage.Object{Key: key, URL: "https://cdn.example/" + key}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

type failingListingRepo struct {
	repository.ListingRepository
}

func (failingListingRepo) CreateWithImages(context.Context, *model.Listing, []model.ListingImage) error {
	return errors.New("disk full")
}

type env struct {
	db        *gorm.DB
	users     repository.UserRepository
	listings  repository.ListingRepository
	messages  repository.MessageRepository
	notifRepo repository.NotificationRepository
	store     *fakeStore
	revoked   *session.MemoryStore
	tokens    *auth.TokenManager

	auth     AuthService
	listing  ListingService
	admin    AdminService
	chat     ChatService
	reviews  ReviewService
	notifier NotificationService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gdb := db.NewTestDB(t)
	e := &env{
		db:        gdb,
		users:     repository.NewUserRepository(gdb),
		listings:  repository.NewListingRepository(gdb),
		messages:  repository.NewMessageRepository(gdb),
		notifRepo: repository.NewNotificationRepository(gdb),
		store:     &fakeStore{},
		revoked:   session.NewMemoryStore(),
		tokens:    auth.NewTokenManager("test-secret-0123456789", time.Hour),
	}
	e.notifier = NewNotificationService(e.notifRepo)
	e.auth = NewAuthService(e.users, e.tokens, e.revoked, nil)
	e.listing = NewListingService(e.listings, e.store, e.notifier)
	e.admin = NewAdminService(e.listing, e.listings, e.users)
	e.chat = NewChatService(e.messages, e.listings, e.users, e.notifier)
	e.reviews = NewReviewService(repository.NewReviewRepository(gdb))
	return e
}

// signUp registers a user and returns the session the middleware would build.
func (e *env) signUp(t *testing.T, email string, role model.Role, loc model.Location) *model.Session {
	t.Helper()
	res, err := e.auth.SignUp(context.Background(), SignUpInput{
		Email: email, Password: "password123", Name: "Name " + email, Role: role, Location: loc,
	})
	require.NoError(t, err)
	sess, err := e.auth.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	return sess
}

func (e *env) adminSession(t *testing.T) *model.Session {
	t.Helper()
	u, err := e.auth.CreateAdmin(context.Background(), SignUpInput{
		Email: "admin@tindaph.com", Password: "password123", Name: "Super Admin", Location: mnl,
	})
	require.NoError(t, err)
	return model.NewSession(u, "", time.Now().Add(time.Hour))
}

// listingAt inserts a listing directly with a fixed status and age.
func (e *env) listingAt(t *testing.T, seller *model.Session, title string, loc model.Location, status model.ListingStatus, createdAt time.Time) *model.Listing {
	t.Helper()
	l := &model.Listing{
		SellerID:  seller.UserID,
		Title:     title,
		Price:     decimal.NewFromInt(500),
		Category:  "Electronics",
		Condition: "Used",
		Location:  loc,
		Status:    status,
		CreatedAt: createdAt,
	}
	require.NoError(t, e.listings.CreateWithImages(context.Background(), l, []model.ListingImage{{URL: "https://img/" + title}}))
	return l
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func validationField(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

func repositoryAll() repository.ListingQuery {
	return repository.ListingQuery{}
}
