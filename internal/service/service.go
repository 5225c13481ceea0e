// Package service implements the catalog business rules: listing, the
// create and like mutations, and the placeholder auth endpoints.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/pandal-explorer/internal/imagestore"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/model"
	"github.com/Shivanand-hulikatti/pandal-explorer/internal/repository"
)

// ErrValidation marks errors caused by missing or malformed input. The
// wrapping error's message is safe to show to clients.
var ErrValidation = errors.New("validation failed")

// Client-facing validation messages.
const (
	MsgMissingEntryFields  = "Please provide title, location, and pandal name"
	MsgMissingLogin        = "Please provide email and password"
	MsgMissingRegistration = "Please provide name, email and password"
	MsgInvalidImage        = "Image must be a URL or a base64 image data URI"

	placeholderToken = "sample-jwt-token"
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrValidation) true for every ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Metrics receives catalog mutation events. A nil Metrics is allowed.
type Metrics interface {
	EntryCreated()
	Liked()
}

// CatalogService orchestrates pandal catalog operations.
type CatalogService struct {
	store    repository.CatalogStore
	uploader imagestore.Uploader
	metrics  Metrics
	now      func() time.Time
}

// Option configures a CatalogService.
type Option func(*CatalogService)

// WithUploader sends data-URI images to u on create.
func WithUploader(u imagestore.Uploader) Option {
	return func(s *CatalogService) { s.uploader = u }
}

// WithMetrics reports mutations to m.
func WithMetrics(m Metrics) Option {
	return func(s *CatalogService) { s.metrics = m }
}

// WithClock overrides the time source used to date new entries.
func WithClock(now func() time.Time) Option {
	return func(s *CatalogService) { s.now = now }
}

// NewCatalogService constructs a CatalogService over store.
func NewCatalogService(store repository.CatalogStore, opts ...Option) *CatalogService {
	s := &CatalogService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListEntries returns the entries matching f in store order (newest first).
func (s *CatalogService) ListEntries(ctx context.Context, f model.ListFilter) ([]model.Entry, error) {
	entries, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// GetEntry returns a single entry or repository.ErrNotFound.
func (s *CatalogService) GetEntry(ctx context.Context, id int64) (model.Entry, error) {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Entry{}, repository.ErrNotFound
		}
		return model.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// CreateEntry validates req, fills defaults and inserts the new entry at the
// head of the catalog. Nothing is stored when validation fails.
func (s *CatalogService) CreateEntry(ctx context.Context, req model.CreateEntryRequest) (model.Entry, error) {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Location) == "" ||
		strings.TrimSpace(req.Pandal) == "" {
		return model.Entry{}, invalid(MsgMissingEntryFields)
	}

	e := model.Entry{
		Title:    req.Title,
		Location: req.Location,
		Pandal:   req.Pandal,
		Category: req.Category,
		Image:    req.Image,
		Rating:   0,
		Likes:    0,
		Date:     s.now().UTC().Format(model.DateLayout),
	}
	if strings.TrimSpace(e.Category) == "" {
		e.Category = model.DefaultCategory
	}
	if strings.TrimSpace(e.Image) == "" {
		e.Image = model.DefaultImage
	}

	if s.uploader != nil && imagestore.IsDataURI(e.Image) {
		img, err := imagestore.ParseDataURI(e.Image)
		if err != nil {
			return model.Entry{}, invalid(MsgInvalidImage)
		}
		url, err := s.uploader.Upload(ctx, img)
		if err != nil {
			return model.Entry{}, fmt.Errorf("upload image: %w", err)
		}
		e.Image = url
	}

	created, err := s.store.Create(ctx, e)
	if err != nil {
		return model.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	if s.metrics != nil {
		s.metrics.EntryCreated()
	}
	return created, nil
}

// LikeEntry adds exactly one like. Retries are not deduplicated.
func (s *CatalogService) LikeEntry(ctx context.Context, id int64) (model.Entry, error) {
	e, err := s.store.Like(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Entry{}, repository.ErrNotFound
		}
		return model.Entry{}, fmt.Errorf("like entry: %w", err)
	}
	if s.metrics != nil {
		s.metrics.Liked()
	}
	return e, nil
}

// Stats summarises the whole catalog.
func (s *CatalogService) Stats(ctx context.Context) (model.Stats, error) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		return model.Stats{}, fmt.Errorf("catalog stats: %w", err)
	}
	return st, nil
}

// Ping reports store readiness.
func (s *CatalogService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// AuthService backs the login and register placeholders. It performs
// presence checks only; nothing is persisted or verified.
type AuthService struct{}

// NewAuthService constructs an AuthService.
func NewAuthService() *AuthService {
	return &AuthService{}
}

// Login echoes the email with a placeholder token.
func (a *AuthService) Login(_ context.Context, req model.LoginRequest) (model.AuthResult, error) {
	if req.Email == "" || req.Password == "" {
		return model.AuthResult{}, invalid(MsgMissingLogin)
	}
	return model.AuthResult{
		User:  model.User{Email: req.Email},
		Token: placeholderToken,
	}, nil
}

// Register echoes the name and email under a freshly generated user id.
func (a *AuthService) Register(_ context.Context, req model.RegisterRequest) (model.AuthResult, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return model.AuthResult{}, invalid(MsgMissingRegistration)
	}
	return model.AuthResult{
		User: model.User{ID: uuid.New().String(), Name: req.Name, Email: req.Email},
	}, nil
}
