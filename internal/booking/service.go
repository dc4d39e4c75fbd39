// Package booking is the coordinating service over the local ledger, the
// remote document store, the snapshot feed and the authorization gate. All
// storefront and back-office operations enter through it; HTTP handlers stay
// thin translations.
package booking

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bluemoon1528/clusters/internal/auth"
	"github.com/bluemoon1528/clusters/internal/catalog"
	"github.com/bluemoon1528/clusters/internal/config"
	"github.com/bluemoon1528/clusters/internal/kvstore"
	"github.com/bluemoon1528/clusters/internal/ledger"
	"github.com/bluemoon1528/clusters/internal/model"
	"github.com/bluemoon1528/clusters/internal/queue"
	"github.com/bluemoon1528/clusters/internal/ticket"
)

// DefaultTheatreQR is served until a super admin uploads a replacement.
const DefaultTheatreQR = "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=GPay:6382881324"

// maxQRBytes bounds the decoded payment-QR image size.
const maxQRBytes = 200 * 1024

// RemoteStore is the slice of the remote client the service consumes.
type RemoteStore interface {
	FetchAll(ctx context.Context) ([]model.Booking, error)
	Save(ctx context.Context, b model.Booking) error
	Delete(ctx context.Context, id string) error
	PushAll(ctx context.Context, batch []model.Booking) error
}

// Publisher sends a snapshot event to the live feed. Publishing is always
// best-effort; a failed publish never rolls back the local write that
// triggered it.
type Publisher func(ctx context.Context, ev queue.SnapshotEvent) error

// Service wires the components together. The zero value is not usable; build
// one with New.
type Service struct {
	cfg     config.Config
	ledger  *ledger.Store
	remote  RemoteStore
	catalog catalog.Source
	gate    *auth.Gate
	kv      kvstore.Store
	publish Publisher
}

func New(cfg config.Config, l *ledger.Store, r RemoteStore, c catalog.Source, g *auth.Gate, kv kvstore.Store, p Publisher) *Service {
	return &Service{cfg: cfg, ledger: l, remote: r, catalog: c, gate: g, kv: kv, publish: p}
}

// Gate exposes the authorization gate for the auth handlers.
func (s *Service) Gate() *auth.Gate { return s.gate }

// Catalog exposes the movie source for the catalog handlers.
func (s *Service) Catalog() catalog.Source { return s.catalog }

// CreateInput is a booking submission from the storefront form.
type CreateInput struct {
	MovieID       int64  `json:"movieId"`
	ShowType      string `json:"showType"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	TicketCount   int    `json:"ticketCount"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`
}

// Create validates the submission, fixes the price, appends the record to
// the ledger and persists it, then best-effort pushes the new document to
// the remote store and publishes a snapshot. The returned cloudErr describes
// any remote failure; the local write is never rolled back because of one.
func (s *Service) Create(ctx context.Context, in CreateInput) (model.Booking, string, error) {
	movie, err := s.catalog.GetByID(ctx, in.MovieID)
	if errors.Is(err, catalog.ErrMovieNotFound) {
		return model.Booking{}, "", fmt.Errorf("%w: please select a movie", ErrValidation)
	}
	if err != nil {
		return model.Booking{}, "", fmt.Errorf("catalog lookup: %w", err)
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return model.Booking{}, "", fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	quote, err := model.PriceFor(in.ShowType, in.TicketCount)
	if err != nil {
		return model.Booking{}, "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// Schedule defaults come from the catalog entry when the form left them
	// blank.
	date, showTime := in.Date, in.Time
	if date == "" {
		date = movie.Date
	}
	if showTime == "" {
		showTime = movie.Time
	}

	b := model.Booking{
		ID:            ticket.NewID(),
		MovieID:       movie.ID,
		MovieName:     movie.Name,
		MoviePoster:   movie.Poster,
		ShowType:      in.ShowType,
		Date:          date,
		Time:          showTime,
		TicketCount:   in.TicketCount,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		BasePrice:     quote.BasePrice,
		GST:           quote.GST,
		Total:         quote.Total,
		BookingDate:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.ledger.Append(ctx, b); err != nil {
		return model.Booking{}, "", err
	}

	var cloudErrs []string
	if err := s.remote.Save(ctx, b); err != nil {
		log.Printf("booking: cloud save failed for %s: %v", b.ID, err)
		cloudErrs = append(cloudErrs, err.Error())
	}
	if err := s.publishSnapshot(ctx); err != nil {
		cloudErrs = append(cloudErrs, err.Error())
	}
	return b, strings.Join(cloudErrs, "; "), nil
}

// Delete removes one booking. Super privilege required; the gate is checked
// before anything is touched. The remote copy is deleted best-effort.
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	if err := s.gate.RequireSuper(); err != nil {
		return "", err
	}
	if err := s.ledger.RemoveByID(ctx, id); err != nil {
		return "", err
	}
	var cloudErrs []string
	if err := s.remote.Delete(ctx, id); err != nil {
		log.Printf("booking: cloud delete failed for %s: %v", id, err)
		cloudErrs = append(cloudErrs, err.Error())
	}
	if err := s.publishSnapshot(ctx); err != nil {
		cloudErrs = append(cloudErrs, err.Error())
	}
	return strings.Join(cloudErrs, "; "), nil
}

// ClearAll empties the local ledger. Super privilege required. The remote
// collection is left alone; clearing is a local operation, recoverable with
// a pull.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	if err := s.gate.RequireSuper(); err != nil {
		return 0, err
	}
	n := s.ledger.Len()
	if err := s.ledger.Clear(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

// MergeFromRemote reconciles a batch of remote records into the ledger under
// the chosen policy. It is the single entry point for both the live feed
// (overwrite=false) and the operator pull (overwrite=true).
func (s *Service) MergeFromRemote(ctx context.Context, batch []model.Booking, overwrite bool) (ledger.MergeResult, error) {
	return s.ledger.Merge(ctx, batch, overwrite)
}

// Push writes every local record to the remote store, unconditionally
// overwriting remote state per id. Irreversible if the remote was edited
// concurrently, hence the explicit confirm flag.
func (s *Service) Push(ctx context.Context, confirm bool) (int, error) {
	if err := s.gate.RequireSuper(); err != nil {
		return 0, err
	}
	snap := s.ledger.Snapshot()
	if len(snap) == 0 {
		return 0, fmt.Errorf("%w: no local bookings to push", ErrValidation)
	}
	if !confirm {
		return 0, ErrConfirmationRequired
	}
	if err := s.remote.PushAll(ctx, snap); err != nil {
		return 0, err
	}
	if err := s.publishSnapshot(ctx); err != nil {
		log.Printf("booking: snapshot publish after push failed: %v", err)
	}
	return len(snap), nil
}

// Pull fetches the full remote collection and merges it with overwrite
// semantics, forcing local records to converge to the cloud copy.
func (s *Service) Pull(ctx context.Context) (ledger.MergeResult, int, error) {
	if err := s.gate.RequireSuper(); err != nil {
		return ledger.MergeResult{}, 0, err
	}
	batch, err := s.remote.FetchAll(ctx)
	if err != nil {
		return ledger.MergeResult{}, 0, err
	}
	res, err := s.ledger.Merge(ctx, batch, true)
	return res, len(batch), err
}

// publishSnapshot sends the full current ledger state to the live feed.
func (s *Service) publishSnapshot(ctx context.Context) error {
	if s.publish == nil {
		return nil
	}
	ev := queue.SnapshotEvent{
		Source:   s.cfg.Instance,
		SentAt:   time.Now().UTC().Format(time.RFC3339),
		Bookings: s.ledger.Snapshot(),
	}
	if err := s.publish(ctx, ev); err != nil {
		return fmt.Errorf("snapshot publish: %w", err)
	}
	return nil
}

// Bookings returns a copy of the full ledger in order, for the dashboard
// table and exports.
func (s *Service) Bookings() []model.Booking { return s.ledger.Snapshot() }

// Stats returns the dashboard aggregates.
func (s *Service) Stats() ledger.Stats { return s.ledger.Stats() }

// CountByShowType reports the number of bookings of one show type.
func (s *Service) CountByShowType(showType string) int {
	return s.ledger.CountByShowType(showType)
}

// TheatreQR returns the cached payment-QR reference, or the default when
// none has been uploaded.
func (s *Service) TheatreQR(ctx context.Context) string {
	v, err := s.kv.Get(ctx, kvstore.KeyTheatreQR)
	if err != nil {
		return DefaultTheatreQR
	}
	return v
}

// SaveTheatreQR replaces the shared payment QR. Super privilege required;
// when no session is active the caller may supply credentials for a
// one-time challenge, which on success grants a session for the remainder
// of the process. Only JPEG data URLs up to 200 KB are accepted.
func (s *Service) SaveTheatreQR(ctx context.Context, dataURL, challengeUser, challengePass string) error {
	if err := s.gate.RequireSuper(); err != nil {
		if challengeUser == "" {
			return err
		}
		if err := s.gate.Challenge(ctx, challengeUser, challengePass); err != nil {
			return err
		}
	}
	if err := validateQRImage(dataURL); err != nil {
		return err
	}
	return s.kv.Set(ctx, kvstore.KeyTheatreQR, dataURL)
}

func validateQRImage(dataURL string) error {
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(dataURL, prefix) {
		return fmt.Errorf("%w: only JPG/JPEG images are allowed", ErrValidation)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	if err != nil {
		return fmt.Errorf("%w: invalid image encoding", ErrValidation)
	}
	if len(decoded) > maxQRBytes {
		return fmt.Errorf("%w: image is too large (%dKB), max allowed is %dKB",
			ErrValidation, len(decoded)/1024, maxQRBytes/1024)
	}
	return nil
}
