package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chlsync/internal/caching"
	"chlsync/internal/delivery"
	"chlsync/internal/erpfile"
	"chlsync/internal/mapper"
	"chlsync/internal/repositories"
	"chlsync/internal/vtex"
)

// ErrRunInProgress is returned when another sync run holds the run lock.
var ErrRunInProgress = errors.New("a sync run is already in progress")

const runLockName = "vtex-order-sync"

// OrderFetcher retrieves the raw order documents for a time window.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, window vtex.TimeWindow, startPage int) ([]*vtex.OrderDocument, error)
}

// Deliverer transmits rendered export files to the remote file store.
type Deliverer interface {
	Deliver(ctx context.Context, files []delivery.File) error
}

// SyncService runs the order synchronization pipeline: fetch, map, upsert,
// read back, format, deliver. Sequential; the first error aborts the run
// and re-runs are safe because both upserts are idempotent.
type SyncService struct {
	fetcher   OrderFetcher
	profile   mapper.Profile
	orderRepo repositories.OrderRepository
	itemRepo  repositories.OrderItemRepository
	deliverer Deliverer
	archive   ArchiveService // nil when the archive is disabled
	lock      caching.RunLock
	lease     time.Duration
}

func NewSyncService(
	fetcher OrderFetcher,
	profile mapper.Profile,
	orderRepo repositories.OrderRepository,
	itemRepo repositories.OrderItemRepository,
	deliverer Deliverer,
	archive ArchiveService,
	lock caching.RunLock,
	lease time.Duration,
) *SyncService {
	return &SyncService{
		fetcher:   fetcher,
		profile:   profile,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		deliverer: deliverer,
		archive:   archive,
		lock:      lock,
		lease:     lease,
	}
}

// Run syncs orders created in the last hour up to now.
func (s *SyncService) Run(ctx context.Context) error {
	return s.RunWindow(ctx, vtex.DefaultWindow(time.Now().UTC()))
}

// RunWindow syncs orders created in the given window.
func (s *SyncService) RunWindow(ctx context.Context, window vtex.TimeWindow) error {
	acquired, err := s.lock.Acquire(ctx, runLockName, s.lease)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrRunInProgress
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), runLockName); err != nil {
			log.Printf("Failed to release run lock: %v", err)
		}
	}()

	docs, err := s.fetcher.FetchOrders(ctx, window, 1)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}
	log.Printf("Fetched %d orders for window %s", len(docs), window.Filter())

	files := make([]delivery.File, 0, len(docs))
	for _, doc := range docs {
		file, err := s.ingest(ctx, doc)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	if len(files) == 0 {
		log.Printf("Nothing to deliver")
		return nil
	}

	if err := s.deliverer.Deliver(ctx, files); err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}

	if s.archive != nil {
		for _, file := range files {
			if err := s.archive.StoreExport(ctx, file.Name, file.Content); err != nil {
				return fmt.Errorf("failed to archive %s: %w", file.Name, err)
			}
		}
	}

	log.Printf("Sync complete: %d orders delivered", len(files))
	return nil
}

// ingest persists one raw order document and renders its export file from
// the stored records.
func (s *SyncService) ingest(ctx context.Context, doc *vtex.OrderDocument) (delivery.File, error) {
	order, items, err := s.profile.MapOrder(doc)
	if err != nil {
		return delivery.File{}, fmt.Errorf("mapping failed: %w", err)
	}

	stored, err := s.orderRepo.Upsert(ctx, order)
	if err != nil {
		return delivery.File{}, fmt.Errorf("failed to upsert order %s: %w", order.OrderNumber, err)
	}

	for _, item := range items {
		item.OrderID = stored.ID
		if _, err := s.itemRepo.Upsert(ctx, item); err != nil {
			return delivery.File{}, fmt.Errorf("failed to upsert item %s of order %s: %w", item.EAN, stored.OrderNumber, err)
		}
	}

	// Format from the store, not from the in-flight records, so the file
	// always reflects what was actually persisted.
	persisted, err := s.orderRepo.GetByOrderNumber(ctx, stored.OrderNumber)
	if err != nil {
		return delivery.File{}, fmt.Errorf("failed to read back order %s: %w", stored.OrderNumber, err)
	}
	persistedItems, err := s.itemRepo.ListByOrder(ctx, persisted.ID)
	if err != nil {
		return delivery.File{}, fmt.Errorf("failed to list items of order %s: %w", stored.OrderNumber, err)
	}

	return delivery.File{
		Name:    erpfile.FileName(persisted),
		Content: erpfile.Render(persisted, persistedItems),
	}, nil
}
