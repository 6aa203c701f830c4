package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/marketplace-api/internal/domain"
	"github.com/jhoicas/marketplace-api/internal/domain/entity"
	checkstate "github.com/jhoicas/marketplace-api/internal/domain/inventory"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// CreateCheckInput entrada para abrir una inventarización sobre un almacén.
type CreateCheckInput struct {
	StoreID        string
	UserID         string
	StorageID      string
	DocumentNumber string
	Notes          string
}

// RecordCountInput conteo físico de un item dentro de una inventarización.
type RecordCountInput struct {
	StoreID      string
	CheckID      string
	ItemID       string
	ActualAmount int64
}

// CompleteResult inventarización finalizada y ajustes contabilizados (vacío si no hubo diferencias).
type CompleteResult struct {
	Check       *entity.InventoryCheck
	Adjustments []*entity.StockDocument
}

// ReconciliationUseCase gestiona el ciclo de vida de las inventarizaciones.
type ReconciliationUseCase struct {
	txRunner TxRunner
	checks   repository.InventoryCheckRepository
	ledger   *Ledger
	cache    StockCache
	log      zerolog.Logger
	now      func() time.Time
}

// NewReconciliationUseCase construye el caso de uso. checks se usa para lecturas fuera de transacción.
func NewReconciliationUseCase(
	txRunner TxRunner,
	checks repository.InventoryCheckRepository,
	ledger *Ledger,
	cache StockCache,
	log zerolog.Logger,
) *ReconciliationUseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	return &ReconciliationUseCase{
		txRunner: txRunner,
		checks:   checks,
		ledger:   ledger,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Create abre la inventarización en draft con una línea por cada StockLine existente del almacén:
// expected = cantidad actual, actual = 0.
func (uc *ReconciliationUseCase) Create(ctx context.Context, in CreateCheckInput) (*entity.InventoryCheck, error) {
	if in.StoreID == "" || in.StorageID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	check := &entity.InventoryCheck{
		ID:             uuid.New().String(),
		StoreID:        in.StoreID,
		StorageID:      in.StorageID,
		DocumentNumber: in.DocumentNumber,
		Notes:          in.Notes,
		Status:         entity.CheckStatusDraft,
		CreatedBy:      in.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		if _, err := NewRegistry(repos.Items, repos.Storages).ResolveStorage(ctx, in.StoreID, in.StorageID); err != nil {
			return err
		}
		stock, err := repos.Stock.ListByStorage(ctx, in.StorageID)
		if err != nil {
			return err
		}
		check.Lines = make([]entity.InventoryCheckLine, 0, len(stock))
		for _, s := range stock {
			check.Lines = append(check.Lines, entity.InventoryCheckLine{
				CheckID:        check.ID,
				ItemID:         s.ItemID,
				ExpectedAmount: s.Quantity,
				UpdatedAt:      now,
			})
		}
		sortLines(check.Lines)
		return repos.Checks.Create(ctx, check)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("check_id", check.ID).Str("storage_id", check.StorageID).Int("lines", len(check.Lines)).Msg("inventarización creada")
	return check, nil
}

// RecordCount registra la cantidad contada de un item. El primer conteo pasa draft → in_progress.
// Un item de la tienda sin línea en la foto inicial se agrega con expected = cantidad actual.
func (uc *ReconciliationUseCase) RecordCount(ctx context.Context, in RecordCountInput) (*entity.InventoryCheck, error) {
	if in.ActualAmount < 0 || in.CheckID == "" || in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.InventoryCheck
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		check, err := lockCheck(ctx, repos, in.StoreID, in.CheckID)
		if err != nil {
			return err
		}
		next, err := checkstate.CanRecordCount(check.Status)
		if err != nil {
			return err
		}
		now := uc.now()
		line := check.Line(in.ItemID)
		if line == nil {
			if _, err := NewRegistry(repos.Items, repos.Storages).ResolveItem(ctx, in.StoreID, in.ItemID); err != nil {
				return err
			}
			current, err := repos.Stock.Get(ctx, in.ItemID, check.StorageID)
			if err != nil {
				return err
			}
			check.Lines = append(check.Lines, entity.InventoryCheckLine{
				CheckID:        check.ID,
				ItemID:         in.ItemID,
				ExpectedAmount: current.Quantity,
			})
			sortLines(check.Lines)
			line = check.Line(in.ItemID)
		}
		line.ActualAmount = in.ActualAmount
		line.Counted = true
		line.UpdatedAt = now
		if err := repos.Checks.UpsertLine(ctx, line); err != nil {
			return err
		}
		if check.Status != next {
			check.Status = next
			check.UpdatedAt = now
			if err := repos.Checks.UpdateStatus(ctx, check); err != nil {
				return err
			}
		}
		out = check
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete bloquea las StockLines de todas las líneas (orden ascendente de item_id),
// contabiliza un ajuste por cada línea con diferencia y pasa a completed. Cualquier fallo
// deshace todo y la inventarización queda en su estado previo.
func (uc *ReconciliationUseCase) Complete(ctx context.Context, storeID, userID, checkID string) (*CompleteResult, error) {
	var res CompleteResult
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		check, err := lockCheck(ctx, repos, storeID, checkID)
		if err != nil {
			return err
		}
		if err := checkstate.CanComplete(check); err != nil {
			return err
		}
		sortLines(check.Lines)
		corrections := checkstate.Corrections(check.Lines)

		// también las que cuadran: ningún movimiento las cambia hasta el commit
		for _, l := range check.Lines {
			if _, err := repos.Stock.GetForUpdate(ctx, storeID, l.ItemID, check.StorageID); err != nil {
				return err
			}
		}

		now := uc.now()
		res.Adjustments = make([]*entity.StockDocument, 0, len(corrections))
		for _, l := range corrections {
			doc := &entity.StockDocument{
				StoreID:          storeID,
				ItemID:           l.ItemID,
				StorageID:        check.StorageID,
				Kind:             entity.DocumentKindAdjustment,
				Amount:           l.Difference(),
				DocumentNumber:   check.DocumentNumber,
				InventoryCheckID: check.ID,
				CreatedBy:        userID,
				CreatedAt:        now,
			}
			if _, err := uc.ledger.Post(ctx, repos, doc); err != nil {
				return err
			}
			res.Adjustments = append(res.Adjustments, doc)
		}

		check.Status = entity.CheckStatusCompleted
		check.UpdatedAt = now
		check.CompletedAt = &now
		if err := repos.Checks.UpdateStatus(ctx, check); err != nil {
			return err
		}
		res.Check = check
		return nil
	})
	if err != nil {
		uc.log.Info().Err(err).Str("check_id", checkID).Msg("finalización de inventarización rechazada")
		return nil, err
	}
	if len(res.Adjustments) > 0 {
		if err := uc.cache.Invalidate(ctx, storeID); err != nil {
			uc.log.Warn().Err(err).Str("store_id", storeID).Msg("no se pudo invalidar caché de stock")
		}
	}
	uc.log.Debug().Str("check_id", checkID).Int("adjustments", len(res.Adjustments)).Msg("inventarización completada")
	return &res, nil
}

// Cancel pasa la inventarización a cancelled. Sin efecto en el libro.
func (uc *ReconciliationUseCase) Cancel(ctx context.Context, storeID, checkID string) (*entity.InventoryCheck, error) {
	var out *entity.InventoryCheck
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		check, err := lockCheck(ctx, repos, storeID, checkID)
		if err != nil {
			return err
		}
		if err := checkstate.CanCancel(check.Status); err != nil {
			return err
		}
		check.Status = entity.CheckStatusCancelled
		check.UpdatedAt = uc.now()
		if err := repos.Checks.UpdateStatus(ctx, check); err != nil {
			return err
		}
		out = check
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get obtiene una inventarización con sus líneas.
func (uc *ReconciliationUseCase) Get(ctx context.Context, storeID, checkID string) (*entity.InventoryCheck, error) {
	if err := ValidateIDs(checkID); err != nil {
		return nil, err
	}
	check, err := uc.checks.GetByID(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if check == nil {
		return nil, domain.ErrNotFound
	}
	if check.StoreID != storeID {
		return nil, domain.ErrScopeViolation
	}
	return check, nil
}

// List lista inventarizaciones de la tienda; status vacío no filtra.
func (uc *ReconciliationUseCase) List(ctx context.Context, storeID, status string, limit, offset int) ([]*entity.InventoryCheck, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.checks.ListByStore(ctx, storeID, status, limit, offset)
}

func lockCheck(ctx context.Context, repos Repos, storeID, checkID string) (*entity.InventoryCheck, error) {
	if err := ValidateIDs(checkID); err != nil {
		return nil, err
	}
	check, err := repos.Checks.GetForUpdate(ctx, checkID)
	if err != nil {
		return nil, err
	}
	if check == nil {
		return nil, domain.ErrNotFound
	}
	if check.StoreID != storeID {
		return nil, domain.ErrScopeViolation
	}
	return check, nil
}

func sortLines(lines []entity.InventoryCheckLine) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
}
