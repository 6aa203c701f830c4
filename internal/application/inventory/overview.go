package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/marketplace-api/internal/application/dto"
	"github.com/jhoicas/marketplace-api/internal/domain/repository"
)

// DefaultLowStockThreshold cantidad total a partir de la cual un item se considera con stock bajo.
const DefaultLowStockThreshold = 5

// recentWindow ventana para contar movimientos recientes en las métricas.
const recentWindow = 7 * 24 * time.Hour

// OverviewUseCase lecturas informativas del stock (sin bloqueo). Se cachean cuando hay caché configurada.
type OverviewUseCase struct {
	items     repository.ItemRepository
	storages  repository.StorageRepository
	stock     repository.StockRepository
	docs      repository.StockDocumentRepository
	cache     StockCache
	threshold int64
	log       zerolog.Logger
	now       func() time.Time
}

// NewOverviewUseCase construye el caso de uso. threshold <= 0 usa DefaultLowStockThreshold.
func NewOverviewUseCase(
	items repository.ItemRepository,
	storages repository.StorageRepository,
	stock repository.StockRepository,
	docs repository.StockDocumentRepository,
	cache StockCache,
	threshold int64,
	log zerolog.Logger,
) *OverviewUseCase {
	if cache == nil {
		cache = NoopCache{}
	}
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &OverviewUseCase{
		items: items, storages: storages, stock: stock, docs: docs,
		cache: cache, threshold: threshold, log: log, now: time.Now,
	}
}

// cachedOverview es lo que se guarda en caché: resumen y métricas juntos.
type cachedOverview struct {
	Overview dto.StockOverviewResponse  `json:"overview"`
	Stats    dto.WarehouseStatsResponse `json:"stats"`
}

// Overview devuelve el total por item con desglose por almacén.
func (uc *OverviewUseCase) Overview(ctx context.Context, storeID string) (*dto.StockOverviewResponse, error) {
	c, err := uc.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &c.Overview, nil
}

// Stats devuelve las métricas del almacén de la tienda.
func (uc *OverviewUseCase) Stats(ctx context.Context, storeID string) (*dto.WarehouseStatsResponse, error) {
	c, err := uc.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &c.Stats, nil
}

func (uc *OverviewUseCase) load(ctx context.Context, storeID string) (*cachedOverview, error) {
	var cached cachedOverview
	hit, err := uc.cache.GetOverview(ctx, storeID, &cached)
	if err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Msg("lectura de caché de stock fallida")
	}
	if hit {
		return &cached, nil
	}
	built, err := uc.build(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetOverview(ctx, storeID, built); err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Msg("escritura de caché de stock fallida")
	}
	return built, nil
}

func (uc *OverviewUseCase) build(ctx context.Context, storeID string) (*cachedOverview, error) {
	items, err := uc.items.ListByStore(ctx, storeID, "", 0, 0)
	if err != nil {
		return nil, err
	}
	storages, err := uc.storages.ListByStore(ctx, storeID, 0, 0)
	if err != nil {
		return nil, err
	}
	lines, err := uc.stock.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	storageNames := make(map[string]string, len(storages))
	for _, s := range storages {
		storageNames[s.ID] = s.Name
	}

	byItem := make(map[string]*dto.ItemStockOverview, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		byItem[it.ID] = &dto.ItemStockOverview{
			ItemID:      it.ID,
			ItemName:    it.Name,
			UnitMeasure: it.UnitMeasure,
			Storages:    []dto.StorageStock{},
		}
		order = append(order, it.ID)
	}
	var totalStock int64
	for _, l := range lines {
		ov, ok := byItem[l.ItemID]
		if !ok {
			continue
		}
		ov.TotalStock += l.Quantity
		totalStock += l.Quantity
		ov.Storages = append(ov.Storages, dto.StorageStock{
			StorageID:   l.StorageID,
			StorageName: storageNames[l.StorageID],
			Quantity:    l.Quantity,
		})
	}

	now := uc.now()
	out := &cachedOverview{
		Overview: dto.StockOverviewResponse{Items: make([]dto.ItemStockOverview, 0, len(order)), GeneratedAt: now},
	}
	low := 0
	for _, id := range order {
		ov := byItem[id]
		sort.Slice(ov.Storages, func(i, j int) bool { return ov.Storages[i].StorageName < ov.Storages[j].StorageName })
		ov.LowStock = ov.TotalStock <= uc.threshold
		if ov.LowStock {
			low++
		}
		out.Overview.Items = append(out.Overview.Items, *ov)
	}

	since := now.Add(-recentWindow)
	recent, err := uc.docs.Count(ctx, repository.DocumentFilter{StoreID: storeID, Since: &since})
	if err != nil {
		return nil, err
	}
	out.Stats = dto.WarehouseStatsResponse{
		TotalProducts:   len(items),
		TotalStock:      totalStock,
		LowStockItems:   low,
		RecentMovements: recent,
	}
	return out, nil
}
