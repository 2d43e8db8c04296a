package api

import (
	"fmt"

	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/world"
	"github.com/dgraph-io/ristretto/v2"
)

// ExportCache кэширует сериализованные файлы чанков. Ключ включает ревизию
// проекта, поэтому любое изменение проекта делает старые записи недостижимыми,
// а вытеснение по стоимости (размеру в байтах) их со временем убирает.
type ExportCache struct {
	cache *ristretto.Cache[string, []byte]
}

// NewExportCache создаёт кэш объёмом maxMB мегабайт
func NewExportCache(maxMB int) (*ExportCache, error) {
	if maxMB <= 0 {
		maxMB = 64
	}
	maxCost := int64(maxMB) << 20
	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать кэш экспорта: %w", err)
	}
	return &ExportCache{cache: cache}, nil
}

func cacheKey(p *project.Project, key world.ChunkKey, file string) string {
	return fmt.Sprintf("%s|%d|%s|%s", p.Name, p.Revision, key, file)
}

// Get возвращает файл из кэша или строит его через build и кладёт в кэш
func (c *ExportCache) Get(p *project.Project, key world.ChunkKey, file string, build func() []byte) []byte {
	k := cacheKey(p, key, file)
	if data, ok := c.cache.Get(k); ok {
		return data
	}
	data := build()
	if data != nil {
		c.cache.Set(k, data, int64(len(data))+1)
	}
	return data
}

// Wait дожидается применения отложенных записей
func (c *ExportCache) Wait() {
	c.cache.Wait()
}

// Stats число попаданий и промахов
func (c *ExportCache) Stats() (hits, misses uint64) {
	return c.cache.Metrics.Hits(), c.cache.Metrics.Misses()
}

// Close освобождает ресурсы кэша
func (c *ExportCache) Close() {
	c.cache.Close()
}
