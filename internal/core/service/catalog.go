package service

import (
	"context"
	"encoding/json"
	"errors"

	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/layout"
	"recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/infrastructure/storage"
	"recipe-normalizer/internal/pkg/common"

	"go.uber.org/zap"
)

// Catalog 唯讀提供食譜集合，結果依檔案內容哈希快取
type Catalog struct {
	store      *storage.FileStore
	normalizer *recipe.Normalizer
	serializer *layout.Serializer
	cache      cache.Store
	path       string
}

// NewCatalog 創建食譜目錄服務，cacheStore 可為 nil
func NewCatalog(cfg *config.Config, store *storage.FileStore, cacheStore cache.Store) (*Catalog, error) {
	table, err := ReplacementTable(cfg)
	if err != nil {
		return nil, err
	}
	return &Catalog{
		store:      store,
		normalizer: recipe.NewNormalizer(table),
		serializer: layout.NewSerializer(layout.Default()),
		cache:      cacheStore,
		path:       cfg.Collection.Path,
	}, nil
}

// Path 集合檔案路徑
func (c *Catalog) Path() string {
	return c.path
}

// Raw 回傳檔案原始內容
func (c *Catalog) Raw(ctx context.Context) ([]byte, error) {
	return c.store.Read(c.path)
}

// Recipes 回傳正規化後的集合文字
func (c *Catalog) Recipes(ctx context.Context) ([]byte, error) {
	data, err := c.store.Read(c.path)
	if err != nil {
		return nil, err
	}
	key := "render:" + common.HashBytes(data)
	if cached, ok := c.lookup(ctx, key); ok {
		return cached, nil
	}

	normalized, err := c.load(data)
	if err != nil {
		return nil, err
	}
	out, err := c.serializer.Format(normalized)
	if err != nil {
		return nil, err
	}
	c.remember(ctx, key, out)
	return out, nil
}

// Ingredients 回傳所有食譜的食材名稱
func (c *Catalog) Ingredients(ctx context.Context) ([]string, error) {
	data, err := c.store.Read(c.path)
	if err != nil {
		return nil, err
	}
	key := "index:" + common.HashBytes(data)
	if cached, ok := c.lookup(ctx, key); ok {
		var names []string
		if err := json.Unmarshal(cached, &names); err == nil {
			return names, nil
		}
	}

	normalized, err := c.load(data)
	if err != nil {
		return nil, err
	}
	names, err := recipe.CommonIngredients(normalized)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(names); err == nil {
		c.remember(ctx, key, encoded)
	}
	return names, nil
}

func (c *Catalog) load(data []byte) (recipe.Collection, error) {
	collection, err := recipe.Decode(data)
	if err != nil {
		return nil, err
	}
	return c.normalizer.Normalize(collection)
}

func (c *Catalog) lookup(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	value, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("快取讀取失敗", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return value, true
}

func (c *Catalog) remember(ctx context.Context, key string, value []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, value); err != nil {
		common.LogWarn("快取寫入失敗", zap.String("key", key), zap.Error(err))
	}
}
