package service

import (
	"fmt"
	"time"

	"recipe-normalizer/internal/core/layout"
	"recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/infrastructure/storage"

	"go.uber.org/zap"
)

// Result 一次正規化的結果
type Result struct {
	Path        string
	Recipes     int
	Ingredients int
	Bytes       int
	Duration    time.Duration
}

// Pipeline 讀取、正規化並覆寫食譜集合
type Pipeline struct {
	store      *storage.FileStore
	normalizer *recipe.Normalizer
	serializer *layout.Serializer
	path       string
	atomic     bool
	logger     *zap.Logger
}

// NewPipeline 創建正規化流程
func NewPipeline(cfg *config.Config, store *storage.FileStore, logger *zap.Logger) (*Pipeline, error) {
	table, err := ReplacementTable(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		store:      store,
		normalizer: recipe.NewNormalizer(table),
		serializer: layout.NewSerializer(layout.Default()),
		path:       cfg.Collection.Path,
		atomic:     cfg.Collection.AtomicWrite,
		logger:     logger,
	}, nil
}

// ReplacementTable 由設定建立替換表，未設定時使用內建表
func ReplacementTable(cfg *config.Config) (recipe.ReplacementTable, error) {
	if len(cfg.Replacements) == 0 {
		return recipe.DefaultReplacements(), nil
	}
	rules := make([]recipe.Rule, 0, len(cfg.Replacements))
	for _, r := range cfg.Replacements {
		rules = append(rules, recipe.Rule{From: r.From, To: r.To})
	}
	table, err := recipe.NewReplacementTable(rules...)
	if err != nil {
		return recipe.ReplacementTable{}, fmt.Errorf("invalid replacements: %w", err)
	}
	return table, nil
}

// Run 執行完整流程。所有驗證與正規化都在寫入前完成，失敗時不會寫入
func (p *Pipeline) Run() (*Result, error) {
	start := time.Now()

	data, err := p.store.Read(p.path)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("已讀取食譜集合", zap.String("path", p.path), zap.Int("bytes", len(data)))

	collection, err := recipe.Decode(data)
	if err != nil {
		return nil, err
	}

	normalized, err := p.normalizer.Normalize(collection)
	if err != nil {
		return nil, err
	}

	out, err := p.serializer.Format(normalized)
	if err != nil {
		return nil, err
	}

	if err := p.store.Write(p.path, out, p.atomic); err != nil {
		return nil, err
	}

	result := &Result{
		Path:        p.path,
		Recipes:     len(normalized),
		Ingredients: countIngredients(normalized),
		Bytes:       len(out),
		Duration:    time.Since(start),
	}
	p.logger.Info("食譜集合已正規化",
		zap.String("path", result.Path),
		zap.Int("recipes", result.Recipes),
		zap.Int("ingredients", result.Ingredients),
		zap.Int("bytes", result.Bytes),
		zap.Duration("duration", result.Duration),
		zap.Bool("atomic", p.atomic),
	)
	return result, nil
}

func countIngredients(c recipe.Collection) int {
	n := 0
	for _, r := range c {
		items, err := r.Ingredients()
		if err != nil {
			continue
		}
		n += len(items)
	}
	return n
}
